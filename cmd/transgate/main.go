package main

import (
	"os"

	"horse.fit/transgate/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
