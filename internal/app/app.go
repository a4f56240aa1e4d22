package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "serve":
		return runServe(args[1:])
	case "health":
		return runHealth(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "providers":
		return runProviders(args[1:])
	case "purge-cache":
		return runPurgeCache(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "transgate CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  transgate <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  serve        Start the translation gateway")
	fmt.Fprintln(os.Stderr, "  health       Check cache connectivity and provider initialization")
	fmt.Fprintln(os.Stderr, "  translate    Translate text through the gateway pipeline")
	fmt.Fprintln(os.Stderr, "  providers    List providers, aliases and fallbacks")
	fmt.Fprintln(os.Stderr, "  purge-cache  Delete expired entries from the SQL cache backend")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"transgate <command> -h\" for command-specific flags.")
}
