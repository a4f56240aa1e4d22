package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrNoEnvFile reports that no .env candidate exists. Deployments that inject the
// environment directly (containers, Cloud Run) hit this on every start.
var ErrNoEnvFile = errors.New("no env file found")

// EnvLoader loads .env files selected by an --env flag or TRANSGATE_ENV_FILE.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}

	value := fs.String("env", defaultPath, "Path to the .env file")
	return &EnvLoader{
		value:       value,
		defaultPath: defaultPath,
	}
}

// Load resolves and loads environment variables.
//
// An explicitly requested file (flag value other than the default, or TRANSGATE_ENV_FILE)
// overrides the process environment and must exist. The default file only fills in
// variables that are not already set.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	if custom := strings.TrimSpace(os.Getenv("TRANSGATE_ENV_FILE")); custom != "" {
		if err := godotenv.Overload(custom); err != nil {
			return "", fmt.Errorf("load TRANSGATE_ENV_FILE=%s: %w", custom, err)
		}
		return custom, nil
	}

	requested := ""
	if l.value != nil {
		requested = strings.TrimSpace(*l.value)
	}
	if requested != "" && requested != l.defaultPath {
		if err := godotenv.Overload(requested); err != nil {
			return "", fmt.Errorf("load env file %s: %w", requested, err)
		}
		return requested, nil
	}

	if _, err := os.Stat(l.defaultPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoEnvFile
		}
		return "", fmt.Errorf("stat env file %s: %w", l.defaultPath, err)
	}
	if err := godotenv.Load(l.defaultPath); err != nil {
		return "", fmt.Errorf("load env file %s: %w", l.defaultPath, err)
	}
	return l.defaultPath, nil
}
