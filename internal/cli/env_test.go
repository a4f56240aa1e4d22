package cli

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvLoader_MissingDefaultIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRANSGATE_ENV_FILE", "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, filepath.Join(dir, ".env"))
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if _, err := loader.Load(); !errors.Is(err, ErrNoEnvFile) {
		t.Fatalf("expected ErrNoEnvFile, got %v", err)
	}
}

func TestEnvLoader_DefaultDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TRANSGATE_TEST_PORT=9000\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TRANSGATE_ENV_FILE", "")
	t.Setenv("TRANSGATE_TEST_PORT", "8080")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, path)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != path {
		t.Fatalf("unexpected loaded path: %q", loaded)
	}
	if got := os.Getenv("TRANSGATE_TEST_PORT"); got != "8080" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}

func TestEnvLoader_ExplicitFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prod.env")
	if err := os.WriteFile(path, []byte("TRANSGATE_TEST_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TRANSGATE_ENV_FILE", "")
	t.Setenv("TRANSGATE_TEST_LEVEL", "info")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, filepath.Join(dir, ".env"))
	if err := fs.Parse([]string{"--env", path}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if _, err := loader.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("TRANSGATE_TEST_LEVEL"); got != "debug" {
		t.Fatalf("expected explicit file to override, got %q", got)
	}
}
