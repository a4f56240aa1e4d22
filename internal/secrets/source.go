// Package secrets resolves provider credentials by stable name.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound is returned when a credential does not exist in the backing store.
var ErrNotFound = errors.New("secret not found")

// Source returns a credential by name.
type Source interface {
	Get(ctx context.Context, name string) (string, error)
}

// EnvSource reads credentials from process environment variables.
type EnvSource struct {
	lookup func(string) (string, bool)
}

func NewEnvSource() *EnvSource {
	return &EnvSource{lookup: os.LookupEnv}
}

func (s *EnvSource) Get(_ context.Context, name string) (string, error) {
	key := strings.TrimSpace(name)
	if key == "" {
		return "", fmt.Errorf("secret name is required")
	}
	lookup := os.LookupEnv
	if s != nil && s.lookup != nil {
		lookup = s.lookup
	}
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return strings.TrimSpace(value), nil
}

// StaticSource serves credentials from a fixed map. Useful for the CLI and tests.
type StaticSource map[string]string

func (s StaticSource) Get(_ context.Context, name string) (string, error) {
	value, ok := s[name]
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return value, nil
}
