package translation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies client input errors.
type ErrorKind string

const (
	InvalidText       ErrorKind = "InvalidText"
	InvalidTargetLang ErrorKind = "InvalidTargetLang"
	InvalidProvider   ErrorKind = "InvalidProvider"
	InvalidBatch      ErrorKind = "InvalidBatch"
)

var (
	// ErrUnsupportedProvider is returned when dispatch is asked for a provider outside the routing table.
	ErrUnsupportedProvider = errors.New("unsupported provider")
	// ErrProviderUnavailable marks a provider whose initialization failed.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// ValidationError is a client input error. Message is safe to return to callers.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func newValidationError(kind ErrorKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ProviderError is an upstream failure from one adapter.
type ProviderError struct {
	Provider ProviderID
	Cause    error
	Timeout  bool
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Timeout {
		return fmt.Sprintf("%s: timed out: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// asProviderError wraps err in a ProviderError for id unless it already is one.
func asProviderError(id ProviderID, err error) *ProviderError {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr
	}
	return &ProviderError{Provider: id, Cause: err}
}

// Attempt records one provider call made while dispatching a request.
type Attempt struct {
	Provider ProviderID
	Err      error
}

// AllProvidersFailedError is returned when the requested provider and its fallback both failed.
type AllProvidersFailedError struct {
	Attempts []Attempt
}

func (e *AllProvidersFailedError) Error() string {
	if e == nil || len(e.Attempts) == 0 {
		return "all providers failed"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", attempt.Provider, attempt.Err))
	}
	return "all providers failed (" + strings.Join(parts, "; ") + ")"
}

func (e *AllProvidersFailedError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		errs = append(errs, attempt.Err)
	}
	return errs
}

// Providers lists the attempted providers in call order.
func (e *AllProvidersFailedError) Providers() []ProviderID {
	if e == nil {
		return nil
	}
	ids := make([]ProviderID, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		ids = append(ids, attempt.Provider)
	}
	return ids
}
