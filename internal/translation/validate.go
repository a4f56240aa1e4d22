package translation

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxTextLength = 10000
	DefaultMaxBatchSize  = 100
)

// Limits bounds request size. Text length is counted in characters, not bytes.
type Limits struct {
	MaxTextLength int
	MaxBatchSize  int
}

func DefaultLimits() Limits {
	return Limits{
		MaxTextLength: DefaultMaxTextLength,
		MaxBatchSize:  DefaultMaxBatchSize,
	}
}

// Validator checks request shape before any I/O. It is stateless and safe for concurrent use.
type Validator struct {
	limits Limits
}

func NewValidator(limits Limits) *Validator {
	if limits.MaxTextLength <= 0 {
		limits.MaxTextLength = DefaultMaxTextLength
	}
	if limits.MaxBatchSize <= 0 {
		limits.MaxBatchSize = DefaultMaxBatchSize
	}
	return &Validator{limits: limits}
}

func (v *Validator) Limits() Limits {
	return v.limits
}

// Validate checks one item. Rules run in order and the first failure wins:
// text, then target language, then provider.
func (v *Validator) Validate(item, targetLang, provider string) error {
	if item == "" || utf8.RuneCountInString(item) > v.limits.MaxTextLength {
		return newValidationError(InvalidText, "Invalid text: must be a non-empty string of at most %d characters", v.limits.MaxTextLength)
	}
	if strings.TrimSpace(targetLang) == "" {
		return newValidationError(InvalidTargetLang, "Invalid targetLang: must be a non-empty language code")
	}
	if _, ok := ParseProvider(provider); !ok {
		return newValidationError(InvalidProvider, "Invalid provider: must be one of %s", strings.Join(AcceptedProviderNames(), ", "))
	}
	return nil
}

// ValidateBatch checks the batch size and then every item in order.
func (v *Validator) ValidateBatch(texts []string, targetLang, provider string) error {
	if len(texts) == 0 || len(texts) > v.limits.MaxBatchSize {
		return newValidationError(InvalidBatch, "Invalid texts: must be an array of 1 to %d items", v.limits.MaxBatchSize)
	}
	for _, text := range texts {
		if err := v.Validate(text, targetLang, provider); err != nil {
			return err
		}
	}
	return nil
}
