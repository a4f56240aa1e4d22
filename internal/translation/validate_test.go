package translation

import (
	"errors"
	"strings"
	"testing"
)

func validationKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return verr.Kind
}

func TestValidate_TextLengthBoundary(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultLimits())
	if err := v.Validate(strings.Repeat("a", 10000), "fr", "google"); err != nil {
		t.Fatalf("expected 10000 characters to pass, got %v", err)
	}
	if kind := validationKind(t, v.Validate(strings.Repeat("a", 10001), "fr", "google")); kind != InvalidText {
		t.Fatalf("expected InvalidText, got %s", kind)
	}
}

func TestValidate_CountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	v := NewValidator(Limits{MaxTextLength: 3, MaxBatchSize: 1})
	if err := v.Validate("日本語", "en", "deepl"); err != nil {
		t.Fatalf("expected three multibyte characters to pass, got %v", err)
	}
}

func TestValidate_RuleOrder(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultLimits())
	tests := []struct {
		name     string
		text     string
		lang     string
		provider string
		want     ErrorKind
	}{
		{name: "empty text wins over everything", text: "", lang: "", provider: "bing", want: InvalidText},
		{name: "empty lang wins over provider", text: "hi", lang: "  ", provider: "bing", want: InvalidTargetLang},
		{name: "unknown provider", text: "hi", lang: "fr", provider: "bing", want: InvalidProvider},
		{name: "empty provider", text: "hi", lang: "fr", provider: "", want: InvalidProvider},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if kind := validationKind(t, v.Validate(tc.text, tc.lang, tc.provider)); kind != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, kind)
			}
		})
	}
}

func TestValidate_AcceptsEveryWireName(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultLimits())
	for _, name := range []string{"google", "deepl", "gemini", "openai", " OpenAI "} {
		if err := v.Validate("hi", "fr", name); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", name, err)
		}
	}
}

func TestValidateBatch_SizeBoundary(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultLimits())
	items := make([]string, 101)
	for i := range items {
		items[i] = "x"
	}
	if err := v.ValidateBatch(items[:100], "fr", "google"); err != nil {
		t.Fatalf("expected 100 items to pass, got %v", err)
	}
	if kind := validationKind(t, v.ValidateBatch(items, "fr", "google")); kind != InvalidBatch {
		t.Fatalf("expected InvalidBatch for 101 items, got %s", kind)
	}
	if kind := validationKind(t, v.ValidateBatch(nil, "fr", "google")); kind != InvalidBatch {
		t.Fatalf("expected InvalidBatch for empty batch, got %s", kind)
	}
}

func TestValidateBatch_ChecksItems(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultLimits())
	if kind := validationKind(t, v.ValidateBatch([]string{"ok", ""}, "fr", "google")); kind != InvalidText {
		t.Fatalf("expected InvalidText for empty item, got %s", kind)
	}
}

func TestParseProvider_Aliases(t *testing.T) {
	t.Parallel()

	tests := map[string]ProviderID{
		"google": GenericMT,
		"deepl":  NeuralMT,
		"gemini": GenerativeLM,
		"openai": GenerativeLM,
		"DeepL":  NeuralMT,
	}
	for raw, want := range tests {
		got, ok := ParseProvider(raw)
		if !ok || got != want {
			t.Fatalf("ParseProvider(%q) = %q, %v; want %q", raw, got, ok, want)
		}
	}
	if _, ok := ParseProvider("azure"); ok {
		t.Fatalf("expected unknown provider to be rejected")
	}
}

func TestAcceptedProviderNames_Sorted(t *testing.T) {
	t.Parallel()

	got := strings.Join(AcceptedProviderNames(), ",")
	if got != "deepl,gemini,google,openai" {
		t.Fatalf("unexpected accepted names: %s", got)
	}
}
