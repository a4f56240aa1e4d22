package translation

import (
	"context"
	"errors"
	"testing"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
)

type stubGoogleClient struct {
	target language.Tag
	format translate.Format
	out    []translate.Translation
	err    error
}

func (c *stubGoogleClient) Translate(_ context.Context, _ []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error) {
	c.target = target
	if opts != nil {
		c.format = opts.Format
	}
	return c.out, c.err
}

func (c *stubGoogleClient) Close() error {
	return nil
}

func TestGoogleProvider_UsesRawTargetCode(t *testing.T) {
	t.Parallel()

	client := &stubGoogleClient{out: []translate.Translation{{Text: "Halo"}}}
	provider := &GoogleProvider{client: client}

	resp, err := provider.Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: "id"})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if resp.Text != "Halo" || resp.TargetLang != "id" || resp.ProviderName != "google" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if client.target.String() != "id" {
		t.Fatalf("unexpected target tag: %s", client.target)
	}
	if client.format != translate.Text {
		t.Fatalf("expected text format, got %q", client.format)
	}
}

func TestGoogleProvider_DoesNotCanonicalizeTarget(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"iw", "zh-TW", "pt-BR"} {
		client := &stubGoogleClient{out: []translate.Translation{{Text: "ok"}}}
		provider := &GoogleProvider{client: client}
		if _, err := provider.Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: code}); err != nil {
			t.Fatalf("translate %q: %v", code, err)
		}
		if got := client.target.String(); got != code {
			t.Fatalf("target %q reached upstream as %q", code, got)
		}
	}
}

func TestGoogleProvider_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("permission denied")
	provider := &GoogleProvider{client: &stubGoogleClient{err: boom}}
	if _, err := provider.Translate(context.Background(), TranslateRequest{Text: "a", TargetLang: "fr"}); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	empty := &GoogleProvider{client: &stubGoogleClient{}}
	if _, err := empty.Translate(context.Background(), TranslateRequest{Text: "a", TargetLang: "fr"}); err == nil {
		t.Fatalf("expected empty result to fail")
	}
	if _, err := empty.Translate(context.Background(), TranslateRequest{Text: "a", TargetLang: "not a tag!"}); err == nil {
		t.Fatalf("expected bad language code to fail")
	}
	if _, err := NewGoogleProvider(context.Background(), " "); err == nil {
		t.Fatalf("expected empty credential to fail")
	}
}
