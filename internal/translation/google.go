package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

type googleClient interface {
	Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
	Close() error
}

// GoogleProvider calls Cloud Translation (v2) with the caller's target code as-is.
type GoogleProvider struct {
	client googleClient
}

// NewGoogleProvider builds the shared Cloud Translation client. credential is either a
// service-account JSON document or a plain API key.
func NewGoogleProvider(ctx context.Context, credential string) (*GoogleProvider, error) {
	trimmed := strings.TrimSpace(credential)
	if trimmed == "" {
		return nil, fmt.Errorf("google translate credential is empty")
	}

	var opts []option.ClientOption
	if strings.HasPrefix(trimmed, "{") {
		opts = append(opts, option.WithCredentialsJSON([]byte(trimmed)))
	} else {
		opts = append(opts, option.WithAPIKey(trimmed))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create google translate client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Name() string {
	return string(GenericMT)
}

func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("google provider is not initialized")
	}

	// Raw keeps the caller's code as written; only ill-formed tags are refused.
	target, err := language.Raw.Parse(req.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("parse target language %q: %w", req.TargetLang, err)
	}

	started := time.Now()
	translations, err := p.client.Translate(ctx, []string{req.Text}, target, &translate.Options{
		Format: translate.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("google translate: %w", err)
	}
	if len(translations) == 0 {
		return nil, fmt.Errorf("google translate returned no translations")
	}

	return &TranslateResponse{
		Text:         translations[0].Text,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

func (p *GoogleProvider) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
