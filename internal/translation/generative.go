package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"horse.fit/transgate/internal/language"
)

// Generator produces free-form text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// GenerativeProvider translates by prompting a generative model. The trimmed model
// output is taken as the translation; it is only checked for emptiness and size.
type GenerativeProvider struct {
	generator Generator
}

func NewGenerativeProvider(generator Generator) (*GenerativeProvider, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is nil")
	}
	return &GenerativeProvider{generator: generator}, nil
}

func (p *GenerativeProvider) Name() string {
	return string(GenerativeLM)
}

// ModelName returns the configured model identifier.
func (p *GenerativeProvider) ModelName() string {
	if p == nil || p.generator == nil {
		return ""
	}
	return p.generator.Model()
}

func (p *GenerativeProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil || p.generator == nil {
		return nil, fmt.Errorf("generative provider is not initialized")
	}

	started := time.Now()
	raw, err := p.generator.Generate(ctx, BuildTranslationPrompt(req.Text, req.TargetLang))
	if err != nil {
		return nil, fmt.Errorf("generate with %s: %w", p.generator.Model(), err)
	}

	translated := strings.TrimSpace(raw)
	if err := checkGeneratedOutput(req.Text, translated); err != nil {
		return nil, err
	}

	return &TranslateResponse{
		Text:         translated,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

// BuildTranslationPrompt asks for the translation only, addressed by language code.
func BuildTranslationPrompt(text, targetLang string) string {
	target := fmt.Sprintf("language code '%s'", targetLang)
	if label := language.Label(targetLang); label != "" {
		target = fmt.Sprintf("%s (%s)", target, label)
	}
	return fmt.Sprintf(
		"Translate the text between the <text> tags into %s. "+
			"Reply with the translated text only: no explanations, notes, quotes or tags.\n\n<text>\n%s\n</text>",
		target,
		text,
	)
}

// Model output that is empty or wildly longer than the input is treated as a failed
// call so the dispatcher can fall back.
func checkGeneratedOutput(input, output string) error {
	if output == "" {
		return fmt.Errorf("generative model returned empty output")
	}
	limit := max(4*utf8.RuneCountInString(input)+256, 1024)
	if n := utf8.RuneCountInString(output); n > limit {
		return fmt.Errorf("generative model output too long: %d characters for %d input characters", n, utf8.RuneCountInString(input))
	}
	return nil
}
