package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type closingProvider struct {
	*stubProvider
	closed bool
}

func (p *closingProvider) Close() error {
	p.closed = true
	return nil
}

func TestBuildRegistry_FailedFactoryIsUnavailable(t *testing.T) {
	t.Parallel()

	generic := &closingProvider{stubProvider: fixedProvider("google", "Halo")}
	registry := BuildRegistry(context.Background(), zerolog.Nop(), RegistryOptions{InitTimeout: time.Second},
		Factory{ID: GenericMT, Timeout: time.Second, Build: func(context.Context) (Provider, error) {
			return generic, nil
		}},
		Factory{ID: NeuralMT, Build: func(context.Context) (Provider, error) {
			return nil, errors.New("secret DEEPL_API_KEY not found")
		}},
	)

	resp, err := registry.Provider(GenericMT).Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: "id"})
	if err != nil || resp.Text != "Halo" {
		t.Fatalf("expected generic provider to work, got %+v, %v", resp, err)
	}

	_, err = registry.Provider(NeuralMT).Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: "id"})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if registry.Available(NeuralMT) || !registry.Available(GenericMT) {
		t.Fatalf("unexpected availability: generic=%v neural=%v", registry.Available(GenericMT), registry.Available(NeuralMT))
	}

	status := registry.Status()
	if len(status) != 3 {
		t.Fatalf("expected a status row per known provider, got %+v", status)
	}
	if status[0].Provider != "deepl" || status[0].Available || status[0].Error == "" {
		t.Fatalf("unexpected deepl status: %+v", status[0])
	}
	if status[1].Provider != "gemini" || status[1].Available {
		t.Fatalf("unexpected gemini status: %+v", status[1])
	}

	if err := registry.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !generic.closed {
		t.Fatalf("expected registry to close provider clients")
	}
}

func TestBuildRegistry_SlowFactoryDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	registry := BuildRegistry(context.Background(), zerolog.Nop(), RegistryOptions{InitTimeout: 20 * time.Millisecond},
		Factory{ID: GenerativeLM, Build: func(ctx context.Context) (Provider, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
		Factory{ID: GenericMT, Build: func(context.Context) (Provider, error) {
			return fixedProvider("google", "ok"), nil
		}},
	)

	if !registry.Available(GenericMT) {
		t.Fatalf("expected generic provider to be available")
	}
	if registry.Available(GenerativeLM) {
		t.Fatalf("expected timed-out factory to be unavailable")
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	if _, err := registry.Provider("azure").Translate(context.Background(), TranslateRequest{}); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected unknown provider to be unavailable, got %v", err)
	}
}
