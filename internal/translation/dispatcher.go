package translation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// FallbackRoutes maps a provider to the provider retried once when it fails.
// GenericMT has no entry and is terminal.
var FallbackRoutes = map[ProviderID]ProviderID{
	NeuralMT:     GenericMT,
	GenerativeLM: GenericMT,
}

// ProviderSource resolves provider adapters by id.
type ProviderSource interface {
	Provider(id ProviderID) Provider
}

// Dispatcher calls the requested provider and retries once via its fallback.
type Dispatcher struct {
	providers ProviderSource
	routes    map[ProviderID]ProviderID
	logger    zerolog.Logger
}

func NewDispatcher(providers ProviderSource, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		providers: providers,
		routes:    FallbackRoutes,
		logger:    logger,
	}
}

// Dispatch translates text with the requested provider. The caller sees either a translation
// or a final failure; a successful fallback is only logged.
func (d *Dispatcher) Dispatch(ctx context.Context, text, targetLang string, requested ProviderID) (string, error) {
	if !isKnownProvider(requested) {
		return "", ErrUnsupportedProvider
	}

	attempts := make([]Attempt, 0, 2)
	out, err := d.call(ctx, requested, text, targetLang)
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	attempts = append(attempts, Attempt{Provider: requested, Err: err})

	fallback, ok := d.routes[requested]
	if !ok {
		return "", &AllProvidersFailedError{Attempts: attempts}
	}

	d.logger.Warn().
		Err(err).
		Str("provider", string(requested)).
		Str("fallback", string(fallback)).
		Msg("provider failed, retrying with fallback")

	out, err = d.call(ctx, fallback, text, targetLang)
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	attempts = append(attempts, Attempt{Provider: fallback, Err: err})
	return "", &AllProvidersFailedError{Attempts: attempts}
}

func (d *Dispatcher) call(ctx context.Context, id ProviderID, text, targetLang string) (string, error) {
	provider := d.providers.Provider(id)
	if provider == nil {
		return "", &ProviderError{Provider: id, Cause: ErrProviderUnavailable}
	}

	started := time.Now()
	resp, err := provider.Translate(ctx, TranslateRequest{Text: text, TargetLang: targetLang})
	if err != nil {
		return "", asProviderError(id, err)
	}
	if resp == nil {
		return "", &ProviderError{Provider: id, Cause: errors.New("provider returned no response")}
	}

	d.logger.Debug().
		Str("provider", string(id)).
		Str("target_lang", targetLang).
		Dur("latency", time.Since(started)).
		Msg("provider call completed")
	return resp.Text, nil
}
