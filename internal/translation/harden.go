package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// BreakerSettings controls the per-provider circuit breaker.
type BreakerSettings struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before a trial call.
	OpenTimeout time.Duration
}

// HardenOptions wraps an adapter with a call deadline and, optionally, a breaker.
type HardenOptions struct {
	Timeout time.Duration
	Breaker *BreakerSettings
}

// Harden applies the deadline first and the breaker around it, so timeouts count as failures.
func Harden(id ProviderID, provider Provider, opts HardenOptions, logger zerolog.Logger) Provider {
	hardened := provider
	if opts.Timeout > 0 {
		hardened = &deadlineProvider{id: id, next: hardened, timeout: opts.Timeout}
	}
	if opts.Breaker != nil && opts.Breaker.FailureThreshold > 0 {
		hardened = newBreakerProvider(id, hardened, *opts.Breaker, logger)
	}
	return hardened
}

type deadlineProvider struct {
	id      ProviderID
	next    Provider
	timeout time.Duration
}

func (p *deadlineProvider) Name() string {
	return p.next.Name()
}

func (p *deadlineProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.next.Translate(callCtx, req)
	if err == nil {
		return resp, nil
	}

	perr := asProviderError(p.id, err)
	if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		perr.Timeout = true
	}
	return nil, perr
}

type breakerProvider struct {
	id   ProviderID
	next Provider
	cb   *gobreaker.CircuitBreaker
}

func newBreakerProvider(id ProviderID, next Provider, settings BreakerSettings, logger zerolog.Logger) *breakerProvider {
	threshold := settings.FailureThreshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(id),
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// A caller walking away says nothing about upstream health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit breaker state changed")
		},
	})
	return &breakerProvider{id: id, next: next, cb: cb}
}

func (p *breakerProvider) Name() string {
	return p.next.Name()
}

func (p *breakerProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	out, err := p.cb.Execute(func() (interface{}, error) {
		return p.next.Translate(ctx, req)
	})
	if err != nil {
		return nil, asProviderError(p.id, err)
	}
	resp, ok := out.(*TranslateResponse)
	if !ok || resp == nil {
		return nil, &ProviderError{Provider: p.id, Cause: errors.New("provider returned no response")}
	}
	return resp, nil
}

// unavailableProvider stands in for a provider whose initialization failed.
type unavailableProvider struct {
	id    ProviderID
	cause error
}

func (p *unavailableProvider) Name() string {
	return string(p.id)
}

func (p *unavailableProvider) Translate(context.Context, TranslateRequest) (*TranslateResponse, error) {
	cause := ErrProviderUnavailable
	if p.cause != nil {
		cause = fmt.Errorf("%w: %w", ErrProviderUnavailable, p.cause)
	}
	return nil, &ProviderError{Provider: p.id, Cause: cause}
}
