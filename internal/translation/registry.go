package translation

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Factory builds one provider adapter. Build runs once at startup.
type Factory struct {
	ID      ProviderID
	Timeout time.Duration
	Build   func(ctx context.Context) (Provider, error)
}

// RegistryOptions controls BuildRegistry.
type RegistryOptions struct {
	// InitTimeout bounds each factory; zero means no bound beyond ctx.
	InitTimeout time.Duration
	Breaker     *BreakerSettings
}

// ProviderStatus reports the initialization outcome for one provider.
type ProviderStatus struct {
	Provider  string `json:"provider"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
	Timeout   string `json:"timeout,omitempty"`
}

// Registry is the immutable set of provider adapters built at startup.
type Registry struct {
	providers map[ProviderID]Provider
	status    map[ProviderID]ProviderStatus
	closers   []io.Closer
}

// NewRegistry wraps ready-made adapters without hardening. Missing providers are
// reported unavailable.
func NewRegistry(providers map[ProviderID]Provider) *Registry {
	r := &Registry{
		providers: make(map[ProviderID]Provider, len(knownProviders)),
		status:    make(map[ProviderID]ProviderStatus, len(knownProviders)),
	}
	for id, provider := range providers {
		if provider == nil {
			continue
		}
		r.providers[id] = provider
		r.status[id] = ProviderStatus{Provider: string(id), Available: true}
	}
	r.fillUnavailable()
	return r
}

// BuildRegistry runs every factory concurrently. A failing factory never blocks or fails
// the others; its provider is registered as unavailable instead.
func BuildRegistry(ctx context.Context, logger zerolog.Logger, opts RegistryOptions, factories ...Factory) *Registry {
	r := &Registry{
		providers: make(map[ProviderID]Provider, len(factories)),
		status:    make(map[ProviderID]ProviderStatus, len(factories)),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, factory := range factories {
		g.Go(func() error {
			provider, err := buildProvider(ctx, factory, opts.InitTimeout)

			mu.Lock()
			defer mu.Unlock()

			status := ProviderStatus{Provider: string(factory.ID)}
			if factory.Timeout > 0 {
				status.Timeout = factory.Timeout.String()
			}
			if err != nil {
				logger.Error().Err(err).Str("provider", string(factory.ID)).Msg("provider initialization failed")
				status.Error = err.Error()
				r.providers[factory.ID] = &unavailableProvider{id: factory.ID, cause: err}
				r.status[factory.ID] = status
				return nil
			}

			if closer, ok := provider.(io.Closer); ok {
				r.closers = append(r.closers, closer)
			}
			status.Available = true
			r.providers[factory.ID] = Harden(factory.ID, provider, HardenOptions{
				Timeout: factory.Timeout,
				Breaker: opts.Breaker,
			}, logger)
			r.status[factory.ID] = status
			logger.Info().Str("provider", string(factory.ID)).Msg("provider initialized")
			return nil
		})
	}
	_ = g.Wait()

	r.fillUnavailable()
	return r
}

func buildProvider(ctx context.Context, factory Factory, timeout time.Duration) (Provider, error) {
	if factory.Build == nil {
		return nil, fmt.Errorf("no factory for provider %s", factory.ID)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	provider, err := factory.Build(ctx)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("factory for provider %s returned nil", factory.ID)
	}
	return provider, nil
}

func (r *Registry) fillUnavailable() {
	for id := range knownProviders {
		if _, ok := r.providers[id]; ok {
			continue
		}
		r.providers[id] = &unavailableProvider{id: id}
		r.status[id] = ProviderStatus{Provider: string(id), Error: "not configured"}
	}
}

// Provider returns the adapter for id. Unknown ids get an always-failing adapter.
func (r *Registry) Provider(id ProviderID) Provider {
	if r != nil {
		if provider, ok := r.providers[id]; ok {
			return provider
		}
	}
	return &unavailableProvider{id: id}
}

// Status lists every provider's initialization outcome sorted by name.
func (r *Registry) Status() []ProviderStatus {
	if r == nil {
		return nil
	}
	out := make([]ProviderStatus, 0, len(r.status))
	for _, status := range r.status {
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Provider < out[j].Provider
	})
	return out
}

// Available reports whether id initialized successfully.
func (r *Registry) Available(id ProviderID) bool {
	if r == nil {
		return false
	}
	return r.status[id].Available
}

func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	for _, closer := range r.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
