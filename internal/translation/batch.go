package translation

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const DefaultBatchConcurrency = 16

// ResultStore is the best-effort cache consulted before dispatch. Implementations never fail;
// a miss and an unreachable backend look the same.
type ResultStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Translator dispatches one item to an upstream provider.
type Translator interface {
	Dispatch(ctx context.Context, text, targetLang string, provider ProviderID) (string, error)
}

type BatchOptions struct {
	// Concurrency caps in-flight items per batch.
	Concurrency int
}

// ItemResult is the outcome for one batch item, at the same index as its input.
type ItemResult struct {
	Text   string
	Err    error
	Cached bool
}

// BatchStats counts outcomes since process start.
type BatchStats struct {
	Items     int64
	CacheHits int64
	Shared    int64
	Failed    int64
}

// BatchOrchestrator fans a batch out into per-item cache probes and dispatches.
type BatchOrchestrator struct {
	store       ResultStore
	translator  Translator
	concurrency int
	logger      zerolog.Logger
	flights     singleflight.Group

	items     atomic.Int64
	cacheHits atomic.Int64
	shared    atomic.Int64
	failed    atomic.Int64
}

func NewBatchOrchestrator(store ResultStore, translator Translator, opts BatchOptions, logger zerolog.Logger) *BatchOrchestrator {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &BatchOrchestrator{
		store:       store,
		translator:  translator,
		concurrency: concurrency,
		logger:      logger,
	}
}

// TranslateBatch processes every item concurrently and returns one result per item in input order.
// Item failures are recorded in place and never cancel sibling items.
func (o *BatchOrchestrator) TranslateBatch(ctx context.Context, items []string, targetLang string, provider ProviderID) []ItemResult {
	results := make([]ItemResult, len(items))
	if len(items) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, item := range items {
		g.Go(func() error {
			results[i] = o.translateItem(ctx, item, targetLang, provider)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Translate is TranslateBatch for a single item.
func (o *BatchOrchestrator) Translate(ctx context.Context, text, targetLang string, provider ProviderID) (string, error) {
	result := o.TranslateBatch(ctx, []string{text}, targetLang, provider)[0]
	return result.Text, result.Err
}

func (o *BatchOrchestrator) Stats() BatchStats {
	return BatchStats{
		Items:     o.items.Load(),
		CacheHits: o.cacheHits.Load(),
		Shared:    o.shared.Load(),
		Failed:    o.failed.Load(),
	}
}

func (o *BatchOrchestrator) translateItem(ctx context.Context, text, targetLang string, provider ProviderID) ItemResult {
	o.items.Add(1)

	if err := ctx.Err(); err != nil {
		o.failed.Add(1)
		return ItemResult{Err: err}
	}

	key := CacheKey(text, targetLang, provider)
	if o.store != nil {
		if cached, ok := o.store.Get(ctx, key); ok {
			o.cacheHits.Add(1)
			return ItemResult{Text: cached, Cached: true}
		}
	}

	// Identical items in flight at once share one upstream call. The call is detached from
	// any one waiter; adapter deadlines bound it.
	flight := o.flights.DoChan(key, func() (interface{}, error) {
		detached := context.WithoutCancel(ctx)
		translated, err := o.translator.Dispatch(detached, text, targetLang, provider)
		if err != nil {
			return "", err
		}
		if o.store != nil {
			o.store.Set(detached, key, translated)
		}
		return translated, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		o.failed.Add(1)
		return ItemResult{Err: ctx.Err()}
	case res = <-flight:
	}
	if res.Shared {
		o.shared.Add(1)
	}
	if res.Err != nil {
		o.failed.Add(1)
		o.logger.Debug().Err(res.Err).Str("provider", string(provider)).Str("target_lang", targetLang).Msg("batch item failed")
		return ItemResult{Err: res.Err}
	}
	translated, _ := res.Val.(string)
	return ItemResult{Text: translated}
}

// BatchItemError identifies the first failed item of a batch.
type BatchItemError struct {
	Index int
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error {
	return e.Err
}

// FirstError returns the lowest-index item failure, or nil when every item succeeded.
func FirstError(results []ItemResult) error {
	for i, result := range results {
		if result.Err != nil {
			return &BatchItemError{Index: i, Err: result.Err}
		}
	}
	return nil
}
