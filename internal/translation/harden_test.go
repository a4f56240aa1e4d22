package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

func blockingProvider() *stubProvider {
	return &stubProvider{name: "deepl", fn: func(ctx context.Context, _ TranslateRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
}

func TestHarden_DeadlineMarksTimeout(t *testing.T) {
	t.Parallel()

	p := Harden(NeuralMT, blockingProvider(), HardenOptions{Timeout: 20 * time.Millisecond}, zerolog.Nop())
	_, err := p.Translate(context.Background(), TranslateRequest{Text: "hi", TargetLang: "fr"})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !perr.Timeout || perr.Provider != NeuralMT {
		t.Fatalf("expected timeout error for deepl, got %+v", perr)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded cause, got %v", err)
	}
}

func TestHarden_CallerDeadlineIsNotProviderTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Harden(NeuralMT, blockingProvider(), HardenOptions{Timeout: time.Minute}, zerolog.Nop())
	_, err := p.Translate(ctx, TranslateRequest{Text: "hi", TargetLang: "fr"})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Timeout {
		t.Fatalf("expected caller cancellation not to be reported as provider timeout")
	}
}

func TestHarden_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	upstream := failingProvider("deepl", errors.New("503"))
	p := Harden(NeuralMT, upstream, HardenOptions{
		Timeout: time.Second,
		Breaker: &BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute},
	}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := p.Translate(context.Background(), TranslateRequest{Text: "hi", TargetLang: "fr"}); err == nil {
			t.Fatalf("expected failure %d", i)
		}
	}

	_, err := p.Translate(context.Background(), TranslateRequest{Text: "hi", TargetLang: "fr"})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Provider != NeuralMT {
		t.Fatalf("expected open breaker to surface as ProviderError, got %v", err)
	}
	if upstream.calls.Load() != 2 {
		t.Fatalf("expected open breaker to skip upstream, got %d calls", upstream.calls.Load())
	}
}

func TestHarden_OpenBreakerTriggersFallback(t *testing.T) {
	t.Parallel()

	neural := Harden(NeuralMT, failingProvider("deepl", errors.New("503")), HardenOptions{
		Breaker: &BreakerSettings{FailureThreshold: 1, OpenTimeout: time.Minute},
	}, zerolog.Nop())
	d := NewDispatcher(NewRegistry(map[ProviderID]Provider{
		NeuralMT:  neural,
		GenericMT: fixedProvider("google", "Hallo"),
	}), zerolog.Nop())

	for i := 0; i < 3; i++ {
		got, err := d.Dispatch(context.Background(), "Hello", "de", NeuralMT)
		if err != nil || got != "Hallo" {
			t.Fatalf("call %d: expected fallback result, got %q, %v", i, got, err)
		}
	}
}
