package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:                    8080,
		MaxTextLength:           10000,
		MaxBatchSize:            100,
		BatchConcurrency:        16,
		RateLimitRequests:       100,
		RateLimitWindow:         time.Minute,
		UpstreamFailureStatus:   400,
		CacheTTL:                time.Hour,
		SecretsBackend:          "env",
		GenerativeEngine:        "gemini",
		GenericTimeout:          10 * time.Second,
		NeuralTimeout:           5 * time.Second,
		GenerativeTimeout:       20 * time.Second,
		BreakerFailureThreshold: 5,
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_RejectsGCPWithoutProject(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SecretsBackend = "gcp"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing GCP_PROJECT_ID to fail validation")
	}
	cfg.GCPProjectID = "chrome-translator-dev"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected gcp config to validate, got %v", err)
	}
}

func TestValidate_RejectsBadUpstreamStatus(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.UpstreamFailureStatus = 200
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected 200 upstream failure status to be rejected")
	}
	cfg.UpstreamFailureStatus = 502
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected 502 to be accepted, got %v", err)
	}
}

func TestCacheConnectionURL_PrefersCacheURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.RedisURL = "redis://localhost:6379"
	if got := cfg.CacheConnectionURL(); got != "redis://localhost:6379" {
		t.Fatalf("unexpected fallback url: %q", got)
	}
	cfg.CacheURL = " memory:// "
	if got := cfg.CacheConnectionURL(); got != "memory://" {
		t.Fatalf("unexpected cache url: %q", got)
	}
}

func TestCORSAllowedOriginsList_Dedupes(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.CORSAllowedOrigins = "chrome-extension://abc, ,chrome-extension://abc,https://example.com"
	got := cfg.CORSAllowedOriginsList()
	if len(got) != 2 || got[0] != "chrome-extension://abc" || got[1] != "https://example.com" {
		t.Fatalf("unexpected origins: %#v", got)
	}
}
