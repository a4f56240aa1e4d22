package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Port        int    `envconfig:"PORT" default:"8080"`

	MaxTextLength       int  `envconfig:"MAX_TEXT_LENGTH" default:"10000"`
	MaxBatchSize        int  `envconfig:"MAX_BATCH_SIZE" default:"100"`
	BatchConcurrency    int  `envconfig:"BATCH_CONCURRENCY" default:"16"`
	BatchPartialResults bool `envconfig:"BATCH_PARTIAL_RESULTS" default:"false"`

	RateLimitRequests     int           `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindow       time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`
	BodyLimit             string        `envconfig:"BODY_LIMIT" default:"1M"`
	CORSAllowedOrigins    string        `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
	TrustProxy            bool          `envconfig:"TRUST_PROXY" default:"true"`
	UpstreamFailureStatus int           `envconfig:"UPSTREAM_FAILURE_STATUS" default:"400"`

	CacheURL           string        `envconfig:"CACHE_URL" default:""`
	RedisURL           string        `envconfig:"REDIS_URL" default:""`
	CacheTTL           time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	CacheTimeout       time.Duration `envconfig:"CACHE_TIMEOUT" default:"500ms"`
	CachePurgeSchedule string        `envconfig:"CACHE_PURGE_SCHEDULE" default:"@every 10m"`
	CacheDBMaxConns    int32         `envconfig:"CACHE_DB_MAX_CONNS" default:"8"`

	SecretsBackend   string `envconfig:"SECRETS_BACKEND" default:"env"`
	GCPProjectID     string `envconfig:"GCP_PROJECT_ID" default:""`
	GoogleSecretName string `envconfig:"GOOGLE_TRANSLATE_SECRET" default:"GOOGLE_TRANSLATE_API_KEY"`
	DeepLSecretName  string `envconfig:"DEEPL_SECRET" default:"DEEPL_API_KEY"`
	GeminiSecretName string `envconfig:"GEMINI_SECRET" default:"GEMINI_API_KEY"`
	OpenAISecretName string `envconfig:"OPENAI_SECRET" default:"OPENAI_API_KEY"`

	ProviderInitTimeout time.Duration `envconfig:"PROVIDER_INIT_TIMEOUT" default:"15s"`
	GenericTimeout      time.Duration `envconfig:"GENERIC_TIMEOUT" default:"10s"`
	NeuralTimeout       time.Duration `envconfig:"NEURAL_TIMEOUT" default:"5s"`
	GenerativeTimeout   time.Duration `envconfig:"GENERATIVE_TIMEOUT" default:"20s"`

	DeepLAPIURL      string `envconfig:"DEEPL_API_URL" default:""`
	GenerativeEngine string `envconfig:"GENERATIVE_ENGINE" default:"gemini"`
	GeminiModel      string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	OpenAIModel      string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL    string `envconfig:"OPENAI_BASE_URL" default:""`

	BreakerFailureThreshold uint32        `envconfig:"BREAKER_FAILURE_THRESHOLD" default:"5"`
	BreakerOpenTimeout      time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.MaxTextLength < 1 {
		return fmt.Errorf("MAX_TEXT_LENGTH must be >= 1")
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("MAX_BATCH_SIZE must be >= 1")
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be >= 1")
	}
	if c.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be >= 1")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if http.StatusText(c.UpstreamFailureStatus) == "" || c.UpstreamFailureStatus < 400 {
		return fmt.Errorf("UPSTREAM_FAILURE_STATUS must be a 4xx or 5xx status code")
	}
	if c.CacheTTL < time.Second {
		return fmt.Errorf("CACHE_TTL must be >= 1s")
	}
	switch strings.ToLower(strings.TrimSpace(c.SecretsBackend)) {
	case "env":
	case "gcp":
		if strings.TrimSpace(c.GCPProjectID) == "" {
			return fmt.Errorf("GCP_PROJECT_ID is required when SECRETS_BACKEND=gcp")
		}
	default:
		return fmt.Errorf("SECRETS_BACKEND must be one of: env, gcp")
	}
	switch strings.ToLower(strings.TrimSpace(c.GenerativeEngine)) {
	case "gemini", "openai":
	default:
		return fmt.Errorf("GENERATIVE_ENGINE must be one of: gemini, openai")
	}
	if c.GenericTimeout <= 0 || c.NeuralTimeout <= 0 || c.GenerativeTimeout <= 0 {
		return fmt.Errorf("provider timeouts must be > 0")
	}
	if c.BreakerFailureThreshold < 1 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be >= 1")
	}
	return nil
}

// CacheConnectionURL prefers CACHE_URL and falls back to REDIS_URL.
func (c *Config) CacheConnectionURL() string {
	if c == nil {
		return ""
	}
	if url := strings.TrimSpace(c.CacheURL); url != "" {
		return url
	}
	return strings.TrimSpace(c.RedisURL)
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
