package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/transgate/internal/language"
	"horse.fit/transgate/internal/translation"
)

const (
	defaultRateLimitRequests = 100
	defaultRateLimitWindow   = time.Minute

	livenessMessage  = "Translation Backend is running"
	rateLimitMessage = "Too many requests, please try again later."
)

type RateLimitOptions struct {
	Requests int
	Window   time.Duration
}

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	BodyLimit      string
	AllowedOrigins []string
	TrustProxy     bool
	RateLimit      RateLimitOptions

	// UpstreamFailureStatus is the HTTP status used when every provider failed.
	UpstreamFailureStatus int
	// PartialResults switches batch responses to per-item results.
	PartialResults bool
}

// BatchTranslator runs the cache-then-dispatch pipeline for a batch.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, items []string, targetLang string, provider translation.ProviderID) []translation.ItemResult
}

// ProviderStatusSource reports provider initialization outcomes.
type ProviderStatusSource interface {
	Status() []translation.ProviderStatus
}

type Deps struct {
	Validator  *translation.Validator
	Translator BatchTranslator
	Providers  ProviderStatusSource
}

type Server struct {
	validator  *translation.Validator
	translator BatchTranslator
	providers  ProviderStatusSource
	limiter    *FixedWindowStore
	logger     zerolog.Logger
	opts       Options
}

func NewServer(deps Deps, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if strings.TrimSpace(opts.BodyLimit) == "" {
		opts.BodyLimit = "1M"
	}
	if opts.RateLimit.Requests <= 0 {
		opts.RateLimit.Requests = defaultRateLimitRequests
	}
	if opts.RateLimit.Window <= 0 {
		opts.RateLimit.Window = defaultRateLimitWindow
	}
	if http.StatusText(opts.UpstreamFailureStatus) == "" || opts.UpstreamFailureStatus < 400 {
		opts.UpstreamFailureStatus = http.StatusBadRequest
	}
	opts.Host = host

	validator := deps.Validator
	if validator == nil {
		validator = translation.NewValidator(translation.DefaultLimits())
	}

	return &Server{
		validator:  validator,
		translator: deps.Translator,
		providers:  deps.Providers,
		limiter:    NewFixedWindowStore(opts.RateLimit.Requests, opts.RateLimit.Window),
		logger:     logger,
		opts:       opts,
	}
}

// Handler builds the echo instance with middleware and routes.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler
	if s.opts.TrustProxy {
		e.IPExtractor = extractIPBehindOneProxy(echo.ExtractIPDirect())
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.allowedOrigins(),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       3600,
	}))
	e.Use(middleware.BodyLimit(s.opts.BodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))
	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: s.limiter,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return fail(c, http.StatusForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return fail(c, http.StatusTooManyRequests, rateLimitMessage)
		},
	}))

	e.GET("/", s.handleLiveness)
	e.GET("/providers", s.handleProviders)
	e.GET("/languages", s.handleLanguages)
	e.POST("/translate", s.handleTranslate)

	return e
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.translator == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.Handler()
	addr := net.JoinHostPort(s.opts.Host, fmt.Sprint(s.opts.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("transgate server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("transgate server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if text, ok := he.Message.(string); ok && strings.TrimSpace(text) != "" {
			message = text
		} else if text := http.StatusText(status); text != "" {
			message = text
		}
	}
	if status >= 500 {
		s.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("unhandled request error")
		message = "Internal server error"
	}
	_ = fail(c, status, message)
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.String(http.StatusOK, livenessMessage)
}

func (s *Server) handleProviders(c echo.Context) error {
	var rows []translation.ProviderStatus
	if s.providers != nil {
		rows = s.providers.Status()
	}
	if rows == nil {
		rows = []translation.ProviderStatus{}
	}
	aliases := make(map[string]string, len(translation.ProviderAliases))
	for alias, id := range translation.ProviderAliases {
		aliases[alias] = string(id)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"providers": rows,
		"aliases":   aliases,
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"languages": language.Options(),
	})
}

func (s *Server) allowedOrigins() []string {
	if len(s.opts.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.opts.AllowedOrigins
}

// extractIPBehindOneProxy trusts exactly one proxy hop: the client is the right-most
// X-Forwarded-For entry, which the load balancer appends. Entries to its left are
// client-supplied and ignored.
func extractIPBehindOneProxy(direct echo.IPExtractor) echo.IPExtractor {
	return func(req *http.Request) string {
		values := req.Header.Values(echo.HeaderXForwardedFor)
		if len(values) == 0 {
			return direct(req)
		}
		hops := strings.Split(values[len(values)-1], ",")
		client := strings.TrimSpace(hops[len(hops)-1])
		if net.ParseIP(client) == nil {
			return direct(req)
		}
		return client
	}
}
