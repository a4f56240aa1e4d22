package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/transgate/internal/translation"
)

func (s *Server) handleTranslate(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	req, err := decodeTranslateRequest(body)
	if err != nil {
		return s.writeError(c, err)
	}

	if req.Texts != nil {
		return s.translateBatch(c, req)
	}
	return s.translateSingle(c, req)
}

func (s *Server) translateSingle(c echo.Context, req *translateRequest) error {
	text := ""
	if req.Text != nil {
		text = *req.Text
	}
	if err := s.validator.Validate(text, req.TargetLang, req.Provider); err != nil {
		return s.writeError(c, err)
	}
	provider, _ := translation.ParseProvider(req.Provider)

	results := s.translator.TranslateBatch(c.Request().Context(), []string{text}, req.TargetLang, provider)
	if err := translation.FirstError(results); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, translationResponse{Translation: results[0].Text})
}

func (s *Server) translateBatch(c echo.Context, req *translateRequest) error {
	if req.Text != nil {
		return s.writeError(c, &translation.ValidationError{
			Kind:    translation.InvalidBatch,
			Message: "Invalid request: provide either text or texts, not both",
		})
	}
	texts := *req.Texts
	if err := s.validator.ValidateBatch(texts, req.TargetLang, req.Provider); err != nil {
		return s.writeError(c, err)
	}
	provider, _ := translation.ParseProvider(req.Provider)

	results := s.translator.TranslateBatch(c.Request().Context(), texts, req.TargetLang, provider)
	if s.opts.PartialResults {
		out := make([]itemResult, len(results))
		for i, result := range results {
			if result.Err != nil {
				_, message := s.classify(result.Err)
				out[i] = itemResult{OK: false, Error: message}
				continue
			}
			out[i] = itemResult{OK: true, Value: result.Text}
		}
		return c.JSON(http.StatusOK, partialBatchResponse{Results: out})
	}

	if err := translation.FirstError(results); err != nil {
		return s.writeError(c, err)
	}
	translations := make([]string, len(results))
	for i, result := range results {
		translations[i] = result.Text
	}
	return c.JSON(http.StatusOK, batchResponse{Translations: translations})
}

func (s *Server) writeError(c echo.Context, err error) error {
	status, message := s.classify(err)
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	switch {
	case status >= http.StatusInternalServerError && !isUpstreamFailure(err):
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("translate request failed")
	case isUpstreamFailure(err):
		s.logger.Warn().Err(err).Str("request_id", requestID).Int("status", status).Msg("all providers failed")
	}
	return fail(c, status, message)
}

// classify maps an error onto an HTTP status and a client-safe message.
func (s *Server) classify(err error) (int, string) {
	var verr *translation.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Message
	}
	if errors.Is(err, translation.ErrUnsupportedProvider) {
		return http.StatusBadRequest, "Unsupported provider"
	}
	var allErr *translation.AllProvidersFailedError
	if errors.As(err, &allErr) {
		names := make([]string, 0, len(allErr.Attempts))
		for _, id := range allErr.Providers() {
			names = append(names, string(id))
		}
		return s.opts.UpstreamFailureStatus, "Translation failed: all providers failed (" + strings.Join(names, ", ") + ")"
	}
	if isCancelled(err) {
		return http.StatusServiceUnavailable, "Request cancelled"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func isUpstreamFailure(err error) bool {
	var allErr *translation.AllProvidersFailedError
	return errors.As(err, &allErr)
}
