package httpapi

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

type translationResponse struct {
	Translation string `json:"translation"`
}

type batchResponse struct {
	Translations []string `json:"translations"`
}

type itemResult struct {
	OK    bool   `json:"ok"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

type partialBatchResponse struct {
	Results []itemResult `json:"results"`
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, errorResponse{Error: message})
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
