package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrNotFound reports a missing resource, e.g. an unknown id.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthenticated reports a request without valid credentials.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// FailedValidation writes the 422 response of a failed validation.
func FailedValidation(c echo.Context, verr *ValidationError) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{
		"status":  http.StatusUnprocessableEntity,
		"message": "Validation errors",
		"errors":  verr.Errors,
	})
}

// Bind decodes the JSON body of c and validates it against rules adjusted for
// the request method. It returns the validated fields.
func (v *Validator) Bind(c echo.Context, rules map[string]string) (map[string]any, error) {
	payload := make(map[string]any)
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("failed to decode request body: %v", err))
	}
	return v.Validate(payload, AdjustRules(c.Request().Method, rules))
}

// ErrorHandler renders errors as JSON API responses and can be installed as
// echo's HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		slog.Error("unhandled request error", "error", err, "path", c.Request().URL.Path)
	}

	if err := c.JSON(status, body); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

func errorResponse(err error) (int, map[string]any) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, map[string]any{
			"error":   true,
			"message": "Validation failed",
			"errors":  verr.Errors,
		}
	}

	var he *echo.HTTPError
	isHTTP := errors.As(err, &he)

	switch {
	case errors.Is(err, ErrNotFound), isHTTP && he.Code == http.StatusNotFound:
		return http.StatusNotFound, map[string]any{
			"error":   true,
			"message": "Resource not found",
		}
	case errors.Is(err, ErrUnauthenticated), isHTTP && he.Code == http.StatusUnauthorized:
		return http.StatusUnauthorized, map[string]any{
			"error":   true,
			"message": "Unauthenticated",
		}
	}

	status := http.StatusInternalServerError
	msg := err.Error()
	if isHTTP {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		}
	}
	if msg == "" {
		msg = "Server Error"
	}

	return status, map[string]any{
		"error":   true,
		"message": msg,
		"code":    status,
	}
}
