package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "details": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

// statusFor lists the domain sentinels with a fixed status. Messages come from
// the sentinel itself.
var statusFor = []struct {
	err  error
	code int
}{
	{domain.ErrDuplicateEmail, http.StatusConflict},
	{domain.ErrEmailTaken, http.StatusConflict},
	{domain.ErrUsernameTaken, http.StatusConflict},
	{domain.ErrAlreadyEnrolled, http.StatusConflict},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrInvalidOrExpiredToken, http.StatusBadRequest},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrAdminNotFound, http.StatusNotFound},
	{domain.ErrCourseNotFound, http.StatusNotFound},
	{domain.ErrMeetingNotFound, http.StatusNotFound},
	{domain.ErrUnsupportedImage, http.StatusUnsupportedMediaType},
	{domain.ErrMailNotConfigured, http.StatusServiceUnavailable},
	{domain.ErrMailDelivery, http.StatusBadGateway},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Details: ve.Problems}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			return m.code, errorResponse{Error: m.err.Error()}
		}
	}

	msg := "internal server error"
	if errors.Is(err, domain.ErrDeletionFailed) {
		msg = domain.ErrDeletionFailed.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: msg}
}
