package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kataops/identity-api/internal/core/domain"
)

// infoResponse is the canonical error envelope for all API errors.
type infoResponse struct {
	Info string `json:"info"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"info": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, infoResponse{Info: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. The not-found message
	// names the offending id, so it is surfaced verbatim.
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrRoleIntegrity):
		// A defect signal, not a caller error: log loudly, answer 500.
		log.Error().Err(err).Msg("role registry integrity violation")
		return http.StatusInternalServerError, "internal server error"
	case errors.Is(err, domain.ErrUserSave):
		log.Error().Err(err).Msg("user save failed")
		return http.StatusInternalServerError, domain.ErrUserSave.Error()
	case errors.Is(err, domain.ErrUserUpdate):
		log.Error().Err(err).Msg("user update failed")
		return http.StatusInternalServerError, domain.ErrUserUpdate.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
