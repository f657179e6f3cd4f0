package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kataops/identity-api/internal/core/domain"
)

// ctxSession extracts the session injected by the session middleware. Its
// presence proves the middleware ran and the caller authenticated; the
// access policy has already gated the route by then.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get("session").(*domain.Session)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated session")
	}
	return sess, nil
}
