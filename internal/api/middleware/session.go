package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

// Session resolves the session cookie and injects the live session into the
// request context. It distinguishes three bearer states:
//   - no cookie, or a token the store never saw: anonymous, pass through
//     (the access policy decides whether the route needs authentication)
//   - an evicted or timed-out token: the expired outcome, never treated as
//     a fresh unauthenticated request
//   - a live token: session attached under the "session" context key
//
// On /login and /logout an expired token passes through as anonymous: the
// auth endpoints must stay reachable with a dead cookie or the expired
// redirect would loop back onto itself. Everywhere else the expired redirect
// clears the cookie so the browser's next request is anonymous.
func Session(sessions ports.SessionService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			sess, err := sessions.Authenticate(c.Request().Context(), cookie.Value)
			switch {
			case err == nil:
				c.Set("session", sess)
				return next(c)
			case errors.Is(err, domain.ErrSessionExpired):
				if isAuthPath(c.Request().URL.Path) {
					return next(c)
				}
				clearCookie(c, cookieName)
				if isAPIPath(c.Request().URL.Path) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"info": "session expired"})
				}
				return c.Redirect(http.StatusSeeOther, "/login?expired=true")
			case errors.Is(err, domain.ErrSessionNotFound):
				// Stale cookie; continue anonymous.
				return next(c)
			default:
				return err
			}
		}
	}
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

func isAuthPath(path string) bool {
	return path == "/login" || path == "/logout"
}

func clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
