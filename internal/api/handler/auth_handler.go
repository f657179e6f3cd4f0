package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

// CookieConfig carries the session cookie contract: HttpOnly is always set
// so the token stays out of reach of scripts, and MaxAge bounds the cookie
// to the session lifetime.
type CookieConfig struct {
	Name   string
	MaxAge int
}

type AuthHandler struct {
	sessions ports.SessionService
	cookie   CookieConfig
}

func NewAuthHandler(sessions ports.SessionService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie}
}

type loginRequest struct {
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

// Login authenticates credentials and issues the session cookie. Success
// redirects by role; failure redirects back to the login form with an error
// indicator.
//
// POST /login (public)
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/login?error=true")
	}

	sess, err := h.sessions.Login(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Redirect(http.StatusSeeOther, "/login?error=true")
		}
		return err
	}

	c.SetCookie(h.sessionCookie(sess.Token, h.cookie.MaxAge))

	target := "/user"
	if sess.HasAuthority(domain.RoleAdmin) {
		target = "/admin"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// Logout invalidates the caller's session and clears the cookie.
//
// POST /logout (public)
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if err := h.sessions.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.Redirect(http.StatusSeeOther, "/login?logout")
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
