package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

// stubSessionService accepts one fixed credential pair and records issued
// and released tokens.
type stubSessionService struct {
	name     string
	password string
	roles    []string
	issued   int
	released []string
}

func (s *stubSessionService) Login(_ context.Context, name, password string) (*domain.Session, error) {
	if name != s.name || password != s.password {
		return nil, domain.ErrInvalidCredentials
	}
	s.issued++
	return &domain.Session{Token: "tok-1", PrincipalID: "1", PrincipalName: name, Roles: s.roles}, nil
}

func (s *stubSessionService) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}

func (s *stubSessionService) Logout(_ context.Context, token string) error {
	s.released = append(s.released, token)
	return nil
}

func (s *stubSessionService) Timeout() time.Duration { return 30 * time.Minute }

var _ ports.SessionService = (*stubSessionService)(nil)

func testCookieConfig() CookieConfig {
	return CookieConfig{Name: "SESSION", MaxAge: 1800}
}

func TestAuthHandler_Login_AdminRedirect(t *testing.T) {
	svc := &stubSessionService{name: "alice", password: "s3cret", roles: []string{domain.RoleAdmin}}
	h := NewAuthHandler(svc, testCookieConfig())

	c, rec := newTestContext(t, http.MethodPost, "/login", `{"name":"alice","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("expected redirect to /admin, got %q", loc)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "SESSION" || cookie.Value != "tok-1" {
		t.Fatalf("unexpected cookie: %v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if cookie.MaxAge != 1800 {
		t.Fatalf("expected MaxAge 1800, got %d", cookie.MaxAge)
	}
}

func TestAuthHandler_Login_UserRedirect(t *testing.T) {
	svc := &stubSessionService{name: "bob", password: "pw", roles: []string{domain.RoleUser}}
	h := NewAuthHandler(svc, testCookieConfig())

	c, rec := newTestContext(t, http.MethodPost, "/login", `{"name":"bob","password":"pw"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/user" {
		t.Fatalf("expected redirect to /user, got %q", loc)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := &stubSessionService{name: "alice", password: "s3cret"}
	h := NewAuthHandler(svc, testCookieConfig())

	c, rec := newTestContext(t, http.MethodPost, "/login", `{"name":"alice","password":"wrong"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=true" {
		t.Fatalf("expected redirect back to the form, got %q", loc)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie may be issued on failure")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	svc := &stubSessionService{}
	h := NewAuthHandler(svc, testCookieConfig())

	c, rec := newTestContext(t, http.MethodPost, "/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "SESSION", Value: "tok-9"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?logout" {
		t.Fatalf("expected redirect to the login form, got %q", loc)
	}
	if len(svc.released) != 1 || svc.released[0] != "tok-9" {
		t.Fatalf("expected the presented token to be released, got %v", svc.released)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 || cookies[0].Value != "" {
		t.Fatalf("expected the cookie to be cleared, got %v", cookies)
	}
}

func TestAuthHandler_Logout_WithoutCookie(t *testing.T) {
	svc := &stubSessionService{}
	h := NewAuthHandler(svc, testCookieConfig())

	c, rec := newTestContext(t, http.MethodPost, "/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(svc.released) != 0 {
		t.Fatalf("nothing to release without a cookie, got %v", svc.released)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?logout" {
		t.Fatalf("expected redirect to the login form, got %q", loc)
	}
}
