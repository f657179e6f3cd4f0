package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kataops/identity-api/internal/api/metrics"
	"github.com/kataops/identity-api/internal/core/domain"
)

// Rule maps a path pattern (exact, or a prefix ending in "/**") and an
// optional method set to a required authority set. An empty Authorities
// with Public false admits any authenticated principal.
type Rule struct {
	Pattern     string
	Methods     []string
	Authorities []string
	Public      bool
}

// DefaultRules is the access policy table. Evaluation is first match wins,
// so declaration order is a correctness contract: moving the "/admin/**"
// rule below the catch-all would open it to every authenticated principal.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/login", Public: true},
		{Pattern: "/logout", Public: true},
		{Pattern: "/health", Public: true},
		{Pattern: "/health/ready", Public: true},
		{Pattern: "/metrics", Public: true},
		{Pattern: "/admin/**", Authorities: []string{domain.RoleAdmin}},
		{Pattern: "/api/v1/users/user", Methods: []string{http.MethodGet}, Authorities: []string{domain.RoleUser, domain.RoleAdmin}},
		{Pattern: "/api/v1/users/**", Authorities: []string{domain.RoleAdmin}},
		{Pattern: "/user/**", Authorities: []string{domain.RoleUser, domain.RoleAdmin}},
		{Pattern: "/**"},
	}
}

// AccessPolicy enforces the ordered rule table. The final catch-all makes a
// no-match outcome impossible; a request that satisfies no authority is
// denied, never silently allowed.
func AccessPolicy(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rule, ok := match(rules, req.Method, req.URL.Path)
			if !ok {
				metrics.AuthorizationDeniedTotal.WithLabelValues("forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"info": "access denied"})
			}
			if rule.Public {
				return next(c)
			}

			sess, _ := c.Get("session").(*domain.Session)
			if sess == nil {
				metrics.AuthorizationDeniedTotal.WithLabelValues("unauthenticated").Inc()
				if isAPIPath(req.URL.Path) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"info": "authentication required"})
				}
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			if len(rule.Authorities) == 0 {
				return next(c)
			}
			for _, authority := range rule.Authorities {
				if sess.HasAuthority(authority) {
					return next(c)
				}
			}

			metrics.AuthorizationDeniedTotal.WithLabelValues("forbidden").Inc()
			return c.JSON(http.StatusForbidden, map[string]string{"info": "access denied"})
		}
	}
}

// match returns the first rule matching method and path. The catch-all in
// DefaultRules guarantees a hit for that table; ok is false only for
// custom tables without one.
func match(rules []Rule, method, path string) (Rule, bool) {
	for _, r := range rules {
		if r.matches(method, path) {
			return r, true
		}
	}
	return Rule{}, false
}

func (r Rule) matches(method, path string) bool {
	if len(r.Methods) > 0 {
		found := false
		for _, m := range r.Methods {
			if m == method {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if base, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		if base == "" {
			return true
		}
		return path == base || strings.HasPrefix(path, base+"/")
	}
	return path == r.Pattern
}
