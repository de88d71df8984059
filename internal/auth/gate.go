package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/shyamxrana/Attendance-System-College/internal/metrics"
	"github.com/shyamxrana/Attendance-System-College/internal/model"
)

// LoginPath is where unauthenticated requests to protected routes land.
const LoginPath = "/login"

// RoutePolicy protects one path prefix. A nil MinRole means any
// authenticated user may pass; otherwise the claims' role must match.
// Classification is prefix-based so nested routes inherit protection.
type RoutePolicy struct {
	Prefix  string
	MinRole *model.Role
}

// DefaultPolicies is the single source of truth for route protection:
// every protected prefix and its role requirement in one table.
func DefaultPolicies() []RoutePolicy {
	teacher := model.RoleTeacher
	return []RoutePolicy{
		{Prefix: "/students", MinRole: &teacher},
		{Prefix: "/attendance", MinRole: &teacher},
		{Prefix: "/reports", MinRole: &teacher},
	}
}

// Gate is the middleware that classifies requests, validates session
// cookies and enforces role policy. Verification is a pure function of
// token, secret and clock, so concurrent requests need no coordination.
type Gate struct {
	secret   string
	policies []RoutePolicy
}

func NewGate(secret string, policies []RoutePolicy) *Gate {
	return &Gate{secret: secret, policies: policies}
}

// Classify reports the matching policy and whether the path is protected.
func (g *Gate) Classify(path string) (RoutePolicy, bool) {
	for _, policy := range g.policies {
		if strings.HasPrefix(path, policy.Prefix) {
			return policy, true
		}
	}
	return RoutePolicy{}, false
}

func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		policy, protected := g.Classify(r.URL.Path)
		if !protected {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			// Keep the original path so login can navigate back.
			metrics.GateDecisions.WithLabelValues("no_token").Inc()
			http.Redirect(w, r, LoginPath+"?from="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}

		claims, err := ParseSessionToken(g.secret, cookie.Value)
		if err != nil {
			// The token is untrustworthy rather than absent, so no
			// return-navigation hint.
			metrics.GateDecisions.WithLabelValues("invalid_token").Inc()
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		if policy.MinRole != nil && claims.Role != *policy.MinRole {
			// Authenticated but under-privileged: back to the root.
			metrics.GateDecisions.WithLabelValues("role_denied").Inc()
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		metrics.GateDecisions.WithLabelValues("forwarded").Inc()
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims)))
	})
}
