package auth

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

// Middleware wires bearer-token authorization helpers for HTTP handlers.
type Middleware struct {
	Tokens *TokenIssuer
	Logger *slog.Logger
}

// RequireAuth ensures the request carries a valid bearer token.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.identify(r)
		if !ok {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
	})
}

// Identify attaches the caller's identity when a valid bearer token is
// present. Anonymous requests pass through without one.
func (m Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := m.identify(r); ok {
			r = r.WithContext(shared.ContextWithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the caller holds one of the given roles.
func (m Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := m.identify(r)
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
					return
				}
			}
			httpx.RespondError(w, httpx.ErrForbidden)
		})
	}
}

func (m Middleware) identify(r *http.Request) (shared.Identity, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return shared.Identity{}, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return shared.Identity{}, false
	}
	identity, err := m.Tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		if m.Logger != nil {
			m.Logger.Warn("token verification failed", slog.String("path", r.URL.Path))
		}
		return shared.Identity{}, false
	}
	return identity, true
}
