// Package auth gates the MCP endpoint behind a bearer credential. Two
// verifier modes are supported: a static shared token (constant-time compare)
// and HS256-signed JWTs.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Principal identifies an authenticated caller.
type Principal struct {
	Subject string
}

// Verifier checks a bearer token and returns the principal it belongs to.
type Verifier interface {
	Verify(token string) (*Principal, error)
}

// contextKey is used for storing the principal in the request context.
type contextKey string

const principalKey contextKey = "principal"

// Middleware wraps handlers that require an authenticated caller.
type Middleware struct {
	verifier Verifier
}

// NewMiddleware creates an auth middleware using the given verifier.
func NewMiddleware(verifier Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token with HTTP 401
// before the wrapped handler runs. The authenticated principal is stored in
// the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, "Authentication required")
			return
		}

		principal, err := m.verifier.Verify(token)
		if err != nil {
			writeUnauthorized(w, "Invalid authentication token")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request did not pass through RequireAuth.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, ok := ctx.Value(principalKey).(*Principal)
	if !ok {
		return nil
	}
	return principal
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// writeUnauthorized writes a 401 without producing a JSON-RPC envelope; an
// unauthenticated request never reaches the dispatcher.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
