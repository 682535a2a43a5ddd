package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/tourney/internal/api/apierr"
	"github.com/mcoot/tourney/internal/services/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Auth creates authentication middleware. When no operator key is configured
// every request passes through unauthenticated.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService == nil || !authService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// ExtractToken returns the bearer or cookie token of a request
func ExtractToken(r *http.Request) string {
	return extractToken(r)
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// Operator returns the operator name for audit logs
func Operator(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.Operator
	}
	return "anonymous"
}
