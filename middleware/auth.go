package middleware

import (
	"context"
	"net/http"
	"strings"

	"tasktrack/db"
	"tasktrack/internal/auth"
	"tasktrack/models"
	"tasktrack/pkg/res"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// Middleware resolves bearer tokens into persisted users for protected routes
type Middleware struct {
	tokens *auth.TokenService
	users  db.UserRepository
}

// NewMiddleware creates a new Middleware
func NewMiddleware(tokens *auth.TokenService, users db.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Authenticate validates the Authorization header, resolves the token's
// subject to a stored user and injects it into the request context. Every
// failure mode yields the same 401 response so callers cannot tell a
// malformed token from an expired one or a deleted account.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w)
			return
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			unauthorized(w)
			return
		}

		user, err := m.users.FindByEmail(r.Context(), claims.Subject)
		if err != nil {
			// Covers users deleted after token issuance as well as
			// store failures; none of them may reach task data.
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// UserFromContext returns the authenticated user placed by Authenticate
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	res.Error(w, "could not validate credentials", http.StatusUnauthorized)
}
