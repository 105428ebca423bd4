// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// actorKey is the context key for the authenticated user.
const actorKey contextKey = "actor"

// UserLoader resolves an authenticated user ID to a live account.
// Soft-deleted accounts resolve to nil.
type UserLoader interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Authenticate resolves the Bearer access token to a user and stores it in
// the request context. Requests without an Authorization header pass
// through as anonymous; a header that is present but invalid is rejected
// outright with 401 rather than silently downgraded.
func Authenticate(tokens *token.Service, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				unauthorized(w, "Authorization header must use the Bearer scheme.")
				return
			}

			claims, err := tokens.ParseAccess(strings.TrimSpace(raw))
			if err != nil {
				unauthorized(w, "Token is invalid or expired.")
				return
			}

			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				unauthorized(w, "Token is invalid or expired.")
				return
			}

			user, err := users.FindByID(id)
			if err != nil {
				slog.Error("actor lookup failed", "error", err, "user_id", id)
				writeJSONError(w, http.StatusInternalServerError, "An unexpected error occurred.")
				return
			}
			if user == nil || !user.IsActive {
				unauthorized(w, "Account is disabled or no longer exists.")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Must be applied after
// Authenticate in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActorFromCtx(r.Context()) == nil {
			unauthorized(w, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ActorFromCtx extracts the authenticated user from the request context.
// Returns nil for anonymous requests.
func ActorFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(actorKey).(*models.User)
	return user
}

// WithActor returns a context carrying the given user as the request
// actor. Exposed for handler tests.
func WithActor(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, actorKey, user)
}

func unauthorized(w http.ResponseWriter, detail string) {
	writeJSONError(w, http.StatusUnauthorized, detail)
}

// writeJSONError emits the API's generic error shape from middleware,
// where the handlers' response helpers aren't available.
func writeJSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
