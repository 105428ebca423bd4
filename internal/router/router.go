// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Authentication is token-based: every request passes through
// the authenticator, and write endpoints additionally require a valid
// actor.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(tokens *token.Service, users *store.UserStore, authRateLimit int,
	auth *handlers.Auth, posts *handlers.Posts, comments *handlers.Comments, taxonomy *handlers.Taxonomy) chi.Router {

	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Authenticate(tokens, users))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Auth routes — rate limited to slow down credential stuffing.
	authLimiter := middleware.NewRateLimiter(authRateLimit, time.Minute)
	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)

		r.Post("/register", auth.Register)
		r.Post("/token", auth.Token)
		r.Post("/token/refresh", auth.TokenRefresh)

		// 2FA enrollment requires an authenticated actor.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})
	})

	// Post routes. Reads are public; writes need an actor.
	r.Route("/post", func(r chi.Router) {
		r.Get("/", posts.List)
		r.Get("/{slug}", posts.Get)
		r.Get("/{slug}/comments", comments.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", posts.Create)
			r.Patch("/{slug}", posts.Update)
			r.Delete("/{slug}", posts.Delete)
			r.Post("/{slug}/comments", comments.Create)
		})
	})

	// Taxonomy listings.
	r.Get("/category", taxonomy.ListCategories)
	r.Get("/tag", taxonomy.ListTags)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
