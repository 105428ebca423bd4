// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test token and cache keys.
		for _, pattern := range []string{"refresh:*", "feed:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Tokens        *token.Service
	UserStore     *store.UserStore
	PostStore     *store.PostStore
	CategoryStore *store.CategoryStore
	TagStore      *store.TagStore
	CommentStore  *store.CommentStore
	FeedCache     *cache.FeedCache
	Auth          *Auth
	Posts         *Posts
	Comments      *Comments
	Taxonomy      *Taxonomy
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	tokens := token.NewService(vk, "handler-test-secret", 15*time.Minute, time.Hour)
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	commentStore := store.NewCommentStore(db)
	feedCache := cache.NewFeedCache(vk, time.Minute)

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Tokens:        tokens,
		UserStore:     userStore,
		PostStore:     postStore,
		CategoryStore: categoryStore,
		TagStore:      tagStore,
		CommentStore:  commentStore,
		FeedCache:     feedCache,
		Auth:          NewAuth(userStore, tokens),
		Posts:         NewPosts(postStore, categoryStore, tagStore, feedCache),
		Comments:      NewComments(postStore, commentStore),
		Taxonomy:      NewTaxonomy(categoryStore, tagStore),
	}
}

// createUser inserts a user directly through the store and registers cleanup.
func (env *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := env.UserStore.Create(email, "sup3r-secret", "Test", "Author", nil)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return u
}

// cleanPosts removes test posts by slug on cleanup.
func (env *testEnv) cleanPosts(t *testing.T, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, s := range slugs {
			env.DB.Exec("DELETE FROM posts WHERE slug = $1", s)
		}
	})
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target string, payload any) *http.Request {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	r := httptest.NewRequest(method, target, &body)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// asActor attaches an authenticated user to the request context.
func asActor(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(middleware.WithActor(r.Context(), u))
}

// withSlug adds the chi slug URL parameter to a request.
func withSlug(r *http.Request, slug string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", slug)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody parses a JSON response body into a map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}
