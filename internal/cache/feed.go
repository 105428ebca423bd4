// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go provides a Valkey-backed cache for the public published-post
// feed. The serialized JSON response is stored so repeat requests skip the
// feed query entirely; any post write invalidates it.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKey is the Valkey key holding the cached feed payload.
	feedKey = "feed:posts"

	// DefaultFeedTTL is how long the cached feed stays valid without
	// explicit invalidation.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache manages the cached public feed in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves the cached feed payload. Returns false on miss.
func (fc *FeedCache) Get(ctx context.Context) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit")
	return val, true
}

// Set stores the serialized feed with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, payload []byte) {
	if err := fc.client.Set(ctx, feedKey, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "error", err)
	}
}

// Invalidate drops the cached feed. Called on every post create, update,
// and soft delete, since any of them can change what the feed shows.
func (fc *FeedCache) Invalidate(ctx context.Context) {
	if err := fc.client.Del(ctx, feedKey).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "error", err)
	}
	slog.Debug("feed cache invalidated")
}
