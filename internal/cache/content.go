// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

// content.go provides a Valkey-backed cache for public JSON responses.
// Serialized list and detail payloads are stored per content kind
// ("blog", "gallery") so the public endpoints skip the database on
// repeat requests. Keys carry the kind as a segment, which lets a
// mutation invalidate everything for that kind in one pass.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// contentKeyPrefix is the Valkey key prefix for cached responses.
	contentKeyPrefix = "content:"

	// DefaultContentTTL is how long a cached response stays valid.
	// Invalidation on writes usually clears entries much sooner.
	DefaultContentTTL = 5 * time.Minute

	// KindBlog and KindGallery name the cacheable content kinds.
	KindBlog    = "blog"
	KindGallery = "gallery"
)

// ContentCache manages cached public API responses in Valkey.
type ContentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContentCache creates a response cache backed by the given Valkey client.
func NewContentCache(client *redis.Client, ttl time.Duration) *ContentCache {
	if ttl == 0 {
		ttl = DefaultContentTTL
	}
	return &ContentCache{client: client, ttl: ttl}
}

// Key builds the cache key for a kind and request-specific suffix,
// e.g. Key("blog", "list:p1:l10:") or Key("blog", "slug:how-we-work").
func Key(kind, suffix string) string {
	return fmt.Sprintf("%s:%s", kind, suffix)
}

// Get retrieves a cached response body. Returns false on miss.
func (cc *ContentCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := cc.client.Get(ctx, contentKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("content cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("content cache hit", "key", key)
	return val, true
}

// Set stores a response body under the given key with the configured TTL.
func (cc *ContentCache) Set(ctx context.Context, key string, body []byte) {
	if err := cc.client.Set(ctx, contentKeyPrefix+key, body, cc.ttl).Err(); err != nil {
		slog.Warn("content cache set error", "key", key, "error", err)
	}
}

// InvalidateKind removes every cached response for one content kind.
// Called after any write to that kind, since list pagination makes it
// impractical to target individual entries.
func (cc *ContentCache) InvalidateKind(ctx context.Context, kind string) {
	cc.deleteByPattern(ctx, contentKeyPrefix+kind+":*")
}

// InvalidateAll removes every cached response. Exposed through the
// admin cache-purge endpoint.
func (cc *ContentCache) InvalidateAll(ctx context.Context) {
	cc.deleteByPattern(ctx, contentKeyPrefix+"*")
}

// deleteByPattern scans for matching keys and deletes them in batches.
func (cc *ContentCache) deleteByPattern(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("content cache scan error", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("content cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("content cache cleared", "pattern", pattern, "deleted", deleted)
	}
}
