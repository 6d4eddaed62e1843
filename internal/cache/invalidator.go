// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"procomm/internal/store"
)

// Invalidator clears cached responses after content mutations commit.
// Handlers call it once per successful write; the actual cache work runs
// in the background so a slow or unreachable Valkey never delays the
// admin response. Each invalidation is also recorded in the database
// audit log.
type Invalidator struct {
	cache *ContentCache
	log   *store.CacheLogStore
}

// NewInvalidator wires a content cache to the invalidation audit log.
func NewInvalidator(cache *ContentCache, log *store.CacheLogStore) *Invalidator {
	return &Invalidator{cache: cache, log: log}
}

// ContentChanged invalidates all cached responses for the given kind
// ("blog" or "gallery") and records the event. action is one of
// "create", "update", "delete".
func (inv *Invalidator) ContentChanged(kind string, id uuid.UUID, action string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		inv.cache.InvalidateKind(ctx, kind)
		inv.log.Log(kind, id, action)
	}()
}

// PurgeAll clears every cached response. Used by the admin cache
// endpoint; runs synchronously so the caller can report completion.
func (inv *Invalidator) PurgeAll(ctx context.Context) {
	inv.cache.InvalidateAll(ctx)
	inv.log.Log("all", uuid.Nil, "purge")
}
