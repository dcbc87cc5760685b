package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// ReadThrough serves a value from the cache when the entry is fresh, and
// otherwise fetches from the authoritative source and refreshes the entry.
//
// Cache faults are deliberately non-fatal: a broken store degrades to a
// direct fetch instead of failing the read.
func ReadThrough[T any](
	ctx context.Context,
	store Store,
	scope string,
	entityID string,
	userID string,
	ttl time.Duration,
	fetch func(context.Context) (T, error),
) (T, error) {
	var zero T
	if fetch == nil {
		return zero, nil
	}
	if store == nil {
		return fetch(ctx)
	}

	cacheKey := Key(scope, entityID, userID)
	now := time.Now().UTC()

	entry, found, err := store.GetCacheEntry(ctx, cacheKey)
	if err != nil {
		log.Printf("cache read failed scope=%s key=%s: %v", scope, cacheKey, err)
	} else if found && entry.Fresh(now) {
		var cached T
		if err := json.Unmarshal(entry.PayloadBytes, &cached); err == nil {
			return cached, nil
		}
		log.Printf("cache payload decode failed scope=%s key=%s: %v", scope, cacheKey, err)
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache payload encode failed scope=%s key=%s: %v", scope, cacheKey, err)
		return value, nil
	}
	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}
	if err := store.PutCacheEntry(ctx, CacheEntry{
		CacheKey:     cacheKey,
		Scope:        scope,
		EntityID:     entityID,
		UserID:       userID,
		PayloadBytes: payload,
		CheckedAt:    now,
		RefreshedAt:  now,
		ExpiresAt:    expiresAt,
	}); err != nil {
		log.Printf("cache write failed scope=%s key=%s: %v", scope, cacheKey, err)
	}
	return value, nil
}

// Invalidate removes a scope's entries for one entity, logging rather than
// failing when the store misbehaves; the mutation itself already succeeded.
func Invalidate(ctx context.Context, store Store, scope string, entityID string) {
	if store == nil {
		return
	}
	if err := store.InvalidateScope(ctx, scope, entityID); err != nil {
		log.Printf("cache invalidation failed scope=%s entity=%s: %v", scope, entityID, err)
	}
}
