// Package storage defines the web cache persistence contract.
//
// Cache data is always derived and can be discarded and rebuilt from platform
// API reads. A successful mutation invalidates the affected scope; the next
// read through the cache is authoritative.
package storage

import (
	"context"
	"strings"
	"time"
)

// Cache scopes partition entries by the read model they mirror. Vote state,
// comment lists, and invitation/notification lists are disjoint entries, so
// no two reconciliation surfaces ever contend on the same cached payload.
const (
	ScopePostVotes     = "post.votes"
	ScopePostComments  = "post.comments"
	ScopeInvitations   = "viewer.invitations"
	ScopeNotifications = "viewer.notifications"
)

// CacheEntry stores one web cache payload and freshness metadata.
type CacheEntry struct {
	CacheKey     string
	Scope        string
	EntityID     string
	UserID       string
	PayloadBytes []byte
	Stale        bool
	CheckedAt    time.Time
	RefreshedAt  time.Time
	ExpiresAt    time.Time
}

// Fresh reports whether the entry can serve a read at the given instant.
func (e CacheEntry) Fresh(now time.Time) bool {
	if e.Stale || len(e.PayloadBytes) == 0 {
		return false
	}
	if e.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(e.ExpiresAt)
}

// Key builds the canonical cache key for a scope, entity, and viewer.
func Key(scope string, entityID string, userID string) string {
	return strings.TrimSpace(scope) + "/" + strings.TrimSpace(entityID) + "/" + strings.TrimSpace(userID)
}

// Store is the minimal contract for web cache persistence.
type Store interface {
	Close() error
	GetCacheEntry(ctx context.Context, cacheKey string) (CacheEntry, bool, error)
	PutCacheEntry(ctx context.Context, entry CacheEntry) error
	DeleteCacheEntry(ctx context.Context, cacheKey string) error
	// InvalidateScope removes every entry for a scope and entity across all
	// viewers, so a confirmed mutation is visible to everyone's next read.
	InvalidateScope(ctx context.Context, scope string, entityID string) error
}
