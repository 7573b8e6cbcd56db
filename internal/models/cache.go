package models

import (
	"encoding/json"
	"time"
)

// CacheEntryVersion is bumped whenever the cached payload shape changes.
// Entries carrying an older version are treated as a miss and purged, so
// stale shapes never reach consumers.
const CacheEntryVersion = 1

// CacheEntry is the versioned envelope stored in the durable cache.
type CacheEntry struct {
	Version   int             `json:"version"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry is stale at the given instant.
// An entry expires at exactly ExpiresAt.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// NewCacheEntry wraps data in a current-version envelope with a TTL.
// The payload must already be JSON-encoded.
func NewCacheEntry(data json.RawMessage, now time.Time, ttl time.Duration) *CacheEntry {
	return &CacheEntry{
		Version:   CacheEntryVersion,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
