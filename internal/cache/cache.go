// ABOUTME: Cache entry model and the Store interface shared by all backends
// ABOUTME: Entries carry a freshness deadline and a longer retention deadline

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by stores used after Close
var ErrClosed = errors.New("cache store closed")

// Entry is one cached response body.
// Between StaleAt and ExpiresAt the entry is served but should be revalidated.
type Entry struct {
	Value     []byte    `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
	StaleAt   time.Time `json:"stale_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewEntry stamps value as fetched at now, fresh for fresh and kept for retain
func NewEntry(value []byte, now time.Time, fresh, retain time.Duration) Entry {
	if retain < fresh {
		retain = fresh
	}
	return Entry{
		Value:     value,
		FetchedAt: now,
		StaleAt:   now.Add(fresh),
		ExpiresAt: now.Add(retain),
	}
}

// Fresh reports whether the entry is still within its freshness window
func (e Entry) Fresh(now time.Time) bool {
	return now.Before(e.StaleAt)
}

// Expired reports whether the entry is past retention and must not be served
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Store persists entries by key. Implementations are safe for concurrent use
// and never return expired entries.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	Delete(ctx context.Context, keys ...string) error
	// Purge removes every entry
	Purge(ctx context.Context) error
	Close() error
}
