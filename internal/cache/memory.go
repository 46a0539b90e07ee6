// ABOUTME: In-memory cache store with TTL-based expiration
// ABOUTME: Thread-safe store using sync.Map with a stoppable cleanup loop

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Memory is a process-local Store
type Memory struct {
	store sync.Map
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory creates a memory store sweeping expired entries every interval.
// A zero interval disables the sweep; expired entries are still never returned.
func NewMemory(interval time.Duration) *Memory {
	m := &Memory{
		now:  time.Now,
		stop: make(chan struct{}),
	}
	if interval > 0 {
		go m.startCleanup(interval)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (Entry, bool, error) {
	val, ok := m.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return Entry{}, false, nil
	}

	e := val.(*Entry)
	if e.Expired(m.now()) {
		m.store.CompareAndDelete(key, val)
		slog.Debug("Cache expired", "key", key)
		return Entry{}, false, nil
	}

	slog.Debug("Cache hit", "key", key)
	return *e, true, nil
}

func (m *Memory) Set(_ context.Context, key string, e Entry) error {
	m.store.Store(key, &e)
	slog.Debug("Cache set", "key", key, "fresh_until", e.StaleAt)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.store.Delete(k)
	}
	return nil
}

func (m *Memory) Purge(_ context.Context) error {
	m.store.Clear()
	return nil
}

// Len counts stored entries, expired ones included
func (m *Memory) Len() int {
	n := 0
	m.store.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops the cleanup loop
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := m.now()
			m.store.Range(func(key, val any) bool {
				if val.(*Entry).Expired(now) {
					m.store.CompareAndDelete(key, val)
				}
				return true
			})
		}
	}
}
