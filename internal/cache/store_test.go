// ABOUTME: Behavior shared by every Store implementation
// ABOUTME: Each backend test runs this suite against a fresh store

package cache

import (
	"context"
	"testing"
	"time"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	t.Run("miss", func(t *testing.T) {
		if _, found, err := s.Get(ctx, "missing"); err != nil || found {
			t.Errorf("expected miss, got found=%v err=%v", found, err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		e := NewEntry([]byte(`[{"spot_id":1}]`), now, time.Minute, time.Hour)
		if err := s.Set(ctx, "public/spots", e); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
		got, found, err := s.Get(ctx, "public/spots")
		if err != nil || !found {
			t.Fatalf("expected hit, got found=%v err=%v", found, err)
		}
		if string(got.Value) != `[{"spot_id":1}]` {
			t.Errorf("unexpected value %s", got.Value)
		}
		if !got.StaleAt.Equal(e.StaleAt.Truncate(time.Millisecond)) && !got.StaleAt.Equal(e.StaleAt) {
			t.Errorf("expected stale-at %v, got %v", e.StaleAt, got.StaleAt)
		}
	})

	t.Run("stale entries are still served", func(t *testing.T) {
		e := NewEntry([]byte(`{"name":"Ana"}`), now.Add(-10*time.Minute), time.Minute, time.Hour)
		s.Set(ctx, "u/1/profile", e)
		got, found, _ := s.Get(ctx, "u/1/profile")
		if !found {
			t.Fatal("expected stale entry to be returned")
		}
		if got.Fresh(now) {
			t.Error("expected entry to be stale")
		}
	})

	t.Run("expired entries are not served", func(t *testing.T) {
		e := NewEntry([]byte(`{}`), now.Add(-2*time.Hour), time.Minute, time.Hour)
		s.Set(ctx, "u/1/presets", e)
		if _, found, _ := s.Get(ctx, "u/1/presets"); found {
			t.Error("expected expired entry to be hidden")
		}
	})

	t.Run("delete", func(t *testing.T) {
		s.Set(ctx, "a", NewEntry([]byte("1"), now, time.Minute, time.Hour))
		s.Set(ctx, "b", NewEntry([]byte("2"), now, time.Minute, time.Hour))
		s.Set(ctx, "c", NewEntry([]byte("3"), now, time.Minute, time.Hour))
		if err := s.Delete(ctx, "a", "b"); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, found, _ := s.Get(ctx, "a"); found {
			t.Error("expected a deleted")
		}
		if _, found, _ := s.Get(ctx, "c"); !found {
			t.Error("expected c kept")
		}
	})

	t.Run("purge", func(t *testing.T) {
		if err := s.Purge(ctx); err != nil {
			t.Fatalf("Purge() error: %v", err)
		}
		for _, k := range []string{"public/spots", "u/1/profile", "c"} {
			if _, found, _ := s.Get(ctx, k); found {
				t.Errorf("expected %s purged", k)
			}
		}
	})
}

func TestEntryFreshness(t *testing.T) {
	now := time.Now()
	e := NewEntry(nil, now, 5*time.Minute, time.Minute)

	if !e.ExpiresAt.Equal(e.StaleAt) {
		t.Error("retention shorter than freshness should be raised to freshness")
	}
	if !e.Fresh(now.Add(4 * time.Minute)) {
		t.Error("expected fresh within window")
	}
	if e.Fresh(now.Add(5 * time.Minute)) {
		t.Error("expected stale at deadline")
	}
	if !e.Expired(now.Add(5 * time.Minute)) {
		t.Error("expected expired at retention deadline")
	}
}
