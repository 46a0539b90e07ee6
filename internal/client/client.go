// ABOUTME: Remote data access layer for the TheCheck API
// ABOUTME: Attaches credentials, caches reads per key and invalidates on mutation

package client

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/cache"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/session"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by calls made after Close
var ErrClosed = errors.New("client closed")

// Sessions is what the client needs from the session manager
type Sessions interface {
	Credential(ctx context.Context) (string, error)
	Expire(token string) bool
	Subscribe(fn session.Listener) func()
	Generation() uint64
	User() (identity.User, bool)
	SetProfile(p *models.Profile)
}

// Options configures a Client
type Options struct {
	BaseURL string
	// HTTPClient defaults to one with Timeout
	HTTPClient *http.Client
	Timeout    time.Duration
	// Store defaults to an in-memory store
	Store cache.Store
	// Freshness per resource family, see config.DefaultFreshness
	Freshness map[string]time.Duration
	// Retention is how long stale entries are kept and served
	Retention time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Client is the API client for the TheCheck backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   Sessions
	store      cache.Store
	freshness  map[string]time.Duration
	retention  time.Duration
	log        *slog.Logger
	now        func() time.Time

	// base bounds every network call; Close cancels it
	base   context.Context
	cancel context.CancelFunc

	flights singleflight.Group
	bg      sync.WaitGroup

	// commitMu orders cache writes against invalidation and purge
	commitMu sync.Mutex

	mu     sync.Mutex
	keys   map[Key]*keyState
	epochs uint64
	closed bool

	unsubscribe func()
}

// keyState tracks requests for one key. Epochs come from a client-wide
// counter so a state recreated after pruning never reuses one.
type keyState struct {
	epoch    uint64
	interest int
	fetching int
	lastErr  error
}

// New creates a client and subscribes it to session transitions
func New(sessions Sessions, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	store := opts.Store
	if store == nil {
		store = cache.NewMemory(time.Minute)
	}
	freshness := make(map[string]time.Duration, len(config.DefaultFreshness))
	for k, v := range config.DefaultFreshness {
		freshness[k] = v
	}
	for k, v := range opts.Freshness {
		freshness[k] = v
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	base, cancel := context.WithCancel(context.Background())
	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		sessions:   sessions,
		store:      store,
		freshness:  freshness,
		retention:  retention,
		log:        log,
		now:        now,
		base:       base,
		cancel:     cancel,
		keys:       make(map[Key]*keyState),
	}
	c.unsubscribe = sessions.Subscribe(c.onSession)
	return c
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string { return c.baseURL }

// Close stops background work and closes the store. In-flight fetches
// complete without writing to the cache.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.unsubscribe()
	c.cancel()
	c.bg.Wait()

	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	return c.store.Close()
}

// Shutdown lets background revalidations finish until ctx is done, then
// closes the client. Refreshes started by a short-lived process still
// reach a persistent store this way.
func (c *Client) Shutdown(ctx context.Context) error {
	if err := c.Settle(ctx); err != nil {
		c.log.Debug("Abandoning background revalidations", "error", err)
	}
	return c.Close()
}

// Settle waits until background revalidations started so far have finished
func (c *Client) Settle(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status describes what the client knows about a key
type Status struct {
	Cached    bool
	Stale     bool
	Fetching  bool
	FetchedAt time.Time
	Err       error
}

// Status reports cache and request state for key under the current session
func (c *Client) Status(ctx context.Context, key Key) Status {
	var st Status

	c.mu.Lock()
	if ks, ok := c.keys[key]; ok {
		st.Fetching = ks.fetching > 0
		st.Err = ks.lastErr
	}
	c.mu.Unlock()

	skey, err := c.storeKey(key)
	if err != nil {
		return st
	}
	if e, found := c.lookup(ctx, skey); found {
		st.Cached = true
		st.Stale = !e.Fresh(c.now())
		st.FetchedAt = e.FetchedAt
	}
	return st
}

// onSession drops everything cached when the session ends
func (c *Client) onSession(t session.Transition) {
	if t.Event != session.EventSignedOut {
		return
	}

	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	for _, ks := range c.keys {
		c.bumpLocked(ks)
		ks.lastErr = nil
	}
	c.pruneLocked(nil)
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	if err := c.store.Purge(context.Background()); err != nil {
		c.log.Warn("Could not purge cache after sign-out", "error", err)
		return
	}
	c.log.Debug("Cache purged", "reason", t.Reason)
}

func (c *Client) stateLocked(key Key) *keyState {
	ks, ok := c.keys[key]
	if !ok {
		ks = &keyState{}
		c.bumpLocked(ks)
		c.keys[key] = ks
	}
	return ks
}

// bumpLocked moves ks to a new epoch so pending commits for it are dropped
func (c *Client) bumpLocked(ks *keyState) {
	c.epochs++
	ks.epoch = c.epochs
}

// pruneLocked forgets idle states among keys, or among all keys when keys
// is nil. A state with callers waiting or a request running is kept.
func (c *Client) pruneLocked(keys []Key) {
	idle := func(ks *keyState) bool { return ks.interest == 0 && ks.fetching == 0 }
	if keys == nil {
		maps.DeleteFunc(c.keys, func(_ Key, ks *keyState) bool { return idle(ks) })
		return
	}
	for _, k := range keys {
		if ks, ok := c.keys[k]; ok && idle(ks) {
			delete(c.keys, k)
		}
	}
}
