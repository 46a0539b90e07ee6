// ABOUTME: Cached read path with stale-while-revalidate and request deduplication
// ABOUTME: Fetches only commit while their key, session and client are unchanged

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/cache"
)

// ReadOption adjusts a single read
type ReadOption func(*readOptions)

type readOptions struct {
	force bool
}

// Force bypasses the cache and always asks the backend
func Force() ReadOption {
	return func(o *readOptions) { o.force = true }
}

// read serves ep from the cache when possible. Fresh entries are returned
// as is; stale entries are returned and refreshed in the background.
func (c *Client) read(ctx context.Context, ep endpoint, out any, opts ...ReadOption) error {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	if c.isClosed() {
		return ErrClosed
	}

	skey, err := c.storeKey(ep.key)
	if err != nil {
		if ep.auth == authRequired {
			return err
		}
		skey = "public/" + string(ep.key)
	}
	gen := c.sessions.Generation()

	if !o.force {
		if e, found := c.lookup(ctx, skey); found {
			if json.Unmarshal(e.Value, out) == nil {
				if !e.Fresh(c.now()) {
					c.revalidate(ep, skey, gen)
				}
				return nil
			}
			c.log.Warn("Discarding undecodable cache entry", "key", skey)
		}
	}

	data, err := c.fetch(ctx, ep, skey, gen)
	if err != nil {
		return err
	}
	return decode(ep.op(), data, out)
}

func (c *Client) lookup(ctx context.Context, skey string) (cache.Entry, bool) {
	e, found, err := c.store.Get(ctx, skey)
	if err != nil {
		c.log.Warn("Cache read failed", "key", skey, "error", err)
		return cache.Entry{}, false
	}
	return e, found
}

// revalidate refreshes skey in the background
func (c *Client) revalidate(ep endpoint, skey string, gen uint64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.bg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.bg.Done()
		if _, err := c.fetch(c.base, ep, skey, gen); err != nil {
			c.log.Debug("Background revalidation failed", "key", ep.key, "error", err)
		}
	}()
}

// fetch joins or starts the shared request for skey and waits for it.
// A canceled ctx returns immediately; the shared request keeps running.
func (c *Client) fetch(ctx context.Context, ep endpoint, skey string, gen uint64) ([]byte, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	ks := c.stateLocked(ep.key)
	epoch := ks.epoch
	ks.interest++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		ks.interest--
		c.mu.Unlock()
	}()

	flight := fmt.Sprintf("%s#%d#%d", skey, gen, epoch)
	ch := c.flights.DoChan(flight, func() (any, error) {
		return c.load(ep, skey, gen, epoch)
	})

	select {
	case <-ctx.Done():
		return nil, apierr.Network(ctx, ep.op(), "backend at "+c.baseURL, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// load performs the network call for a flight and commits the result
func (c *Client) load(ep endpoint, skey string, gen, epoch uint64) ([]byte, error) {
	c.setFetching(ep.key, 1, nil, false)

	token, err := c.token(c.base, ep)
	if err != nil {
		c.setFetching(ep.key, -1, err, true)
		return nil, err
	}

	c.log.Debug("Fetching", "key", ep.key)
	data, err := c.do(c.base, ep.method, ep.path, ep.body, token)
	if err != nil {
		if apierr.IsUnauthorized(err) && token != "" {
			c.sessions.Expire(token)
		}
		c.setFetching(ep.key, -1, err, true)
		return nil, err
	}

	c.commit(ep, skey, gen, epoch, data)
	c.setFetching(ep.key, -1, nil, true)
	return data, nil
}

// commit writes data unless the client closed, the session changed, the
// key was invalidated, or every caller stopped waiting
func (c *Client) commit(ep endpoint, skey string, gen, epoch uint64, data []byte) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	ks := c.stateLocked(ep.key)
	ok := !c.closed && ks.epoch == epoch && ks.interest > 0
	c.mu.Unlock()
	if !ok || c.sessions.Generation() != gen {
		c.log.Debug("Dropping superseded response", "key", ep.key)
		return
	}

	e := cache.NewEntry(data, c.now(), c.freshFor(ep.resource), c.retention)
	if err := c.store.Set(c.base, skey, e); err != nil {
		c.log.Warn("Cache write failed", "key", skey, "error", err)
	}
}

// token returns the credential for ep. Optional endpoints go out anonymously
// when there is no usable session.
func (c *Client) token(ctx context.Context, ep endpoint) (string, error) {
	tok, err := c.sessions.Credential(ctx)
	if err != nil && ep.auth == authOptional {
		return "", nil
	}
	return tok, err
}

func (c *Client) setFetching(key Key, delta int, err error, setErr bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ks := c.stateLocked(key)
	ks.fetching += delta
	if setErr {
		ks.lastErr = err
	}
}

// invalidate drops keys for the current user and stops in-flight reads of
// them from committing
func (c *Client) invalidate(ctx context.Context, keys ...Key) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	for _, k := range keys {
		c.bumpLocked(c.stateLocked(k))
	}
	c.pruneLocked(keys)
	c.mu.Unlock()

	skeys := make([]string, 0, len(keys))
	for _, k := range keys {
		if skey, err := c.storeKey(k); err == nil {
			skeys = append(skeys, skey)
		}
	}
	if err := c.store.Delete(context.WithoutCancel(ctx), skeys...); err != nil {
		c.log.Warn("Cache invalidation failed", "keys", skeys, "error", err)
		return
	}
	c.log.Debug("Cache invalidated", "keys", keys)
}

// mutate sends a write that needs a session and invalidates keys on success
func (c *Client) mutate(ctx context.Context, method, path string, body, out any, keys ...Key) error {
	if c.isClosed() {
		return ErrClosed
	}
	op := method + " /" + path

	token, err := c.sessions.Credential(ctx)
	if errors.Is(err, apierr.ErrNoSession) {
		return apierr.NoSession(op)
	}
	if err != nil {
		return err
	}

	data, err := c.do(ctx, method, path, body, token)
	if err != nil {
		if apierr.IsUnauthorized(err) {
			c.sessions.Expire(token)
		}
		return err
	}

	c.invalidate(ctx, keys...)
	return decode(op, data, out)
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
