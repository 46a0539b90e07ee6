// ABOUTME: Shared fixtures for client tests
// ABOUTME: Wires a session manager and client against the fake backend with a fake clock

package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apitest"
	"github.com/Bryanads/thecheck-frontend-app/internal/logger"
	"github.com/Bryanads/thecheck-frontend-app/internal/session"
	"github.com/google/uuid"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "hunter22"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	srv      *apitest.Server
	sessions *session.Manager
	client   *Client
	clock    *clock
	userID   uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := apitest.New()
	t.Cleanup(srv.Close)
	userID := srv.AddUser(testEmail, testPassword, "Ana")

	clk := &clock{now: time.Now()}
	sessions := session.NewManager(srv.Identity(), session.Options{Logger: logger.Discard()})
	c := New(sessions, Options{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     logger.Discard(),
		Now:        clk.Now,
	})
	t.Cleanup(func() {
		c.Close()
		sessions.Dispose()
	})

	return &harness{srv: srv, sessions: sessions, client: c, clock: clk, userID: userID}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	if _, err := h.sessions.SignIn(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
}

func (h *harness) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.client.Settle(ctx); err != nil {
		t.Fatalf("Settle() error: %v", err)
	}
}

// waitInterest blocks until n callers are waiting on key's shared request
func waitInterest(t *testing.T, c *Client, key Key, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.mu.Lock()
		got := 0
		if ks, ok := c.keys[key]; ok {
			got = ks.interest
		}
		c.mu.Unlock()
		if got >= n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d waiters on %s, got %d", n, key, got)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitArrival(t *testing.T, arrived <-chan struct{}) {
	t.Helper()
	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}
}
