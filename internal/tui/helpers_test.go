// ABOUTME: Shared fixtures for TUI tests
// ABOUTME: Builds an App against the fake backend with an in-memory cache

package tui

import (
	"context"
	"testing"

	"github.com/Bryanads/thecheck-frontend-app/internal/apitest"
	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/Bryanads/thecheck-frontend-app/internal/client"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/logger"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/session"
	"github.com/google/uuid"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "hunter22"
)

type harness struct {
	srv    *apitest.Server
	core   *app.App
	userID uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := apitest.New()
	t.Cleanup(srv.Close)
	userID := srv.AddUser(testEmail, testPassword, "Ana")

	sessions := session.NewManager(srv.Identity(), session.Options{Logger: logger.Discard()})
	c := client.New(sessions, client.Options{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     logger.Discard(),
	})
	sessions.SetProfileSource(func(ctx context.Context) (*models.Profile, error) {
		return c.Profile(ctx)
	})
	t.Cleanup(func() {
		c.Close()
		sessions.Dispose()
	})

	core := &app.App{
		Config:   &config.Config{ConfigDir: t.TempDir()},
		Log:      logger.Discard(),
		Sessions: sessions,
		Client:   c,
	}
	return &harness{srv: srv, core: core, userID: userID}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	if _, err := h.core.Sessions.SignIn(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
}

// newApp signs in when signedIn is set, then builds the TUI at 100x40
func (h *harness) newApp(t *testing.T, signedIn bool) *App {
	t.Helper()
	if signedIn {
		h.signIn(t)
	}
	a := New(context.Background(), h.core)
	a.width = 100
	a.height = 40
	return a
}

// home loads shared data synchronously
func (h *harness) home(t *testing.T, a *App) {
	t.Helper()
	msg, ok := a.loadHome()().(homeLoadedMsg)
	if !ok {
		t.Fatal("expected homeLoadedMsg")
	}
	if msg.err != nil {
		t.Fatalf("loadHome() error: %v", msg.err)
	}
	a.Update(msg)
}
