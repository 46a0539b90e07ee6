// ABOUTME: Tests for the root command, shared helpers and error messages
// ABOUTME: Command tests run against the in-process fake backend

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/apitest"
	"github.com/google/uuid"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "correct-horse"
)

// setupBackend starts a fake backend with one user and points config at it
func setupBackend(t *testing.T) (*apitest.Server, uuid.UUID) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	user := srv.AddUser(testEmail, testPassword, "Ana")

	t.Setenv("THECHECK_API_URL", srv.URL)
	t.Setenv("THECHECK_IDENTITY_PROVIDER", "gotrue")
	t.Setenv("THECHECK_IDENTITY_URL", srv.URL)
	t.Setenv("THECHECK_IDENTITY_ANON_KEY", apitest.AnonKey)
	t.Setenv("THECHECK_CONFIG_DIR", t.TempDir())
	t.Setenv("THECHECK_CACHE", "memory")
	t.Setenv("THECHECK_PERSIST_SESSION", "true")
	t.Setenv("THECHECK_EMAIL", "")
	t.Setenv("THECHECK_PASSWORD", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")

	envFiles = []string{}
	t.Cleanup(func() { envFiles = nil })
	return srv, user
}

// login signs the test user in; the session is persisted for later commands
func login(t *testing.T) {
	t.Helper()
	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, testEmail, testPassword); code != exitOK {
		t.Fatalf("login exit code = %d, output:\n%s", code, buf.String())
	}
}

// flagsSet fakes cobra's Changed for the named flags
func flagsSet(names ...string) func(string) bool {
	return func(name string) bool { return slices.Contains(names, name) }
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no session", apierr.ErrNoSession, "not signed in"},
		{"wrapped no session", fmt.Errorf("loading presets: %w", apierr.NoSession("list presets")), "not signed in"},
		{"unauthorized", apierr.FromStatus("get profile", 401, "jwt expired"), "session expired"},
		{"not found", apierr.FromStatus("get spot", 404, "Spot not found"), "Spot not found"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeError(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("describeError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseID("preset", tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %d, want %d", tt.arg, got, tt.want)
			}
			if err != nil && !strings.Contains(err.Error(), "invalid preset id") {
				t.Errorf("error = %q, want it to name the kind", err)
			}
		})
	}
}

func TestWithApp_InvalidConfig(t *testing.T) {
	setupBackend(t)
	t.Setenv("THECHECK_CACHE", "carrier-pigeon")

	var buf bytes.Buffer
	code := runSpots(context.Background(), &buf, "")
	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	if !strings.HasPrefix(buf.String(), "Error:") {
		t.Errorf("expected error output, got %q", buf.String())
	}
}
