// ABOUTME: Tests for the GoTrue identity provider
// ABOUTME: Uses httptest servers standing in for the auth endpoints

package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/google/uuid"
)

func TestGoTrueSignIn(t *testing.T) {
	id := uuid.New()
	access := signToken(t, id, "ana@example.com", time.Now().Add(time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("expected apikey header, got %q", r.Header.Get("apikey"))
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ana@example.com" || body["password"] != "secret" {
			t.Errorf("unexpected body %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  access,
			"token_type":    "bearer",
			"expires_in":    3600,
			"refresh_token": "refresh-1",
			"user":          map[string]string{"id": id.String(), "email": "ana@example.com"},
		})
	}))
	defer server.Close()

	s, err := NewGoTrue(server.URL, "anon", nil).SignIn(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	if s.AccessToken() != access || s.Token.RefreshToken != "refresh-1" {
		t.Errorf("unexpected token: %+v", s.Token)
	}
	if s.User.ID != id || s.User.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", s.User)
	}
	if time.Until(s.Token.Expiry) < 59*time.Minute {
		t.Errorf("expected expiry about an hour out, got %v", s.Token.Expiry)
	}
}

func TestGoTrueSignInRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer server.Close()

	_, err := NewGoTrue(server.URL, "anon", nil).SignIn(context.Background(), "ana@example.com", "wrong")
	if apierr.KindOf(err) != apierr.KindAuth {
		t.Errorf("expected auth error, got %v", err)
	}
	if err.Error() != "sign in: Invalid login credentials" {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestGoTrueUnreadableErrorBody(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		refresh bool
		kind    apierr.Kind
		message string
	}{
		{"gateway page", http.StatusBadGateway, "<html>Bad Gateway</html>", false, apierr.KindServer, "sign in: backend returned status 502"},
		{"empty body", http.StatusServiceUnavailable, "", false, apierr.KindServer, "sign in: backend returned status 503"},
		{"truncated json on refresh", http.StatusBadRequest, `{"error_description":"Inv`, true, apierr.KindAuth, "refresh: backend returned status 400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			g := NewGoTrue(server.URL, "anon", nil)
			var err error
			if tt.refresh {
				_, err = g.Refresh(context.Background(), "refresh-1")
			} else {
				_, err = g.SignIn(context.Background(), "ana@example.com", "secret")
			}
			if apierr.KindOf(err) != tt.kind {
				t.Errorf("expected %s error, got %v", tt.kind, err)
			}
			if err == nil || err.Error() != tt.message {
				t.Errorf("error = %v, want %q", err, tt.message)
			}
		})
	}
}

func TestGoTrueSignUp(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantPending bool
	}{
		{"confirmation pending", `{"id":"` + uuid.NewString() + `","email":"new@example.com","confirmation_sent_at":"2025-01-01T00:00:00Z"}`, true},
		{"auto confirmed", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/v1/signup" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var body struct {
					Data map[string]string `json:"data"`
				}
				json.NewDecoder(r.Body).Decode(&body)
				if body.Data["name"] != "Ana" {
					t.Errorf("expected display name in metadata, got %v", body.Data)
				}
				if tt.response != "" {
					w.Write([]byte(tt.response))
					return
				}
				json.NewEncoder(w).Encode(map[string]any{
					"access_token":  signToken(t, uuid.New(), "new@example.com", time.Now().Add(time.Hour)),
					"refresh_token": "r",
					"expires_in":    3600,
				})
			}))
			defer server.Close()

			s, err := NewGoTrue(server.URL, "anon", nil).SignUp(context.Background(), "new@example.com", "secret", "Ana")
			if err != nil {
				t.Fatalf("SignUp() error: %v", err)
			}
			if IsConfirmationPending(s, err) != tt.wantPending {
				t.Errorf("expected pending=%v, got session %+v", tt.wantPending, s)
			}
			if !tt.wantPending && s.User.Email != "new@example.com" {
				t.Errorf("expected user from claims, got %+v", s.User)
			}
		})
	}
}

func TestGoTrueRefreshAndSignOut(t *testing.T) {
	var loggedOut bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			if r.URL.Query().Get("grant_type") != "refresh_token" {
				t.Errorf("unexpected grant %s", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  signToken(t, uuid.New(), "ana@example.com", time.Now().Add(time.Hour)),
				"refresh_token": "refresh-2",
				"expires_at":    time.Now().Add(time.Hour).Unix(),
			})
		case "/auth/v1/logout":
			if r.Header.Get("Authorization") != "Bearer old-access" {
				t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
			}
			loggedOut = true
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	g := NewGoTrue(server.URL, "anon", nil)
	s, err := g.Refresh(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if s.Token.RefreshToken != "refresh-2" {
		t.Errorf("expected rotated refresh token, got %s", s.Token.RefreshToken)
	}

	s.Token.AccessToken = "old-access"
	if err := g.SignOut(context.Background(), s); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if !loggedOut {
		t.Error("expected logout call")
	}
}

func TestGoTrueSignOutTreatsRejectedTokenAsDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := &Session{Token: nil}
	if err := NewGoTrue(server.URL, "anon", nil).SignOut(context.Background(), s); err != nil {
		t.Errorf("empty session sign-out should be a no-op, got %v", err)
	}
	s = sessionWithToken("expired")
	if err := NewGoTrue(server.URL, "anon", nil).SignOut(context.Background(), s); err != nil {
		t.Errorf("401 on logout should count as signed out, got %v", err)
	}
}

func TestGoTrueConnectionError(t *testing.T) {
	_, err := NewGoTrue("http://localhost:99999", "anon", nil).SignIn(context.Background(), "a@b.c", "pw")
	if apierr.KindOf(err) != apierr.KindNetwork {
		t.Errorf("expected network error, got %v", err)
	}
}
