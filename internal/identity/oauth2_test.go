// ABOUTME: Tests for the OAuth 2.0 password-grant provider
// ABOUTME: Covers token exchange, refresh, revocation and error mapping

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
	"golang.org/x/oauth2"
)

func sessionWithToken(access string) *Session {
	return &Session{Token: &oauth2.Token{AccessToken: access}}
}

func TestOAuth2SignInAndRefresh(t *testing.T) {
	id := uuid.New()
	var revoked string

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		switch r.Form.Get("grant_type") {
		case "password":
			if r.Form.Get("username") != "ana@example.com" || r.Form.Get("password") != "secret" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_grant","error_description":"bad credentials"}`))
				return
			}
		case "refresh_token":
			if r.Form.Get("refresh_token") != "refresh-1" {
				t.Errorf("unexpected refresh token %q", r.Form.Get("refresh_token"))
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  signToken(t, id, "ana@example.com", time.Now().Add(time.Hour)),
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/revoke", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		revoked = r.Form.Get("token")
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewOAuth2(OAuth2Options{
		TokenURL:  server.URL + "/token",
		RevokeURL: server.URL + "/revoke",
		ClientID:  "thecheck",
	})
	ctx := context.Background()

	s, err := p.SignIn(ctx, "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	if s.User.ID != id || s.User.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", s.User)
	}

	refreshed, err := p.Refresh(ctx, "refresh-1")
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if refreshed.User.ID != id {
		t.Errorf("expected user from claims after refresh, got %+v", refreshed.User)
	}

	if err := p.SignOut(ctx, s); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if revoked != "refresh-1" {
		t.Errorf("expected refresh token revoked, got %q", revoked)
	}

	_, err = p.SignIn(ctx, "ana@example.com", "wrong")
	if apierr.KindOf(err) != apierr.KindAuth {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestOAuth2SignUpUnsupported(t *testing.T) {
	p := NewOAuth2(OAuth2Options{TokenURL: "http://localhost/token"})
	_, err := p.SignUp(context.Background(), "a@b.c", "pw", "")
	if apierr.KindOf(err) != apierr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestOAuth2SignOutWithoutRevokeURL(t *testing.T) {
	p := NewOAuth2(OAuth2Options{TokenURL: "http://localhost/token"})
	if err := p.SignOut(context.Background(), sessionWithToken("a")); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}
