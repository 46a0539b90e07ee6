// ABOUTME: Identity provider abstraction and the session credentials it issues
// ABOUTME: Providers exchange passwords and refresh tokens for bearer tokens

package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// User identifies the signed-in account
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is an authenticated session as issued by a provider
type Session struct {
	Token *oauth2.Token `json:"token"`
	User  User          `json:"user"`
}

// AccessToken returns the bearer token, empty for a nil session
func (s *Session) AccessToken() string {
	if s == nil || s.Token == nil {
		return ""
	}
	return s.Token.AccessToken
}

// ExpiresWithin reports whether the access token expires within d.
// Tokens without an expiry never do.
func (s *Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	if s == nil || s.Token == nil || s.Token.Expiry.IsZero() {
		return false
	}
	return !now.Add(d).Before(s.Token.Expiry)
}

// Provider talks to an identity backend
type Provider interface {
	// SignIn exchanges credentials for a session
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SignUp registers an account. A nil session with a nil error means the
	// backend requires confirmation before the account can sign in.
	SignUp(ctx context.Context, email, password, displayName string) (*Session, error)
	// Refresh exchanges a refresh token for a new session
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	// SignOut revokes the session server-side
	SignOut(ctx context.Context, s *Session) error
	// Name is used in logs and error messages
	Name() string
}

// Claims are the access-token claims the client reads
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a JWT access token without verifying its signature.
// The client holds no verification key; the backend verifies every request.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding access token: %w", err)
	}
	return claims, nil
}

// userFromToken fills in user fields missing from a provider response using
// the access token's claims
func userFromToken(u User, access string) User {
	claims, err := ParseClaims(access)
	if err != nil {
		return u
	}
	if u.ID == uuid.Nil {
		if id, err := uuid.Parse(claims.Subject); err == nil {
			u.ID = id
		}
	}
	if u.Email == "" {
		u.Email = claims.Email
	}
	return u
}

// expiryFromToken returns the token's exp claim, zero when absent
func expiryFromToken(access string) time.Time {
	claims, err := ParseClaims(access)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// New builds the provider selected by cfg. When the identity backend is not
// configured the returned provider fails every call with a validation error.
func New(cfg *config.Config, httpClient *http.Client) Provider {
	if !cfg.IdentityConfigured() {
		return Unavailable{Reason: unavailableReason(cfg)}
	}
	switch cfg.IdentityProvider {
	case config.IdentityOAuth2:
		return NewOAuth2(OAuth2Options{
			TokenURL:     cfg.OAuthTokenURL,
			RevokeURL:    cfg.OAuthRevokeURL,
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			HTTPClient:   httpClient,
		})
	default:
		return NewGoTrue(cfg.IdentityURL, cfg.IdentityAnonKey, httpClient)
	}
}

func unavailableReason(cfg *config.Config) string {
	if cfg.IdentityProvider == config.IdentityOAuth2 {
		return "set THECHECK_OAUTH_TOKEN_URL"
	}
	return "set THECHECK_IDENTITY_URL and THECHECK_IDENTITY_ANON_KEY (or SUPABASE_URL and SUPABASE_ANON_KEY)"
}

// Unavailable is the provider used when no identity backend is configured
type Unavailable struct {
	Reason string
}

func (u Unavailable) err(op string) error {
	return apierr.Validation(op, "identity backend not configured: %s", u.Reason)
}

func (u Unavailable) SignIn(context.Context, string, string) (*Session, error) {
	return nil, u.err("sign in")
}

func (u Unavailable) SignUp(context.Context, string, string, string) (*Session, error) {
	return nil, u.err("sign up")
}

func (u Unavailable) Refresh(context.Context, string) (*Session, error) {
	return nil, u.err("refresh")
}

// SignOut succeeds so local sign-out always works
func (u Unavailable) SignOut(context.Context, *Session) error { return nil }

func (u Unavailable) Name() string { return "unconfigured" }

// IsConfirmationPending reports whether a SignUp result needs email confirmation
func IsConfirmationPending(s *Session, err error) bool {
	return s == nil && err == nil
}

var errNoAccessToken = errors.New("response carried no access token")

func parseUser(id, email string) User {
	u := User{Email: email}
	if parsed, err := uuid.Parse(id); err == nil {
		u.ID = parsed
	}
	return u
}
