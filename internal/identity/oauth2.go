// ABOUTME: Generic OAuth 2.0 identity provider using the resource owner password grant
// ABOUTME: Refreshes with the refresh_token grant and revokes per RFC 7009 when configured

package identity

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"golang.org/x/oauth2"
)

// OAuth2Options configures NewOAuth2
type OAuth2Options struct {
	TokenURL     string
	RevokeURL    string
	ClientID     string
	ClientSecret string
	Scopes       []string
	HTTPClient   *http.Client
}

// OAuth2 authenticates against a standard OAuth 2.0 token endpoint
type OAuth2 struct {
	config     oauth2.Config
	revokeURL  string
	httpClient *http.Client
}

// NewOAuth2 creates an OAuth 2.0 provider
func NewOAuth2(opts OAuth2Options) *OAuth2 {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OAuth2{
		config: oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  opts.TokenURL,
				AuthStyle: oauth2.AuthStyleAutoDetect,
			},
			Scopes: opts.Scopes,
		},
		revokeURL:  opts.RevokeURL,
		httpClient: httpClient,
	}
}

func (o *OAuth2) Name() string { return "oauth2" }

func (o *OAuth2) SignIn(ctx context.Context, email, password string) (*Session, error) {
	tok, err := o.config.PasswordCredentialsToken(o.ctx(ctx), email, password)
	if err != nil {
		return nil, o.mapErr(ctx, "sign in", err)
	}
	return o.session(tok, User{Email: email}), nil
}

// SignUp is not part of OAuth 2.0
func (o *OAuth2) SignUp(context.Context, string, string, string) (*Session, error) {
	return nil, &apierr.Error{Kind: apierr.KindValidation, Op: "sign up", Err: apierr.ErrUnsupported,
		Message: "sign-up is not available with the oauth2 identity provider"}
}

func (o *OAuth2) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	expired := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Unix(1, 0)}
	tok, err := o.config.TokenSource(o.ctx(ctx), expired).Token()
	if err != nil {
		return nil, o.mapErr(ctx, "refresh", err)
	}
	return o.session(tok, User{}), nil
}

// SignOut revokes the refresh token, or the access token when there is none.
// Without a revocation endpoint there is nothing to do server-side.
func (o *OAuth2) SignOut(ctx context.Context, s *Session) error {
	if o.revokeURL == "" || s == nil || s.Token == nil {
		return nil
	}

	token, hint := s.Token.RefreshToken, "refresh_token"
	if token == "" {
		token, hint = s.Token.AccessToken, "access_token"
	}
	form := url.Values{"token": {token}, "token_type_hint": {hint}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(o.config.ClientID), url.QueryEscape(o.config.ClientSecret))

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return apierr.Network(ctx, "sign out", "identity backend at "+o.revokeURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return apierr.FromStatus("sign out", resp.StatusCode, "")
	}
	return nil
}

func (o *OAuth2) session(tok *oauth2.Token, fallback User) *Session {
	if tok.Expiry.IsZero() {
		tok.Expiry = expiryFromToken(tok.AccessToken)
	}
	return &Session{Token: tok, User: userFromToken(fallback, tok.AccessToken)}
}

func (o *OAuth2) ctx(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
}

func (o *OAuth2) mapErr(ctx context.Context, op string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		msg := re.ErrorDescription
		if msg == "" {
			msg = re.ErrorCode
		}
		return identityError(op, re.Response.StatusCode, msg)
	}
	return apierr.Network(ctx, op, "identity backend at "+o.config.Endpoint.TokenURL, err)
}
