// ABOUTME: GoTrue (Supabase Auth) identity provider
// ABOUTME: Password and refresh-token grants, sign-up and logout over JSON

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"golang.org/x/oauth2"
)

// GoTrue talks to a GoTrue server at {baseURL}/auth/v1
type GoTrue struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewGoTrue creates a provider for the project at baseURL using its public api key
func NewGoTrue(baseURL, apiKey string, httpClient *http.Client) *GoTrue {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &GoTrue{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (g *GoTrue) Name() string { return "gotrue" }

type goTrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// goTrueSession covers both the token response and the sign-up response,
// which is a bare user object when confirmation is pending
type goTrueSession struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	RefreshToken string      `json:"refresh_token"`
	User         *goTrueUser `json:"user"`
	ID           string      `json:"id"`
	Email        string      `json:"email"`
}

type goTrueError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e goTrueError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (g *GoTrue) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp goTrueSession
	if err := g.do(ctx, "sign in", "/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}
	return g.session("sign in", resp)
}

func (g *GoTrue) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	body := map[string]any{"email": email, "password": password}
	if displayName != "" {
		body["data"] = map[string]string{"name": displayName}
	}
	var resp goTrueSession
	if err := g.do(ctx, "sign up", "/signup", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, nil
	}
	return g.session("sign up", resp)
}

func (g *GoTrue) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp goTrueSession
	if err := g.do(ctx, "refresh", "/token?grant_type=refresh_token", "", body, &resp); err != nil {
		return nil, err
	}
	return g.session("refresh", resp)
}

func (g *GoTrue) SignOut(ctx context.Context, s *Session) error {
	if s.AccessToken() == "" {
		return nil
	}
	err := g.do(ctx, "sign out", "/logout", s.AccessToken(), nil, nil)
	// A token the server no longer accepts is already signed out
	if apierr.IsUnauthorized(err) || apierr.IsNotFound(err) {
		return nil
	}
	return err
}

func (g *GoTrue) session(op string, resp goTrueSession) (*Session, error) {
	if resp.AccessToken == "" {
		return nil, &apierr.Error{Kind: apierr.KindServer, Op: op, Err: errNoAccessToken}
	}

	tok := &oauth2.Token{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		RefreshToken: resp.RefreshToken,
	}
	switch {
	case resp.ExpiresAt > 0:
		tok.Expiry = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		tok.Expiry = g.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	default:
		tok.Expiry = expiryFromToken(resp.AccessToken)
	}

	var u User
	if resp.User != nil {
		u = parseUser(resp.User.ID, resp.User.Email)
	}
	return &Session{Token: tok, User: userFromToken(u, resp.AccessToken)}, nil
}

func (g *GoTrue) do(ctx context.Context, op, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := g.baseURL + "/auth/v1" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return apierr.Network(ctx, op, "identity backend at "+g.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A body that is not a GoTrue error leaves the status as the only detail
		var e goTrueError
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			e = goTrueError{}
		}
		return identityError(op, resp.StatusCode, e.text())
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apierr.Error{Kind: apierr.KindServer, Op: op, Message: "invalid response from identity backend", Err: err}
	}
	return nil
}

// identityError classifies a failed identity call. Token endpoints answer bad
// credentials with 400, which is an authentication failure, not bad input.
func identityError(op string, status int, message string) *apierr.Error {
	e := apierr.FromStatus(op, status, message)
	if status == http.StatusBadRequest && (op == "sign in" || op == "refresh") {
		e.Kind = apierr.KindAuth
	}
	return e
}
