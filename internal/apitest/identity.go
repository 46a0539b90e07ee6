// ABOUTME: GoTrue-compatible token, sign-up and logout handlers for the fake server
// ABOUTME: Issues HS256 access tokens whose subject is the account id

package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
	"github.com/google/uuid"
)

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != AnonKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type tokenRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
	Data         struct {
		Name string `json:"name"`
	} `json:"data"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["POST /auth/v1/token"]++

	var acct *account
	switch r.URL.Query().Get("grant_type") {
	case "password":
		a, ok := s.accounts[strings.ToLower(req.Email)]
		if !ok || a.password != req.Password {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}
		acct = a
	case "refresh_token":
		id, ok := s.refreshTokens[req.RefreshToken]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid Refresh Token: Refresh Token Not Found",
			})
			return
		}
		delete(s.refreshTokens, req.RefreshToken)
		acct = s.accountByIDLocked(id)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}
	if acct == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}

	s.writeSessionLocked(w, acct)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || len(req.Password) < 6 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"msg": "Password should be at least 6 characters"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["POST /auth/v1/signup"]++

	if _, exists := s.accounts[strings.ToLower(req.Email)]; exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"msg": "User already registered"})
		return
	}
	id := s.addUserLocked(req.Email, req.Password, req.Data.Name)
	acct := s.accounts[strings.ToLower(req.Email)]

	if !s.AutoConfirm {
		writeJSON(w, http.StatusOK, map[string]string{"id": id.String(), "email": req.Email})
		return
	}
	s.writeSessionLocked(w, acct)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	claims := &identity.Claims{}
	if _, ok := s.verifyClaims(token, claims); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid JWT"})
		return
	}

	s.mu.Lock()
	s.calls["POST /auth/v1/logout"]++
	delete(s.live, claims.ID)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeSessionLocked(w http.ResponseWriter, a *account) {
	access, refresh, expiresIn := s.issue(a)
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  access,
		"token_type":    "bearer",
		"expires_in":    expiresIn,
		"refresh_token": refresh,
		"user":          map[string]string{"id": a.id.String(), "email": a.email},
	})
}

func (s *Server) accountByIDLocked(id uuid.UUID) *account {
	for _, a := range s.accounts {
		if a.id == id {
			return a
		}
	}
	return nil
}
