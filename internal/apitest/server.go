// ABOUTME: In-process fake of the TheCheck backend and its GoTrue identity server
// ABOUTME: Counts calls per route and can hold or fail requests for concurrency tests

package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AnonKey is the api key the fake identity server accepts
const AnonKey = "test-anon-key"

type account struct {
	id       uuid.UUID
	email    string
	password string
	name     string
}

type failure struct {
	status int
	body   string
	times  int
}

// Server serves the backend API under / and GoTrue under /auth/v1
type Server struct {
	*httptest.Server

	// AutoConfirm makes sign-up return a session instead of requiring confirmation
	AutoConfirm bool
	// TokenTTL is the lifetime of issued access tokens (default 1h)
	TokenTTL time.Duration

	secret []byte

	mu            sync.Mutex
	accounts      map[string]*account
	live          map[string]bool
	refreshTokens map[string]uuid.UUID
	profiles      map[uuid.UUID]*models.Profile
	spots         []models.Spot
	presets       map[uuid.UUID][]models.Preset
	prefs         map[uuid.UUID]map[int]models.Preference
	nextPresetID  int
	calls         map[string]int
	holds         map[string]chan struct{}
	arrivals      map[string]chan struct{}
	failures      map[string]*failure
	requestIDs    []string
}

type ctxKey struct{}

// New starts a server seeded with a few spots
func New() *Server {
	s := &Server{
		TokenTTL:      time.Hour,
		secret:        []byte("apitest-secret-" + uuid.NewString()),
		accounts:      make(map[string]*account),
		live:          make(map[string]bool),
		refreshTokens: make(map[string]uuid.UUID),
		profiles:      make(map[uuid.UUID]*models.Profile),
		spots:         DefaultSpots(),
		presets:       make(map[uuid.UUID][]models.Preset),
		prefs:         make(map[uuid.UUID]map[int]models.Preference),
		nextPresetID:  1,
		calls:         make(map[string]int),
		holds:         make(map[string]chan struct{}),
		arrivals:      make(map[string]chan struct{}),
		failures:      make(map[string]*failure),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth/v1", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/token", s.handleToken)
		r.Post("/signup", s.handleSignUp)
		r.Post("/logout", s.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.track)
		r.Use(s.optionalAuth)

		r.Get("/spots", s.handleSpots)
		r.Get("/spots/{id}", s.handleSpot)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Get("/presets", s.handleListPresets)
			r.Post("/presets", s.handleCreatePreset)
			r.Put("/presets/{id}", s.handleUpdatePreset)
			r.Delete("/presets/{id}", s.handleDeletePreset)
			r.Get("/preferences/spot/{id}", s.handleGetPreferences)
			r.Put("/preferences/spot/{id}", s.handleUpdatePreferences)
			r.Get("/forecasts/spot/{id}", s.handleForecast)
			r.Post("/recommendations", s.handleRecommendations)
		})
	})
	return r
}

// Identity returns a GoTrue provider pointed at this server
func (s *Server) Identity() *identity.GoTrue {
	return identity.NewGoTrue(s.URL, AnonKey, s.Client())
}

// AddUser registers a confirmed account with an empty profile
func (s *Server) AddUser(email, password, name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, name)
}

func (s *Server) addUserLocked(email, password, name string) uuid.UUID {
	a := &account{id: uuid.New(), email: email, password: password, name: name}
	s.accounts[strings.ToLower(email)] = a
	s.profiles[a.id] = &models.Profile{ID: a.id, Name: name, Email: email}
	return a.id
}

// EditProfile changes a stored profile behind the client's back
func (s *Server) EditProfile(user uuid.UUID, fn func(*models.Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[user]; ok {
		fn(p)
	}
}

// AddPreset stores a preset for user and returns it with its id
func (s *Server) AddPreset(user uuid.UUID, p models.PresetCreate) models.Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPresetLocked(user, p)
}

// RevokeAll invalidates every access token issued so far, as if they expired.
// Refresh tokens stay valid.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.live)
}

// Calls returns how many requests reached route, e.g. "GET /profile"
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// RequestIDs returns the X-Request-ID headers seen on backend routes
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// Hold blocks requests to route until the returned release function is called.
// The arrived channel receives once per request that reaches the hold.
func (s *Server) Hold(route string) (arrived <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	arr := make(chan struct{}, 64)
	s.holds[route] = gate
	s.arrivals[route] = arr
	var once sync.Once
	return arr, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, route)
			delete(s.arrivals, route)
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Fail makes the next n requests to route answer status with body
func (s *Server) Fail(route string, status, n int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = &failure{status: status, body: body, times: n}
}

// track counts the call, applies failures and holds
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + routePattern(r)

		s.mu.Lock()
		s.calls[route]++
		if id := r.Header.Get("X-Request-ID"); id != "" {
			s.requestIDs = append(s.requestIDs, id)
		}
		gate := s.holds[route]
		arr := s.arrivals[route]
		f := s.failures[route]
		if f != nil {
			f.times--
			if f.times <= 0 {
				delete(s.failures, route)
			}
		}
		s.mu.Unlock()

		if gate != nil {
			arr <- struct{}{}
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// routePattern turns /presets/3 into /presets/{id}
func routePattern(r *http.Request) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, ok := s.verify(strings.TrimPrefix(auth, "Bearer "))
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(ctxKey{}).(uuid.UUID); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(ctxKey{}).(uuid.UUID)
	return id
}

func (s *Server) verify(token string) (uuid.UUID, bool) {
	return s.verifyClaims(token, &identity.Claims{})
}

// verifyClaims checks the signature, expiry and that the token was not revoked
func (s *Server) verifyClaims(token string, claims *identity.Claims) (uuid.UUID, bool) {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return uuid.Nil, false
	}

	s.mu.Lock()
	live := s.live[claims.ID]
	s.mu.Unlock()
	if !live {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(claims.Subject)
	return id, err == nil
}

func (s *Server) issue(a *account) (access, refresh string, expiresIn int64) {
	ttl := s.TokenTTL
	jti := uuid.NewString()
	claims := identity.Claims{
		Email: a.email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.id.String(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	access, _ = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	s.live[jti] = true
	refresh = uuid.NewString()
	s.refreshTokens[refresh] = a.id
	return access, refresh, int64(ttl / time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}
