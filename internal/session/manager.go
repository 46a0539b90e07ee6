// ABOUTME: Session manager owning authentication state and its lifecycle
// ABOUTME: Signs in/out, refreshes tokens, handles 401 expiry and notifies subscribers

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ProfileFunc fetches the signed-in user's profile
type ProfileFunc func(ctx context.Context) (*models.Profile, error)

// Options configures a Manager
type Options struct {
	// Store persists the session; nil keeps it in memory only
	Store Store
	// Logger defaults to slog.Default()
	Logger *slog.Logger
	// RefreshLeeway refreshes tokens this close to expiry (default 1m)
	RefreshLeeway time.Duration
	// Now is the clock, for tests
	Now func() time.Time
}

// SignUpResult reports the outcome of a registration
type SignUpResult struct {
	ConfirmationPending bool
	User                identity.User
}

// Manager is the single owner of session state
type Manager struct {
	provider identity.Provider
	store    Store
	log      *slog.Logger
	leeway   time.Duration
	now      func() time.Time

	// transitions serializes state changes with their notifications so
	// subscribers observe transitions in the order they happened
	transitions sync.Mutex

	mu        sync.Mutex
	session   *identity.Session
	profile   *models.Profile
	gen       uint64
	listeners []listenerEntry
	nextID    int
	disposed  bool
	profileFn ProfileFunc

	refreshGroup singleflight.Group
	profileGroup singleflight.Group
}

// NewManager creates a manager with no session. Call Init to restore a persisted one.
func NewManager(provider identity.Provider, opts Options) *Manager {
	m := &Manager{
		provider: provider,
		store:    opts.Store,
		log:      opts.Logger,
		leeway:   opts.RefreshLeeway,
		now:      opts.Now,
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.leeway <= 0 {
		m.leeway = time.Minute
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// SetProfileSource attaches the function used to load the derived profile
func (m *Manager) SetProfileSource(fn ProfileFunc) {
	m.mu.Lock()
	m.profileFn = fn
	m.mu.Unlock()
}

// Init restores a persisted session, refreshing it when it has expired.
// A session whose refresh is rejected is discarded.
func (m *Manager) Init(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	s, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if s == nil {
		return nil
	}

	if s.ExpiresWithin(m.now(), m.leeway) && s.Token.RefreshToken != "" {
		refreshed, err := m.provider.Refresh(ctx, s.Token.RefreshToken)
		switch {
		case err == nil:
			s = mergeUser(refreshed, s)
			m.persist(s)
		case apierr.IsAuth(err):
			m.log.Info("Discarding persisted session", "reason", err)
			return m.store.Clear()
		default:
			// Keep the session; Credential retries the refresh later
			m.log.Warn("Could not refresh persisted session", "error", err)
		}
	}

	m.install(s, ReasonRestored)
	return nil
}

// Dispose drops all subscribers. State changes after Dispose notify no one.
func (m *Manager) Dispose() {
	m.mu.Lock()
	m.disposed = true
	m.listeners = nil
	m.mu.Unlock()
}

// Subscribe registers a listener and returns a function that removes it
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return func() {}
	}
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, l := range m.listeners {
				if l.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// SignIn exchanges credentials for a session, notifies subscribers, then
// loads the profile once. A failed profile load does not fail the sign-in.
// On failure any existing session is left untouched.
func (m *Manager) SignIn(ctx context.Context, email, password string) (identity.User, error) {
	s, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return identity.User{}, err
	}

	m.install(s, ReasonSignIn)
	m.log.Info("Signed in", "user", s.User.Email)
	m.loadProfileAfterSignIn(ctx)
	return s.User, nil
}

// SignUp registers an account. When the backend auto-confirms it signs in.
func (m *Manager) SignUp(ctx context.Context, email, password, displayName string) (SignUpResult, error) {
	s, err := m.provider.SignUp(ctx, email, password, displayName)
	if err != nil {
		return SignUpResult{}, err
	}
	if identity.IsConfirmationPending(s, err) {
		m.log.Info("Sign-up pending confirmation", "user", email)
		return SignUpResult{ConfirmationPending: true, User: identity.User{Email: email}}, nil
	}

	m.install(s, ReasonSignUp)
	m.log.Info("Signed up", "user", s.User.Email)
	m.loadProfileAfterSignIn(ctx)
	return SignUpResult{User: s.User}, nil
}

// SignOut ends the session locally, notifying subscribers, then revokes it
// with the identity backend. It is a no-op without a session. The returned
// error only reports a failed remote revocation; local state is always cleared.
func (m *Manager) SignOut(ctx context.Context) error {
	s := m.clear(nil, ReasonSignOut)
	if s == nil {
		return nil
	}
	m.log.Info("Signed out", "user", s.User.Email)

	if err := m.provider.SignOut(ctx, s); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// Expire ends the session after the backend rejected token. Only the call
// presenting the current token transitions; stale or repeated calls are
// no-ops. Reports whether this call ended the session.
func (m *Manager) Expire(token string) bool {
	s := m.clear(func(cur *identity.Session) bool {
		return cur.AccessToken() == token
	}, ReasonExpired)
	if s == nil {
		return false
	}
	m.log.Warn("Session rejected by backend, signed out", "user", s.User.Email)
	return true
}

// Credential returns the bearer token of the active session, refreshing it
// first when it is about to expire.
func (m *Manager) Credential(ctx context.Context) (string, error) {
	m.mu.Lock()
	s := m.session
	gen := m.gen
	m.mu.Unlock()

	if s == nil {
		return "", apierr.NoSession("credential")
	}
	if !s.ExpiresWithin(m.now(), m.leeway) || s.Token.RefreshToken == "" {
		return s.AccessToken(), nil
	}
	return m.refresh(ctx, s, gen)
}

func (m *Manager) refresh(ctx context.Context, s *identity.Session, gen uint64) (string, error) {
	key := "refresh:" + strconv.FormatUint(gen, 10)
	ch := m.refreshGroup.DoChan(key, func() (any, error) {
		m.mu.Lock()
		cur := m.session
		m.mu.Unlock()
		if cur != nil && cur != s && !cur.ExpiresWithin(m.now(), m.leeway) {
			// An earlier flight already rotated the token
			return cur, nil
		}
		refreshed, err := m.provider.Refresh(context.WithoutCancel(ctx), s.Token.RefreshToken)
		if err != nil {
			return nil, err
		}
		return mergeUser(refreshed, s), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", apierr.Network(ctx, "refresh", "identity backend", ctx.Err())
	case res = <-ch:
	}

	if res.Err != nil {
		if apierr.IsAuth(res.Err) {
			m.clear(func(cur *identity.Session) bool { return cur == s }, ReasonRefreshRejects)
			m.log.Warn("Refresh token rejected, signed out", "user", s.User.Email)
		}
		return "", res.Err
	}

	return m.replace(s, res.Val.(*identity.Session))
}

// replace swaps old for refreshed if old is still current
func (m *Manager) replace(old, refreshed *identity.Session) (string, error) {
	m.transitions.Lock()
	defer m.transitions.Unlock()

	m.mu.Lock()
	switch m.session {
	case nil:
		m.mu.Unlock()
		return "", apierr.NoSession("credential")
	case refreshed:
		// Another waiter on the same refresh already installed it
		m.mu.Unlock()
		return refreshed.AccessToken(), nil
	case old:
	default:
		cur := m.session.AccessToken()
		m.mu.Unlock()
		return cur, nil
	}
	m.session = refreshed
	t := Transition{Event: EventRefreshed, Reason: ReasonRefreshed, User: refreshed.User, Generation: m.gen}
	listeners := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(refreshed)
	m.log.Debug("Session refreshed", "user", refreshed.User.Email, "expiry", refreshed.Token.Expiry)
	notify(listeners, t)
	return refreshed.AccessToken(), nil
}

// install makes s the active session and notifies EventSignedIn
func (m *Manager) install(s *identity.Session, reason string) {
	m.transitions.Lock()
	defer m.transitions.Unlock()

	m.mu.Lock()
	m.session = s
	m.profile = nil
	m.gen++
	t := Transition{Event: EventSignedIn, Reason: reason, User: s.User, Generation: m.gen}
	listeners := m.snapshotLocked()
	m.mu.Unlock()

	if reason != ReasonRestored {
		m.persist(s)
	}
	notify(listeners, t)
}

// clear ends the session when match accepts it (nil matches any) and
// returns the session that was ended
func (m *Manager) clear(match func(*identity.Session) bool, reason string) *identity.Session {
	m.transitions.Lock()
	defer m.transitions.Unlock()

	m.mu.Lock()
	s := m.session
	if s == nil || (match != nil && !match(s)) {
		m.mu.Unlock()
		return nil
	}
	m.session = nil
	m.profile = nil
	m.gen++
	t := Transition{Event: EventSignedOut, Reason: reason, User: s.User, Generation: m.gen}
	listeners := m.snapshotLocked()
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			m.log.Warn("Could not remove persisted session", "error", err)
		}
	}
	notify(listeners, t)
	return s
}

func (m *Manager) persist(s *identity.Session) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(s); err != nil {
		m.log.Warn("Could not persist session", "error", err)
	}
}

func (m *Manager) snapshotLocked() []listenerEntry {
	if m.disposed || len(m.listeners) == 0 {
		return nil
	}
	return append([]listenerEntry(nil), m.listeners...)
}

func notify(listeners []listenerEntry, t Transition) {
	for _, l := range listeners {
		l.fn(t)
	}
}

// Current returns a copy of the active session
func (m *Manager) Current() (identity.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return identity.Session{}, false
	}
	s := *m.session
	if s.Token != nil {
		tok := *s.Token
		s.Token = &tok
	}
	return s, true
}

// User returns the signed-in user
func (m *Manager) User() (identity.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return identity.User{}, false
	}
	return m.session.User, true
}

// Generation increments on every sign-in and sign-out
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// Profile returns the derived profile, loading it if needed
func (m *Manager) Profile(ctx context.Context) (*models.Profile, error) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil, apierr.NoSession("profile")
	}
	if m.profile != nil {
		p := *m.profile
		m.mu.Unlock()
		return &p, nil
	}
	m.mu.Unlock()

	return m.loadProfile(ctx)
}

// SetProfile replaces the derived profile after a successful update
func (m *Manager) SetProfile(p *models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || p == nil {
		return
	}
	cp := *p
	m.profile = &cp
}

func (m *Manager) loadProfileAfterSignIn(ctx context.Context) {
	if _, err := m.loadProfile(ctx); err != nil && !errors.Is(err, errNoProfileSource) {
		m.log.Warn("Could not load profile after sign-in", "error", err)
	}
}

var errNoProfileSource = errors.New("no profile source attached")

func (m *Manager) loadProfile(ctx context.Context) (*models.Profile, error) {
	m.mu.Lock()
	fn := m.profileFn
	gen := m.gen
	m.mu.Unlock()
	if fn == nil {
		return nil, errNoProfileSource
	}

	v, err, _ := m.profileGroup.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, err
	}
	p := v.(*models.Profile)

	m.mu.Lock()
	if m.gen == gen && m.session != nil {
		cp := *p
		m.profile = &cp
	}
	m.mu.Unlock()
	return p, nil
}

// mergeUser keeps identity fields the refresh response left out
func mergeUser(refreshed, old *identity.Session) *identity.Session {
	if refreshed.User.ID == uuid.Nil {
		refreshed.User.ID = old.User.ID
	}
	if refreshed.User.Email == "" {
		refreshed.User.Email = old.User.Email
	}
	if refreshed.Token.RefreshToken == "" {
		refreshed.Token.RefreshToken = old.Token.RefreshToken
	}
	return refreshed
}
