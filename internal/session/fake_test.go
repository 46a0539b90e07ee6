// ABOUTME: In-memory identity provider used by session tests
// ABOUTME: Counts calls and can be told to fail or block

package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type fakeProvider struct {
	mu          sync.Mutex
	signInErr   error
	refreshErr  error
	signOutErr  error
	pendingSign bool
	ttl         time.Duration
	refreshGate chan struct{}

	signIns  atomic.Int32
	refreshs atomic.Int32
	signOuts atomic.Int32
	issued   atomic.Int32
}

var testUser = identity.User{ID: uuid.MustParse("7f3c2a9e-0d4b-4f5e-9a61-2b8c1d0e6f47"), Email: "ana@example.com"}

func (f *fakeProvider) newSession() *identity.Session {
	n := f.issued.Add(1)
	ttl := f.ttl
	if ttl == 0 {
		ttl = time.Hour
	}
	return &identity.Session{
		Token: &oauth2.Token{
			AccessToken:  "access-" + string(rune('0'+n)),
			RefreshToken: "refresh-" + string(rune('0'+n)),
			Expiry:       time.Now().Add(ttl),
		},
		User: testUser,
	}
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	f.signIns.Add(1)
	f.mu.Lock()
	err := f.signInErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.newSession(), nil
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, name string) (*identity.Session, error) {
	if f.pendingSign {
		return nil, nil
	}
	return f.newSession(), nil
}

func (f *fakeProvider) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	f.refreshs.Add(1)
	if f.refreshGate != nil {
		<-f.refreshGate
	}
	f.mu.Lock()
	err := f.refreshErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s := f.newSession()
	s.Token.Expiry = time.Now().Add(time.Hour)
	s.User = identity.User{}
	return s, nil
}

func (f *fakeProvider) SignOut(ctx context.Context, s *identity.Session) error {
	f.signOuts.Add(1)
	return f.signOutErr
}

func (f *fakeProvider) Name() string { return "fake" }

var errRejected = &apierr.Error{Kind: apierr.KindAuth, Status: 400, Message: "Invalid login credentials"}

// recorder collects transitions in delivery order
type recorder struct {
	mu  sync.Mutex
	got []Transition
}

func (r *recorder) listen(t Transition) {
	r.mu.Lock()
	r.got = append(r.got, t)
	r.mu.Unlock()
}

func (r *recorder) events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.got))
	for i, t := range r.got {
		out[i] = t.Event
	}
	return out
}

// memStore is an in-memory Store
type memStore struct {
	mu sync.Mutex
	s  *identity.Session
}

func (m *memStore) Load() (*identity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *memStore) Save(s *identity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
