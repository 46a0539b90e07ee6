// ABOUTME: Tests for the session manager
// ABOUTME: Covers transitions, notification order, refresh dedup and 401 expiry

package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/logger"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

func newTestManager(p *fakeProvider, store Store) *Manager {
	return NewManager(p, Options{Store: store, Logger: logger.Discard()})
}

func TestSignInNotifiesBeforeReturnAndLoadsProfileOnce(t *testing.T) {
	m := newTestManager(&fakeProvider{}, nil)

	var profileCalls atomic.Int32
	var order []string
	m.SetProfileSource(func(ctx context.Context) (*models.Profile, error) {
		profileCalls.Add(1)
		order = append(order, "profile")
		return &models.Profile{Name: "Ana"}, nil
	})
	m.Subscribe(func(tr Transition) { order = append(order, "listener:"+tr.Event.String()) })

	user, err := m.SignIn(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("unexpected user %+v", user)
	}
	if !slices.Equal(order, []string{"listener:signed_in", "profile"}) {
		t.Errorf("unexpected order %v", order)
	}
	if profileCalls.Load() != 1 {
		t.Errorf("expected exactly one profile fetch, got %d", profileCalls.Load())
	}

	p, err := m.Profile(context.Background())
	if err != nil || p.Name != "Ana" {
		t.Fatalf("expected cached profile, got %v %v", p, err)
	}
	if profileCalls.Load() != 1 {
		t.Error("derived profile should be served without another fetch")
	}
}

func TestSignInProfileFailureDoesNotFailSignIn(t *testing.T) {
	m := newTestManager(&fakeProvider{}, nil)
	m.SetProfileSource(func(ctx context.Context) (*models.Profile, error) {
		return nil, &apierr.Error{Kind: apierr.KindServer, Status: 500}
	})

	if _, err := m.SignIn(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("expected sign-in to succeed, got %v", err)
	}
	if _, ok := m.User(); !ok {
		t.Error("expected active session")
	}
}

func TestSignInFailureLeavesExistingSession(t *testing.T) {
	p := &fakeProvider{}
	m := newTestManager(p, nil)
	ctx := context.Background()

	m.SignIn(ctx, "ana@example.com", "secret")
	before, _ := m.Current()

	rec := &recorder{}
	m.Subscribe(rec.listen)
	p.signInErr = errRejected

	_, err := m.SignIn(ctx, "ana@example.com", "wrong")
	if apierr.KindOf(err) != apierr.KindAuth {
		t.Errorf("expected auth error, got %v", err)
	}
	after, ok := m.Current()
	if !ok || after.AccessToken() != before.AccessToken() {
		t.Error("existing session must be untouched by a failed sign-in")
	}
	if len(rec.events()) != 0 {
		t.Errorf("expected no notifications, got %v", rec.events())
	}
}

func TestListenersRunInRegistrationOrder(t *testing.T) {
	m := newTestManager(&fakeProvider{}, nil)

	var calls []int
	for i := 1; i <= 3; i++ {
		i := i
		m.Subscribe(func(Transition) { calls = append(calls, i) })
	}
	unsub := m.Subscribe(func(Transition) { calls = append(calls, 4) })
	unsub()
	unsub()

	m.SignIn(context.Background(), "ana@example.com", "secret")
	if !slices.Equal(calls, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", calls)
	}
}

func TestSignOutIsIdempotent(t *testing.T) {
	p := &fakeProvider{}
	m := newTestManager(p, nil)
	rec := &recorder{}
	m.Subscribe(rec.listen)
	ctx := context.Background()

	if err := m.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() without session: %v", err)
	}
	m.SignIn(ctx, "ana@example.com", "secret")
	genIn := m.Generation()

	if err := m.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if err := m.SignOut(ctx); err != nil {
		t.Fatalf("second SignOut() error: %v", err)
	}

	if !slices.Equal(rec.events(), []Event{EventSignedIn, EventSignedOut}) {
		t.Errorf("unexpected events %v", rec.events())
	}
	if p.signOuts.Load() != 1 {
		t.Errorf("expected one remote revoke, got %d", p.signOuts.Load())
	}
	if m.Generation() != genIn+1 {
		t.Errorf("expected generation to advance once, got %d -> %d", genIn, m.Generation())
	}
	if _, err := m.Credential(ctx); !errors.Is(err, apierr.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if _, err := m.Profile(ctx); !errors.Is(err, apierr.ErrNoSession) {
		t.Errorf("expected profile cleared, got %v", err)
	}
}

func TestSignOutRemoteFailureStillClearsLocally(t *testing.T) {
	p := &fakeProvider{signOutErr: errors.New("connection refused")}
	m := newTestManager(p, nil)
	m.SignIn(context.Background(), "ana@example.com", "secret")

	err := m.SignOut(context.Background())
	if err == nil {
		t.Error("expected revoke error to be reported")
	}
	if _, ok := m.User(); ok {
		t.Error("expected local session cleared")
	}
}

func TestExpireConcurrentOnlyOneTransition(t *testing.T) {
	m := newTestManager(&fakeProvider{}, nil)
	m.SignIn(context.Background(), "ana@example.com", "secret")
	token, _ := m.Credential(context.Background())

	rec := &recorder{}
	m.Subscribe(rec.listen)

	var wg sync.WaitGroup
	var ended atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Expire(token) {
				ended.Add(1)
			}
		}()
	}
	wg.Wait()

	if ended.Load() != 1 {
		t.Errorf("expected exactly one Expire to end the session, got %d", ended.Load())
	}
	if !slices.Equal(rec.events(), []Event{EventSignedOut}) {
		t.Errorf("expected one sign-out notification, got %v", rec.events())
	}
	if rec.got[0].Reason != ReasonExpired {
		t.Errorf("expected expired reason, got %s", rec.got[0].Reason)
	}
}

func TestExpireWithStaleTokenIsNoop(t *testing.T) {
	m := newTestManager(&fakeProvider{}, nil)
	ctx := context.Background()
	m.SignIn(ctx, "ana@example.com", "secret")
	old, _ := m.Credential(ctx)

	m.SignIn(ctx, "ana@example.com", "secret")
	if m.Expire(old) {
		t.Error("a 401 for a replaced token must not end the new session")
	}
	if _, ok := m.User(); !ok {
		t.Error("expected session kept")
	}
}

func TestCredentialRefreshIsDeduplicated(t *testing.T) {
	p := &fakeProvider{ttl: 10 * time.Second, refreshGate: make(chan struct{})}
	m := newTestManager(p, nil)
	ctx := context.Background()
	m.SignIn(ctx, "ana@example.com", "secret")

	rec := &recorder{}
	m.Subscribe(rec.listen)

	var wg sync.WaitGroup
	tokens := make([]string, 5)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := m.Credential(ctx)
			if err != nil {
				t.Errorf("Credential() error: %v", err)
			}
			tokens[i] = tok
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(p.refreshGate)
	wg.Wait()

	if p.refreshs.Load() != 1 {
		t.Errorf("expected one refresh, got %d", p.refreshs.Load())
	}
	for _, tok := range tokens {
		if tok != tokens[0] || tok == "access-1" {
			t.Errorf("expected all callers to get the refreshed token, got %v", tokens)
			break
		}
	}
	if !slices.Equal(rec.events(), []Event{EventRefreshed}) {
		t.Errorf("expected one refreshed event, got %v", rec.events())
	}
	u, _ := m.User()
	if u != testUser {
		t.Errorf("refresh must keep the user, got %+v", u)
	}
}

func TestCredentialRefreshRejectedSignsOut(t *testing.T) {
	p := &fakeProvider{ttl: 10 * time.Second}
	m := newTestManager(p, nil)
	ctx := context.Background()
	m.SignIn(ctx, "ana@example.com", "secret")
	p.refreshErr = errRejected

	rec := &recorder{}
	m.Subscribe(rec.listen)

	if _, err := m.Credential(ctx); !apierr.IsAuth(err) {
		t.Errorf("expected auth error, got %v", err)
	}
	if !slices.Equal(rec.events(), []Event{EventSignedOut}) {
		t.Errorf("expected sign-out, got %v", rec.events())
	}
}

func TestCredentialRefreshNetworkErrorKeepsSession(t *testing.T) {
	p := &fakeProvider{ttl: 10 * time.Second}
	m := newTestManager(p, nil)
	ctx := context.Background()
	m.SignIn(ctx, "ana@example.com", "secret")
	p.refreshErr = &apierr.Error{Kind: apierr.KindNetwork, Message: "request timed out"}

	if _, err := m.Credential(ctx); apierr.KindOf(err) != apierr.KindNetwork {
		t.Errorf("expected network error, got %v", err)
	}
	if _, ok := m.User(); !ok {
		t.Error("expected session kept after a network failure")
	}
}

func TestInitRestoresPersistedSession(t *testing.T) {
	p := &fakeProvider{}
	store := &memStore{}
	first := newTestManager(p, store)
	first.SignIn(context.Background(), "ana@example.com", "secret")

	second := newTestManager(p, store)
	rec := &recorder{}
	second.Subscribe(rec.listen)
	if err := second.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	u, ok := second.User()
	if !ok || u != testUser {
		t.Fatalf("expected restored user, got %+v %v", u, ok)
	}
	if len(rec.got) != 1 || rec.got[0].Reason != ReasonRestored {
		t.Errorf("expected restored sign-in event, got %+v", rec.got)
	}
	if p.refreshs.Load() != 0 {
		t.Error("fresh session should not be refreshed")
	}
}

func TestInitRefreshesExpiredSession(t *testing.T) {
	p := &fakeProvider{ttl: -time.Minute}
	store := &memStore{}
	store.Save(p.newSession())

	m := newTestManager(p, store)
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if p.refreshs.Load() != 1 {
		t.Errorf("expected refresh on restore, got %d", p.refreshs.Load())
	}
	saved, _ := store.Load()
	cur, _ := m.Current()
	if saved.AccessToken() != cur.AccessToken() {
		t.Error("expected refreshed session persisted")
	}
}

func TestInitDiscardsRejectedSession(t *testing.T) {
	p := &fakeProvider{ttl: -time.Minute, refreshErr: errRejected}
	store := &memStore{}
	store.Save(p.newSession())

	m := newTestManager(p, store)
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if _, ok := m.User(); ok {
		t.Error("expected no session")
	}
	if s, _ := store.Load(); s != nil {
		t.Error("expected persisted session removed")
	}
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	pending := newTestManager(&fakeProvider{pendingSign: true}, nil)
	res, err := pending.SignUp(ctx, "new@example.com", "secret", "New")
	if err != nil || !res.ConfirmationPending {
		t.Fatalf("expected pending confirmation, got %+v %v", res, err)
	}
	if _, ok := pending.User(); ok {
		t.Error("pending sign-up must not install a session")
	}

	confirmed := newTestManager(&fakeProvider{}, nil)
	res, err = confirmed.SignUp(ctx, "new@example.com", "secret", "New")
	if err != nil || res.ConfirmationPending {
		t.Fatalf("expected immediate session, got %+v %v", res, err)
	}
	if _, ok := confirmed.User(); !ok {
		t.Error("expected active session")
	}
}

func TestDisposeStopsNotifications(t *testing.T) {
	m := newTestManager(&fakeProvider{}, nil)
	rec := &recorder{}
	m.Subscribe(rec.listen)
	m.Dispose()

	m.SignIn(context.Background(), "ana@example.com", "secret")
	m.Subscribe(rec.listen)
	m.SignOut(context.Background())

	if len(rec.events()) != 0 {
		t.Errorf("expected no notifications after Dispose, got %v", rec.events())
	}
}

func TestProfileSourceRespectsGeneration(t *testing.T) {
	m := newTestManager(&fakeProvider{}, nil)
	ctx := context.Background()
	m.SignIn(ctx, "ana@example.com", "secret")

	m.SetProfileSource(func(ctx context.Context) (*models.Profile, error) {
		m.SignOut(ctx)
		return &models.Profile{Name: "Ana"}, nil
	})
	m.Profile(ctx)

	m.SetProfileSource(func(ctx context.Context) (*models.Profile, error) {
		return &models.Profile{Name: "Fresh"}, nil
	})
	m.SignIn(ctx, "ana@example.com", "secret")
	p, err := m.Profile(ctx)
	if err != nil || p.Name != "Fresh" {
		t.Errorf("profile from an ended session must not be kept, got %+v %v", p, err)
	}
}
