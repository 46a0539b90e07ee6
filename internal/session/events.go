// ABOUTME: Session transition events delivered to subscribers
// ABOUTME: Listeners run synchronously in registration order

package session

import "github.com/Bryanads/thecheck-frontend-app/internal/identity"

// Event names a session transition
type Event int

const (
	EventSignedIn Event = iota
	EventSignedOut
	EventRefreshed
)

func (e Event) String() string {
	switch e {
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	case EventRefreshed:
		return "refreshed"
	default:
		return "unknown"
	}
}

// Reasons attached to transitions
const (
	ReasonSignIn         = "sign_in"
	ReasonSignUp         = "sign_up"
	ReasonRestored       = "restored"
	ReasonSignOut        = "sign_out"
	ReasonExpired        = "expired"
	ReasonRefreshRejects = "refresh_rejected"
	ReasonRefreshed      = "refreshed"
)

// Transition describes one state change. Generation is the value after the change.
type Transition struct {
	Event      Event
	Reason     string
	User       identity.User
	Generation uint64
}

// Listener observes transitions. It must not start a transition itself
// from inside the callback.
type Listener func(Transition)

type listenerEntry struct {
	id int
	fn Listener
}
