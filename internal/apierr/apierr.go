// ABOUTME: Error taxonomy shared by the identity, session and data access layers
// ABOUTME: Classifies failures as network, auth, validation, not-found or server errors

package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind distinguishes failure categories callers react to differently
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindAuth
	KindValidation
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// ErrNoSession is returned when an operation needs a session and none is active.
// No request is dispatched in that case.
var ErrNoSession = &Error{Kind: KindAuth, Message: "not signed in"}

// ErrUnsupported is returned by identity providers for operations they cannot perform
var ErrUnsupported = errors.New("operation not supported by identity provider")

// Error is a classified failure from a remote call or a local precondition
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNoSession) match copies carrying an Op
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t != ErrNoSession {
		return false
	}
	return e.Kind == KindAuth && e.Status == 0 && e.Message == ErrNoSession.Message
}

// NoSession returns ErrNoSession annotated with the operation that needed it
func NoSession(op string) error {
	return &Error{Kind: KindAuth, Op: op, Message: ErrNoSession.Message}
}

// KindFromStatus maps an HTTP status code to a failure kind
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// FromStatus builds an error for a non-2xx response
func FromStatus(op string, status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("backend returned status %d", status)
	}
	return &Error{Kind: KindFromStatus(status), Op: op, Status: status, Message: message}
}

// Network wraps a transport failure, keeping the cancel/timeout wording of the CLI
func Network(ctx context.Context, op, target string, err error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return &Error{Kind: KindNetwork, Op: op, Message: "request canceled", Err: ctx.Err()}
	case errors.Is(ctx.Err(), context.DeadlineExceeded), isTimeout(err):
		return &Error{Kind: KindNetwork, Op: op, Message: "request timed out", Err: err}
	default:
		return &Error{Kind: KindNetwork, Op: op, Message: fmt.Sprintf("cannot connect to %s", target), Err: err}
	}
}

// Validation builds a local validation failure
func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, KindUnknown when err is not classified
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, 0 when there is none
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsAuth reports whether err is an authentication failure, including ErrNoSession
func IsAuth(err error) bool { return KindOf(err) == KindAuth }

// IsUnauthorized reports whether the backend rejected the credential with a 401
func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }

// IsNotFound reports whether err is a not-found failure
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
