// Package fault defines the error kinds exchanged between services and the
// transport layer. Repositories return raw storage errors; services classify
// them into one of these kinds before they cross the service boundary.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// NotFound: a referenced entity does not exist.
	NotFound Kind = iota + 1
	// InvalidState: the entity exists but does not accept the operation.
	InvalidState
	// Conflict: the operation collides with existing state.
	Conflict
	// InvalidInput: the request violates a domain constraint.
	InvalidInput
	// Unauthorized: missing or bad credentials.
	Unauthorized
	// Storage: unclassified failure in the store or an upstream client.
	// The wrapped cause is for server-side logs only and must not reach
	// callers.
	Storage
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, or Storage if err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Storage
}

func IsKind(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// Message returns the client-safe message for err. Storage errors and
// unclassified errors collapse to a generic message.
func Message(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind != Storage {
		return fe.Msg
	}
	return "internal server error"
}
