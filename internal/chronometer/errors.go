package chronometer

import (
	"errors"
	"fmt"

	"github.com/balkashynov/studyclock/internal/sessionclient"
)

var (
	// ErrBusy rejects a transition while a start, stop or recovery is in flight.
	ErrBusy = errors.New("another session operation is in progress")
	// ErrDisabled rejects Start while the chronometer is disabled.
	ErrDisabled = errors.New("chronometer is disabled")
	// ErrNoSession is returned by Stop when there is nothing to stop.
	ErrNoSession = errors.New("no active session")
	// ErrSessionInProgress rejects recovery while a session is already tracked.
	ErrSessionInProgress = errors.New("a session is already being tracked")
	// ErrNoSubject is returned when no subject is selected.
	ErrNoSubject = &sessionclient.ValidationError{Field: "subject", Message: "no subject selected"}
)

// Kind classifies failures of remote session operations.
type Kind int

const (
	StartFailed Kind = iota + 1
	EndFailed
	RecoveryFailed
	BreakSubmitFailed
)

func (k Kind) String() string {
	switch k {
	case StartFailed:
		return "start failed"
	case EndFailed:
		return "end failed"
	case RecoveryFailed:
		return "recovery failed"
	case BreakSubmitFailed:
		return "break submit failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a failed remote operation. Err holds the client error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a chronometer *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var chronoErr *Error
	return errors.As(err, &chronoErr) && chronoErr.Kind == kind
}
