package chronometer

import (
	"context"
	"time"

	"github.com/balkashynov/studyclock/internal/sessionclient"
	"github.com/balkashynov/studyclock/internal/timeacct"
)

// Signal is an app lifecycle notification.
type Signal int

const (
	BecameActive Signal = iota
	BecameInactive
)

func (s Signal) String() string {
	if s == BecameActive {
		return "active"
	}
	return "inactive"
}

// Recover adopts the server's active session for the subject, if any.
//
// A recovered session always resumes as running and all time since its
// start counts as study time. The server's break total becomes the local
// baseline.
// It reports whether a session was adopted. A RecoveryFailed error leaves
// the chronometer idle and can be treated as "no active session".
func (c *Chronometer) Recover(ctx context.Context) (bool, error) {
	c.mu.Lock()
	switch {
	case c.subjectID == "":
		c.mu.Unlock()
		return false, ErrNoSubject
	case c.state == timeacct.StateLoading:
		c.mu.Unlock()
		return false, ErrBusy
	case c.state.HasSession():
		c.mu.Unlock()
		return false, ErrSessionInProgress
	}
	c.state = timeacct.StateLoading
	subjectID := c.subjectID
	c.mu.Unlock()

	session, err := c.client.GetActiveSession(ctx, subjectID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()

	if err != nil {
		if sessionclient.IsNotFound(err) {
			return false, nil
		}
		recoveryErr := &Error{Kind: RecoveryFailed, Err: err}
		c.logger.Warn("session recovery failed, starting fresh", "subject", subjectID, "error", recoveryErr)
		return false, recoveryErr
	}

	if session.SubjectID != subjectID || !session.Active() {
		return false, nil
	}

	c.state = timeacct.StateRunning
	c.sessionID = session.ID
	c.sessionStart = session.StartTime
	c.accumulatedBreakSeconds = int64(session.BreakDurationSeconds)
	return true, nil
}

// HandleLifecycle feeds a foreground/background transition into the timer.
// Becoming active re-emits elapsed time computed from timestamps.
func (c *Chronometer) HandleLifecycle(signal Signal, now time.Time) {
	c.logger.Debug("lifecycle", "subject", c.subjectID, "signal", signal.String())
	if signal == BecameActive {
		c.Tick(now)
	}
}
