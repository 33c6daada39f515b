// Package sessionclient is the boundary to the remote study-session store.
package sessionclient

import (
	"context"

	"github.com/balkashynov/studyclock/internal/models"
)

// Client is the set of session operations the chronometer depends on.
type Client interface {
	// StartSession opens a session for subjectID. A *ConflictError means an
	// active session already exists for it.
	StartSession(ctx context.Context, subjectID, notes string) (*models.StudySession, error)
	// GetActiveSession returns ErrNotFound when the subject has no open session.
	GetActiveSession(ctx context.Context, subjectID string) (*models.StudySession, error)
	// AddBreakTime is not idempotent: call it once per completed pause.
	AddBreakTime(ctx context.Context, sessionID string, seconds int) error
	// EndSession closes the session. Ending twice is a *ConflictError.
	EndSession(ctx context.Context, sessionID, notes string) (*models.StudySession, error)
}
