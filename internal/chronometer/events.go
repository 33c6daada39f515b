package chronometer

import (
	"time"

	"github.com/balkashynov/studyclock/internal/models"
	"github.com/balkashynov/studyclock/internal/timeacct"
)

// Hooks are the signals the chronometer emits toward its owner.
// Nil hooks are skipped. They run without the chronometer lock held.
type Hooks struct {
	SessionStarted func(sessionID, subjectID string)
	SessionEnded   func(summary Summary)
	TimeUpdated    func(elapsedSeconds int64)
}

// Summary describes a session that was just ended.
type Summary struct {
	Session      *models.StudySession
	StudySeconds int64
	BreakSeconds int64
}

// Snapshot is a read-only view of the timer at a given instant.
type Snapshot struct {
	State                   timeacct.State
	SubjectID               string
	SessionID               string
	SessionStart            time.Time
	PauseStart              time.Time
	AccumulatedPause        time.Duration
	AccumulatedBreakSeconds int64
	ElapsedSeconds          int64
	BreakSeconds            int64
	Disabled                bool
}
