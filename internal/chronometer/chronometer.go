// Package chronometer tracks study and break time for one subject against a
// server-owned session record.
package chronometer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/balkashynov/studyclock/internal/sessionclient"
	"github.com/balkashynov/studyclock/internal/timeacct"
)

// Option configures a Chronometer.
type Option func(*Chronometer)

// WithClock injects the time source used by Pause, Resume and Stop.
func WithClock(clock Clock) Option {
	return func(c *Chronometer) { c.clock = clock }
}

// WithLogger sets the logger for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chronometer) { c.logger = logger }
}

// WithHooks registers the owner's signal handlers.
func WithHooks(hooks Hooks) Option {
	return func(c *Chronometer) { c.hooks = hooks }
}

// Chronometer is the timer state machine for a single subject.
//
// States move idle -> loading -> running <-> paused -> loading -> idle.
// The loading state is held for the duration of every remote call so that
// a second start, stop or recovery is rejected instead of queued. The lock
// is never held across a call to the client.
type Chronometer struct {
	mu     sync.Mutex
	breaks sync.WaitGroup // break submissions started by Resume
	client sessionclient.Client
	clock  Clock
	logger *slog.Logger
	hooks  Hooks

	subjectID string
	disabled  bool

	state                   timeacct.State
	sessionID               string
	sessionStart            time.Time
	accumulatedPause        time.Duration
	pauseStart              time.Time
	accumulatedBreakSeconds int64
}

// New creates an idle chronometer for subjectID.
func New(subjectID string, client sessionclient.Client, opts ...Option) *Chronometer {
	c := &Chronometer{
		client:    client,
		clock:     realClock{},
		logger:    slog.Default(),
		subjectID: subjectID,
		state:     timeacct.StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubjectID returns the subject this chronometer tracks.
func (c *Chronometer) SubjectID() string {
	return c.subjectID
}

// SetDisabled blocks or allows Start.
func (c *Chronometer) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

// State returns the current state.
func (c *Chronometer) State() timeacct.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the timer as seen at now.
func (c *Chronometer) Snapshot(now time.Time) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:                   c.state,
		SubjectID:               c.subjectID,
		SessionID:               c.sessionID,
		SessionStart:            c.sessionStart,
		PauseStart:              c.pauseStart,
		AccumulatedPause:        c.accumulatedPause,
		AccumulatedBreakSeconds: c.accumulatedBreakSeconds,
		ElapsedSeconds:          c.elapsedLocked(now),
		BreakSeconds:            timeacct.TotalBreakSeconds(c.accumulatedBreakSeconds, now, c.pauseStart, c.state),
		Disabled:                c.disabled,
	}
}

// Start opens a new session on the server. It is a no-op while a session is
// already running or paused. On failure the chronometer is back to idle and
// the returned error is a StartFailed *Error.
func (c *Chronometer) Start(ctx context.Context, notes string) error {
	c.mu.Lock()
	switch {
	case c.disabled:
		c.mu.Unlock()
		return ErrDisabled
	case c.subjectID == "":
		c.mu.Unlock()
		return ErrNoSubject
	case c.state == timeacct.StateLoading:
		c.mu.Unlock()
		return ErrBusy
	case c.state.HasSession():
		c.mu.Unlock()
		return nil
	}
	c.state = timeacct.StateLoading
	subjectID := c.subjectID
	c.mu.Unlock()

	session, err := c.client.StartSession(ctx, subjectID, notes)

	c.mu.Lock()
	if err != nil {
		c.resetLocked()
		c.mu.Unlock()
		return &Error{Kind: StartFailed, Err: err}
	}
	c.state = timeacct.StateRunning
	c.sessionID = session.ID
	c.sessionStart = session.StartTime
	c.accumulatedPause = 0
	c.pauseStart = time.Time{}
	c.accumulatedBreakSeconds = 0
	c.mu.Unlock()

	if c.hooks.SessionStarted != nil {
		c.hooks.SessionStarted(session.ID, subjectID)
	}
	return nil
}

// Pause stops counting study time locally. It reports whether the
// chronometer moved to paused.
func (c *Chronometer) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != timeacct.StateRunning {
		return false
	}
	c.pauseStart = c.clock.Now()
	c.state = timeacct.StatePaused
	return true
}

// Resume folds the completed pause into the accumulators, returns to
// running and submits the pause as break time. A failed submission is
// logged and otherwise ignored. It reports whether a transition happened.
func (c *Chronometer) Resume(ctx context.Context) bool {
	c.mu.Lock()
	if c.state != timeacct.StatePaused {
		c.mu.Unlock()
		return false
	}
	breakSeconds := c.closePauseLocked(c.clock.Now())
	c.state = timeacct.StateRunning
	sessionID := c.sessionID
	c.breaks.Add(1)
	c.mu.Unlock()

	defer c.breaks.Done()
	c.submitBreak(ctx, sessionID, breakSeconds)
	return true
}

// Stop ends the session on the server. A pause in progress is closed and
// submitted first, and break submissions still in flight from Resume are
// waited for before the session is ended. On success the chronometer is idle again; on failure it
// returns to running (never paused) and the error is an EndFailed *Error.
func (c *Chronometer) Stop(ctx context.Context, notes string) (*Summary, error) {
	c.mu.Lock()
	if c.state == timeacct.StateLoading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if !c.state.HasSession() {
		c.mu.Unlock()
		return nil, ErrNoSession
	}

	now := c.clock.Now()
	var inFlightBreak int64
	if c.state == timeacct.StatePaused {
		inFlightBreak = c.closePauseLocked(now)
	}
	c.state = timeacct.StateLoading
	sessionID := c.sessionID
	studySeconds := timeacct.ElapsedStudySeconds(now, c.sessionStart, c.accumulatedPause, time.Time{}, timeacct.StateRunning)
	breakSeconds := c.accumulatedBreakSeconds
	c.mu.Unlock()

	c.submitBreak(ctx, sessionID, inFlightBreak)
	c.breaks.Wait()

	ended, err := c.client.EndSession(ctx, sessionID, notes)

	c.mu.Lock()
	if err != nil {
		c.state = timeacct.StateRunning
		c.mu.Unlock()
		return nil, &Error{Kind: EndFailed, Err: err}
	}
	c.resetLocked()
	c.mu.Unlock()

	summary := Summary{
		Session:      ended,
		StudySeconds: studySeconds,
		BreakSeconds: breakSeconds,
	}
	if c.hooks.SessionEnded != nil {
		c.hooks.SessionEnded(summary)
	}
	return &summary, nil
}

// Tick recomputes elapsed study time at now and emits it while running.
// It never changes state and never calls the server.
func (c *Chronometer) Tick(now time.Time) {
	c.mu.Lock()
	if c.state != timeacct.StateRunning {
		c.mu.Unlock()
		return
	}
	elapsed := c.elapsedLocked(now)
	c.mu.Unlock()

	if c.hooks.TimeUpdated != nil {
		c.hooks.TimeUpdated(elapsed)
	}
}

// Run ticks every interval until ctx is done.
func (c *Chronometer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(c.clock.Now())
		}
	}
}

// closePauseLocked moves the pause in progress into the accumulators and
// returns its whole seconds.
func (c *Chronometer) closePauseLocked(now time.Time) int64 {
	interval := now.Sub(c.pauseStart)
	if interval < 0 {
		interval = 0
	}
	seconds := timeacct.IntervalSeconds(interval)
	c.accumulatedPause += interval
	c.accumulatedBreakSeconds += seconds
	c.pauseStart = time.Time{}
	return seconds
}

func (c *Chronometer) submitBreak(ctx context.Context, sessionID string, seconds int64) {
	if seconds <= 0 {
		return
	}
	if err := c.client.AddBreakTime(ctx, sessionID, int(seconds)); err != nil {
		c.logger.Warn("break time not recorded",
			"error", &Error{Kind: BreakSubmitFailed, Err: err},
			"session", sessionID,
			"seconds", seconds)
	}
}

func (c *Chronometer) elapsedLocked(now time.Time) int64 {
	return timeacct.ElapsedStudySeconds(now, c.sessionStart, c.accumulatedPause, c.pauseStart, c.state)
}

func (c *Chronometer) resetLocked() {
	c.state = timeacct.StateIdle
	c.sessionID = ""
	c.sessionStart = time.Time{}
	c.accumulatedPause = 0
	c.pauseStart = time.Time{}
	c.accumulatedBreakSeconds = 0
}
