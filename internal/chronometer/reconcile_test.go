package chronometer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/studyclock/internal/models"
	"github.com/balkashynov/studyclock/internal/sessionclient"
	"github.com/balkashynov/studyclock/internal/timeacct"
)

func TestRecoverAdoptsActiveSessionAsRunning(t *testing.T) {
	start := t0.Add(-10 * time.Minute)
	client := &fakeClient{active: &models.StudySession{
		ID:                   "sess-9",
		SubjectID:            "math",
		StartTime:            start,
		BreakDurationSeconds: 120,
	}}
	c, clock, rec := newTestChronometer(client)

	adopted, err := c.Recover(context.Background())
	require.NoError(t, err)
	assert.True(t, adopted)

	snap := c.Snapshot(clock.Now())
	assert.Equal(t, timeacct.StateRunning, snap.State)
	assert.Equal(t, "sess-9", snap.SessionID)
	assert.Equal(t, start, snap.SessionStart)
	assert.Equal(t, int64(120), snap.AccumulatedBreakSeconds)
	assert.Equal(t, time.Duration(0), snap.AccumulatedPause)
	// the server's break seconds are a baseline only, all wall time counts as study
	assert.Equal(t, int64(600), snap.ElapsedSeconds)
	assert.Empty(t, rec.started)

	_, err = c.Recover(context.Background())
	assert.ErrorIs(t, err, ErrSessionInProgress)
}

func TestRecoverIgnoresOtherSubject(t *testing.T) {
	client := &fakeClient{active: &models.StudySession{ID: "sess-9", SubjectID: "physics", StartTime: t0}}
	c, clock, _ := newTestChronometer(client)

	adopted, err := c.Recover(context.Background())
	require.NoError(t, err)
	assert.False(t, adopted)
	snap := c.Snapshot(clock.Now())
	assert.Equal(t, timeacct.StateIdle, snap.State)
	assert.Empty(t, snap.SessionID)
}

func TestRecoverIgnoresEndedSession(t *testing.T) {
	end := t0
	client := &fakeClient{active: &models.StudySession{ID: "sess-9", SubjectID: "math", StartTime: t0.Add(-time.Hour), EndTime: &end}}
	c, _, _ := newTestChronometer(client)

	adopted, err := c.Recover(context.Background())
	require.NoError(t, err)
	assert.False(t, adopted)
	assert.Equal(t, timeacct.StateIdle, c.State())
}

func TestRecoverNothingFound(t *testing.T) {
	c, _, _ := newTestChronometer(&fakeClient{})
	adopted, err := c.Recover(context.Background())
	require.NoError(t, err)
	assert.False(t, adopted)
	assert.Equal(t, timeacct.StateIdle, c.State())
}

func TestRecoverFailureDegradesToIdle(t *testing.T) {
	client := &fakeClient{activeErr: &sessionclient.NetworkError{Op: "get active session", Err: errors.New("connection refused")}}
	c, _, _ := newTestChronometer(client)

	adopted, err := c.Recover(context.Background())
	assert.False(t, adopted)
	assert.True(t, IsKind(err, RecoveryFailed))
	assert.Equal(t, timeacct.StateIdle, c.State())

	// a fresh start is still possible
	require.NoError(t, c.Start(context.Background(), ""))
	assert.Equal(t, timeacct.StateRunning, c.State())
}

func TestRecoverRequiresSubject(t *testing.T) {
	_, err := New("", &fakeClient{}).Recover(context.Background())
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestBecameActiveRecomputesFromTimestamps(t *testing.T) {
	client := &fakeClient{}
	c, clock, rec := newTestChronometer(client)
	require.NoError(t, c.Start(context.Background(), ""))

	c.HandleLifecycle(BecameInactive, clock.Set(5))
	assert.Empty(t, rec.updates)

	// three hours in the background, no ticks in between
	c.HandleLifecycle(BecameActive, clock.Set(3*3600))
	assert.Equal(t, []int64{3 * 3600}, rec.updates)
}

func TestRegistryKeepsOneTimerPerSubject(t *testing.T) {
	client := &fakeClient{}
	registry := NewRegistry(client, WithClock(&manualClock{now: t0}))

	math := registry.For("math")
	assert.Same(t, math, registry.For("math"))

	physics := registry.For("physics")
	assert.NotSame(t, math, physics)
	assert.Equal(t, []string{"math", "physics"}, registry.Subjects())

	require.NoError(t, math.Start(context.Background(), ""))
	assert.Equal(t, timeacct.StateRunning, math.State())
	assert.Equal(t, timeacct.StateIdle, physics.State())
}
