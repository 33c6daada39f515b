package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/studyclock/internal/chronometer"
	"github.com/balkashynov/studyclock/internal/db"
	"github.com/balkashynov/studyclock/internal/server"
)

func newTestServer(t *testing.T) (string, *db.Store) {
	t.Helper()
	store, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ts := httptest.NewServer(server.New(store, slog.New(slog.NewTextHandler(io.Discard, nil))).Router())
	t.Cleanup(ts.Close)
	return ts.URL, store
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	full := append([]string{"--api-url", url, "--config", filepath.Join(t.TempDir(), "none.yaml")}, args...)
	rootCmd.SetArgs(full)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSubjectCommands(t *testing.T) {
	url, _ := newTestServer(t)

	out, err := run(t, url, "subject", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No subjects found")

	out, err = run(t, url, "subject", "add", "Linear", "Algebra")
	require.NoError(t, err)
	assert.Contains(t, out, `Added subject "Linear Algebra"`)

	out, err = run(t, url, "subject", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Linear Algebra")
}

func TestStatusAndStop(t *testing.T) {
	url, store := newTestServer(t)
	subject, err := store.CreateSubject("Statistics")
	require.NoError(t, err)

	out, err := run(t, url, "status", "statistics")
	require.NoError(t, err)
	assert.Contains(t, out, "No open session for Statistics")

	session, err := store.StartSession(subject.ID, "")
	require.NoError(t, err)
	require.NoError(t, store.AddBreakTime(session.ID, 61))

	out, err = run(t, url, "status", "Statistics")
	require.NoError(t, err)
	assert.Contains(t, out, session.ID)
	assert.Contains(t, out, "Break: 01:01")

	out, err = run(t, url, "stop", subject.ID, "--notes", "wrapped up")
	require.NoError(t, err)
	assert.Contains(t, out, "Ended session for Statistics")

	ended, err := store.GetSession(session.ID)
	require.NoError(t, err)
	assert.False(t, ended.Active())
	assert.Equal(t, "wrapped up", ended.Notes)

	out, err = run(t, url, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Statistics")
	assert.Contains(t, out, "wrapped up")
}

func TestHistoryTruncatesNamesByWidth(t *testing.T) {
	url, store := newTestServer(t)
	subject, err := store.CreateSubject("Теория вероятностей и математическая статистика")
	require.NoError(t, err)
	session, err := store.StartSession(subject.ID, "")
	require.NoError(t, err)
	_, err = store.EndSession(session.ID, "")
	require.NoError(t, err)

	out, err := run(t, url, "history")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "Теория вероятностей... ")
}

func TestUnknownSubject(t *testing.T) {
	url, _ := newTestServer(t)
	_, err := run(t, url, "status", "Geology")
	assert.ErrorContains(t, err, `subject "Geology" not found`)
}

func TestRecoverOrStart(t *testing.T) {
	url, store := newTestServer(t)
	subject, err := store.CreateSubject("Music Theory")
	require.NoError(t, err)
	cfg.APIURL = url
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	var out bytes.Buffer
	started := 0
	chrono := newRegistry(newClient(), chronometer.Hooks{
		SessionStarted: func(sessionID, subjectID string) { started++ },
	}).For(subject.ID)

	require.NoError(t, recoverOrStart(context.Background(), &out, chrono, "scales"))
	assert.Equal(t, 1, started)
	active, err := store.GetActiveSession(subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "scales", active.Notes)

	// a second process picks the session up instead of starting another
	other := newRegistry(newClient(), chronometer.Hooks{}).For(subject.ID)
	require.NoError(t, recoverOrStart(context.Background(), &out, other, ""))
	assert.Contains(t, out.String(), "Picked up the open session")
	assert.Equal(t, active.ID, other.Snapshot(active.StartTime).SessionID)
}
