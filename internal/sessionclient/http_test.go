package sessionclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/studyclock/internal/db"
	"github.com/balkashynov/studyclock/internal/server"
)

func newAPI(t *testing.T) (*HTTPClient, *db.Store) {
	t.Helper()
	store, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(server.New(store, logger).Router())
	t.Cleanup(ts.Close)

	return NewHTTPClient(ts.URL, time.Second), store
}

func TestHTTPClientSessionLifecycle(t *testing.T) {
	client, _ := newAPI(t)
	ctx := context.Background()

	subject, err := client.CreateSubject(ctx, "Calculus")
	require.NoError(t, err)

	_, err = client.GetActiveSession(ctx, subject.ID)
	assert.True(t, IsNotFound(err), "got %v", err)

	session, err := client.StartSession(ctx, subject.ID, "limits")
	require.NoError(t, err)
	assert.Equal(t, subject.ID, session.SubjectID)
	assert.False(t, session.StartTime.IsZero())
	require.NotNil(t, session.Subject)
	assert.Equal(t, "Calculus", session.Subject.Name)

	_, err = client.StartSession(ctx, subject.ID, "")
	assert.True(t, IsConflict(err), "got %v", err)

	require.NoError(t, client.AddBreakTime(ctx, session.ID, 90))

	active, err := client.GetActiveSession(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, active.ID)
	assert.Equal(t, 90, active.BreakDurationSeconds)

	ended, err := client.EndSession(ctx, session.ID, "")
	require.NoError(t, err)
	require.NotNil(t, ended.EndTime)

	_, err = client.EndSession(ctx, session.ID, "")
	assert.True(t, IsConflict(err), "got %v", err)

	err = client.AddBreakTime(ctx, session.ID, 5)
	assert.True(t, IsConflict(err), "got %v", err)

	subjects, err := client.ListSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)

	history, err := client.ListSessions(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, session.ID, history[0].ID)
}

func TestHTTPClientValidation(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1", time.Second)
	ctx := context.Background()

	var validation *ValidationError
	_, err := client.StartSession(ctx, "", "")
	assert.ErrorAs(t, err, &validation)
	assert.ErrorAs(t, client.AddBreakTime(ctx, "", 1), &validation)
	assert.ErrorAs(t, client.AddBreakTime(ctx, "abc", -1), &validation)
	_, err = client.EndSession(ctx, " ", "")
	assert.ErrorAs(t, err, &validation)
}

func TestHTTPClientUnknownSubject(t *testing.T) {
	client, _ := newAPI(t)
	_, err := client.StartSession(context.Background(), "nope", "")
	assert.True(t, IsNotFound(err), "got %v", err)
}

func TestHTTPClientNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := NewHTTPClient(url, time.Second)
	_, err := client.StartSession(context.Background(), "subject", "")
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestHTTPClientTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	client := NewHTTPClient(ts.URL, 50*time.Millisecond)
	_, err := client.GetActiveSession(context.Background(), "subject")
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestHTTPClientNormalizesPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"id":`,
		"missing id":        `{"subjectId":"s","startTime":"2026-01-01T10:00:00Z"}`,
		"missing subject":   `{"id":"x","startTime":"2026-01-01T10:00:00Z"}`,
		"bad start":         `{"id":"x","subjectId":"s","startTime":"yesterday"}`,
		"negative break":    `{"id":"x","subjectId":"s","startTime":"2026-01-01T10:00:00Z","breakDurationSeconds":-4}`,
		"subject mismatch":  `{"id":"x","subjectId":"s","startTime":"2026-01-01T10:00:00Z","subject":{"id":"t"}}`,
		"bad end timestamp": `{"id":"x","subjectId":"s","startTime":"2026-01-01T10:00:00Z","endTime":"soon"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, body)
			}))
			defer ts.Close()

			_, err := NewHTTPClient(ts.URL, time.Second).GetActiveSession(context.Background(), "s")
			var serverErr *ServerError
			assert.ErrorAs(t, err, &serverErr)
		})
	}
}

func TestHTTPClientAcceptsLooseNumbers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"x","subjectId":"s","startTime":"2026-01-01T10:00:00Z","breakDurationSeconds":12.7,"extra":true}`)
	}))
	defer ts.Close()

	session, err := NewHTTPClient(ts.URL, time.Second).GetActiveSession(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, 12, session.BreakDurationSeconds)
	assert.Nil(t, session.EndTime)
}

func TestHTTPClientServerFault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	err := NewHTTPClient(ts.URL, time.Second).AddBreakTime(context.Background(), "x", 3)
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusBadGateway, serverErr.Status)
}
