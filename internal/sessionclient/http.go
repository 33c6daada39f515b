package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/balkashynov/studyclock/internal/models"
)

const defaultTimeout = 10 * time.Second

// HTTPClient talks to the studyclock REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the API rooted at baseURL.
// A zero timeout falls back to ten seconds.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type notesRequest struct {
	Notes string `json:"notes,omitempty"`
}

type breakRequest struct {
	Seconds int `json:"seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// StartSession implements Client.
func (c *HTTPClient) StartSession(ctx context.Context, subjectID, notes string) (*models.StudySession, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, &ValidationError{Field: "subject", Message: "no subject selected"}
	}
	var raw wireSession
	path := "/subjects/" + url.PathEscape(subjectID) + "/sessions"
	if err := c.do(ctx, "start session", http.MethodPost, path, notesRequest{Notes: notes}, &raw); err != nil {
		return nil, err
	}
	return raw.normalize()
}

// GetActiveSession implements Client.
func (c *HTTPClient) GetActiveSession(ctx context.Context, subjectID string) (*models.StudySession, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, &ValidationError{Field: "subject", Message: "no subject selected"}
	}
	var raw wireSession
	path := "/subjects/" + url.PathEscape(subjectID) + "/sessions/active"
	if err := c.do(ctx, "get active session", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw.normalize()
}

// AddBreakTime implements Client.
func (c *HTTPClient) AddBreakTime(ctx context.Context, sessionID string, seconds int) error {
	if strings.TrimSpace(sessionID) == "" {
		return &ValidationError{Field: "session", Message: "empty session id"}
	}
	if seconds < 0 {
		return &ValidationError{Field: "seconds", Message: "break time cannot be negative"}
	}
	path := "/sessions/" + url.PathEscape(sessionID) + "/breaks"
	return c.do(ctx, "add break time", http.MethodPost, path, breakRequest{Seconds: seconds}, nil)
}

// EndSession implements Client.
func (c *HTTPClient) EndSession(ctx context.Context, sessionID, notes string) (*models.StudySession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, &ValidationError{Field: "session", Message: "empty session id"}
	}
	var raw wireSession
	path := "/sessions/" + url.PathEscape(sessionID) + "/end"
	if err := c.do(ctx, "end session", http.MethodPost, path, notesRequest{Notes: notes}, &raw); err != nil {
		return nil, err
	}
	session, err := raw.normalize()
	if err != nil {
		return nil, err
	}
	if session.EndTime == nil {
		return nil, &ServerError{Message: "ended session has no endTime"}
	}
	return session, nil
}

// ListSubjects returns every subject known to the server.
func (c *HTTPClient) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var raw []wireSubject
	if err := c.do(ctx, "list subjects", http.MethodGet, "/subjects", nil, &raw); err != nil {
		return nil, err
	}
	subjects := make([]models.Subject, 0, len(raw))
	for _, s := range raw {
		subject, err := s.normalize()
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, *subject)
	}
	return subjects, nil
}

// CreateSubject registers a new subject by name.
func (c *HTTPClient) CreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "subject name is required"}
	}
	var raw wireSubject
	body := map[string]string{"name": name}
	if err := c.do(ctx, "create subject", http.MethodPost, "/subjects", body, &raw); err != nil {
		return nil, err
	}
	return raw.normalize()
}

// ListSessions returns ended sessions that started between from and to.
func (c *HTTPClient) ListSessions(ctx context.Context, from, to time.Time) ([]models.StudySession, error) {
	query := url.Values{}
	query.Set("from", from.UTC().Format(time.RFC3339Nano))
	query.Set("to", to.UTC().Format(time.RFC3339Nano))

	var raw []wireSession
	if err := c.do(ctx, "list sessions", http.MethodGet, "/sessions?"+query.Encode(), nil, &raw); err != nil {
		return nil, err
	}
	sessions := make([]models.StudySession, 0, len(raw))
	for _, s := range raw {
		session, err := s.normalize()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode >= 300 {
		return statusError(op, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServerError{Status: resp.StatusCode, Message: fmt.Sprintf("%s: malformed response: %v", op, err)}
	}
	return nil
}

func statusError(op string, status int, body []byte) error {
	message := http.StatusText(status)
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		message = parsed.Error
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %s: %w", op, message, ErrNotFound)
	case http.StatusConflict:
		return &ConflictError{Message: message}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{Field: "request", Message: message}
	default:
		return &ServerError{Status: status, Message: message}
	}
}
