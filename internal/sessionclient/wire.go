package sessionclient

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/balkashynov/studyclock/internal/models"
)

// wireSession is the loosely typed payload as received from the server.
type wireSession struct {
	ID                   string       `json:"id"`
	SubjectID            string       `json:"subjectId"`
	StartTime            string       `json:"startTime"`
	EndTime              *string      `json:"endTime"`
	BreakDurationSeconds json.Number  `json:"breakDurationSeconds"`
	Notes                string       `json:"notes"`
	Subject              *wireSubject `json:"subject"`
}

type wireSubject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// normalize validates the payload into the fixed session shape.
// Anything it cannot make sense of is a *ServerError.
func (w wireSession) normalize() (*models.StudySession, error) {
	if strings.TrimSpace(w.ID) == "" {
		return nil, invalidPayload("session id missing")
	}
	if strings.TrimSpace(w.SubjectID) == "" {
		return nil, invalidPayload("session %s has no subjectId", w.ID)
	}

	start, err := parseTimestamp(w.StartTime)
	if err != nil || start.IsZero() {
		return nil, invalidPayload("session %s has bad startTime %q", w.ID, w.StartTime)
	}

	session := &models.StudySession{
		ID:        w.ID,
		SubjectID: w.SubjectID,
		StartTime: start,
		Notes:     w.Notes,
	}

	if w.EndTime != nil && *w.EndTime != "" {
		end, err := parseTimestamp(*w.EndTime)
		if err != nil {
			return nil, invalidPayload("session %s has bad endTime %q", w.ID, *w.EndTime)
		}
		session.EndTime = &end
	}

	breakSeconds, err := parseSeconds(w.BreakDurationSeconds)
	if err != nil {
		return nil, invalidPayload("session %s: %v", w.ID, err)
	}
	session.BreakDurationSeconds = breakSeconds

	if w.Subject != nil {
		subject, err := w.Subject.normalize()
		if err != nil {
			return nil, err
		}
		if subject.ID != session.SubjectID {
			return nil, invalidPayload("session %s subject mismatch", w.ID)
		}
		session.Subject = subject
	}

	return session, nil
}

func (w wireSubject) normalize() (*models.Subject, error) {
	if strings.TrimSpace(w.ID) == "" {
		return nil, invalidPayload("subject id missing")
	}
	subject := &models.Subject{ID: w.ID, Name: w.Name}
	if w.CreatedAt != "" {
		created, err := parseTimestamp(w.CreatedAt)
		if err != nil {
			return nil, invalidPayload("subject %s has bad createdAt %q", w.ID, w.CreatedAt)
		}
		subject.CreatedAt = created
	}
	return subject, nil
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
}

// parseSeconds accepts integers and whole-valued floats; an absent value is zero.
func parseSeconds(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := n.Int64(); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative breakDurationSeconds %d", v)
		}
		return int(v), nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("bad breakDurationSeconds %q", n)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative breakDurationSeconds %q", n)
	}
	return int(math.Floor(f)), nil
}

func invalidPayload(format string, args ...any) error {
	return &ServerError{Message: "invalid payload: " + fmt.Sprintf(format, args...)}
}
