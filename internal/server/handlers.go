package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/balkashynov/studyclock/internal/db"
)

type notesRequest struct {
	Notes string `json:"notes"`
}

type breakRequest struct {
	Seconds *int `json:"seconds"`
}

type subjectRequest struct {
	Name string `json:"name"`
}

func (s *Server) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.store.ListSubjects()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (s *Server) createSubject(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	subject, err := s.store.CreateSubject(req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := s.store.StartSession(mux.Vars(r)["subjectId"], req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) getActiveSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetActiveSession(mux.Vars(r)["subjectId"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// listSessions returns ended sessions started between ?from= and ?to=.
// Both default to the last seven days.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad from timestamp"})
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad to timestamp"})
			return
		}
		to = parsed
	}

	sessions, err := s.store.GetSessionsInRange(from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) addBreakTime(w http.ResponseWriter, r *http.Request) {
	var req breakRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Seconds == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seconds is required"})
		return
	}
	if err := s.store.AddBreakTime(mux.Vars(r)["sessionId"], *req.Seconds); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := s.store.EndSession(mux.Vars(r)["sessionId"], req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// decodeBody accepts an empty body as the zero request.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON body"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, db.ErrSessionActive),
		errors.Is(err, db.ErrSessionEnded),
		errors.Is(err, db.ErrSubjectExists):
		status = http.StatusConflict
	case errors.Is(err, db.ErrInvalid):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
