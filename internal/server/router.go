// Package server exposes the session store over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/balkashynov/studyclock/internal/db"
)

// Server serves the study session API
type Server struct {
	store  *db.Store
	logger *slog.Logger
}

// New creates a server backed by store
func New(store *db.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, logger: logger}
}

// Router returns the API routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK\n"))
	}).Methods("GET")

	r.HandleFunc("/subjects", s.listSubjects).Methods("GET")
	r.HandleFunc("/subjects", s.createSubject).Methods("POST")
	r.HandleFunc("/subjects/{subjectId}/sessions", s.startSession).Methods("POST")
	r.HandleFunc("/subjects/{subjectId}/sessions/active", s.getActiveSession).Methods("GET")
	r.HandleFunc("/sessions", s.listSessions).Methods("GET")
	r.HandleFunc("/sessions/{sessionId}/breaks", s.addBreakTime).Methods("POST")
	r.HandleFunc("/sessions/{sessionId}/end", s.endSession).Methods("POST")

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
