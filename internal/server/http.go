package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/leapdb/internal/engine"
)

// SessionHeader carries the session id of an HTTP client.
const SessionHeader = "X-Session-ID"

// maxBody bounds one HTTP request body.
const maxBody = 1 << 20

// Handler returns the HTTP routes:
//
//	GET    /healthz         liveness check
//	POST   /query           execute the statement in the body
//	DELETE /sessions/{id}   forget a session
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.requestLogger,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Post("/query", s.handleQuery)
	r.Delete("/sessions/{id}", s.handleCloseSession)
	return r
}

// handleQuery executes one statement. The X-Session-ID header selects an
// existing session; otherwise a new one is created and its id returned in
// the same header. The status is 200 for [OK] and 422 for [ERROR].
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxBody {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	session, ok := s.engine.Session(r.Header.Get(SessionHeader))
	if !ok {
		session = s.engine.NewSession()
	}

	resp := s.engine.Execute(r.Context(), session, string(body))

	w.Header().Set(SessionHeader, session.ID)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusOf(resp))
	_, _ = io.WriteString(w, resp.String()+"\n")
}

func statusOf(resp *engine.Response) int {
	if resp.OK() {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.engine.Session(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	s.engine.CloseSession(session)
	w.WriteHeader(http.StatusNoContent)
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Duration("duration", time.Since(start)))
	})
}
