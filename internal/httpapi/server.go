package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/apistatus/internal/domain"
	"github.com/hamed0406/apistatus/internal/repo"
)

// Registry is the monitor surface the API needs: endpoint lookups and
// the check-now dispatch. Satisfied by *scheduler.Monitor.
type Registry interface {
	EndpointList() []domain.Endpoint
	EndpointID(name string) (int64, bool)
	CheckNow(name string) bool
}

type Server struct {
	Logger  *zap.Logger
	Checks  repo.CheckStore
	Monitor Registry

	// WebDir is the dashboard root; empty disables static serving.
	WebDir string
}

func NewServer(l *zap.Logger, cs repo.CheckStore, m Registry, webDir string) *Server {
	return &Server{Logger: l, Checks: cs, Monitor: m, WebDir: webDir}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/history", s.handleHistory)
	r.Post("/api/check-now", s.handleCheckNow)
	r.Get("/api/live", s.handleLive)

	if s.WebDir != "" {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(s.WebDir, "index.html"))
		})
		fileServer := http.FileServer(http.Dir(filepath.Join(s.WebDir, "static")))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
