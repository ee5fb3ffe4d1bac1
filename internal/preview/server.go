// Package preview serves a built site over local HTTP for review.
package preview

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves the static site directory.
type Server struct {
	router chi.Router
	log    *slog.Logger
}

// NewServer configures a preview server over dir.
func NewServer(dir string, log *slog.Logger) *Server {
	s := &Server{log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(log))

	r.Get("/health", s.handleHealth)
	r.Handle("/*", http.FileServer(http.Dir(dir)))

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
