// Package server is the presentation web layer: a JSON API over the
// stored-file catalog, an HTML5 player page, and a health endpoint. No
// file bytes move through it — playback goes straight to the backend via
// presigned URLs.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/koustreak/CloudVault/internal/logger"
	"github.com/koustreak/CloudVault/internal/vault"
)

// Server serves the web presentation of the vault.
type Server struct {
	vault      *vault.Vault
	presignTTL time.Duration
	log        *logger.Logger
}

// New builds a Server. presignTTL governs how long web-issued streaming
// links stay valid; the web path uses a longer TTL than the bot path so
// embedded players survive a pause.
func New(v *vault.Vault, presignTTL time.Duration, log *logger.Logger) *Server {
	if presignTTL <= 0 {
		presignTTL = 2 * time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Server{vault: v, presignTTL: presignTTL, log: log}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/api/files", s.handleListFiles)
	r.Get("/api/stream/{id}", s.handleStreamInfo)
	r.Get("/player/{id}", s.handlePlayer)

	return r
}

// requestLogger logs one line per request through the structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int64("status", int64(ww.Status())).
			Dur("duration", time.Since(start)).
			Logger().Info("request")
	})
}
