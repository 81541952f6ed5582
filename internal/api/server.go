// Package api binds the playback relay, metadata resolver and admission
// control to the HTTP surface consumed by the PWA and the display client.
package api

import (
	"context"
	"net/http"
	"time"

	"mirrorcast/internal/metadata"
	"mirrorcast/internal/metrics"
	"mirrorcast/internal/playback"
	"mirrorcast/internal/ratelimit"
)

// Resolver produces a best-effort metadata record; it never fails.
type Resolver interface {
	Resolve(ctx context.Context, id string) metadata.Video
}

// StatusConfig is the non-secret configuration echoed by /api/status.
type StatusConfig struct {
	APIKeyConfigured       bool `json:"apiKeyConfigured"`
	RateLimitMax           int  `json:"rateLimitMax"`
	RateLimitWindowSeconds int  `json:"rateLimitWindowSeconds"`
}

// Server holds the handler dependencies.
type Server struct {
	relay    *playback.Relay
	resolver Resolver
	limiter  *ratelimit.Limiter
	hub      *Hub
	cfg      StatusConfig
	started  time.Time
}

// NewServer wires the HTTP layer. hub may be nil when no display channel is
// exposed (tests).
func NewServer(relay *playback.Relay, resolver Resolver, limiter *ratelimit.Limiter, hub *Hub, cfg StatusConfig) *Server {
	return &Server{
		relay:    relay,
		resolver: resolver,
		limiter:  limiter,
		hub:      hub,
		cfg:      cfg,
		started:  time.Now(),
	}
}

// Routes builds the full handler tree. Admission control guards the API and
// share-target entry points; the display channel and metrics are exempt.
func (s *Server) Routes() http.Handler {
	guarded := http.NewServeMux()
	guarded.HandleFunc("POST /api/play", s.handlePlay)
	guarded.HandleFunc("POST /api/stop", s.handleStop)
	guarded.HandleFunc("POST /api/control", s.handleControl)
	guarded.HandleFunc("POST /api/options", s.handleOptions)
	guarded.HandleFunc("GET /api/status", s.handleStatus)
	guarded.HandleFunc("POST /api/video-info", s.handleVideoInfo)
	guarded.HandleFunc("POST /api/overlay", s.handleOverlay)
	guarded.HandleFunc("GET /api/health", s.handleHealth)
	guarded.HandleFunc("GET /share-target", s.handleShareTarget)
	guarded.HandleFunc("POST /share-target", s.handleShareTarget)

	root := http.NewServeMux()
	root.Handle("/api/", withAdmission(s.limiter, guarded))
	root.Handle("/share-target", withAdmission(s.limiter, guarded))
	root.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(metrics.Format()))
	})
	if s.hub != nil {
		root.HandleFunc("GET /ws", s.hub.Handle)
	}

	return withRecovery(withLogging(root))
}
