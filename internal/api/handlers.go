package api

import (
	"errors"
	"net/http"
	"time"

	"mirrorcast/internal/metadata"
	"mirrorcast/internal/metrics"
	"mirrorcast/internal/playback"
	"mirrorcast/internal/videoid"
)

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	metrics.IncrPlayRequests()

	var req struct {
		URL string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	videoID, err := s.relay.Play(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"mode":    "embedded",
		"videoId": videoID,
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	metrics.IncrStopRequests()
	s.relay.Stop("api")
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "playback stopped",
	})
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	metrics.IncrControlRequests()

	var req struct {
		Action  string `json:"action"`
		Seconds *int   `json:"seconds"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seconds, err := s.relay.Control(req.Action, req.Seconds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"action":  req.Action,
		"seconds": seconds,
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	metrics.IncrOptionsRequests()

	var req struct {
		Caption *playback.CaptionPatch `json:"caption"`
		Quality *playback.QualityPatch `json:"quality"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, updated := s.relay.SetOptions(req.Caption, req.Quality)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"state":   state,
		"updated": updated,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"state":     s.relay.Status(),
		"config":    s.cfg,
		"timestamp": time.Now().UnixMilli(),
	})
}

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	metrics.IncrVideoInfoRequests()

	var req struct {
		VideoID string `json:"videoId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, ok := videoid.Extract(req.VideoID)
	if !ok {
		writeError(w, http.StatusBadRequest, playback.ErrInvalidReference.Error())
		return
	}

	info := s.resolver.Resolve(r.Context(), id)
	if info.Source == metadata.SourceFallback {
		// Soft degradation: every source failed, hand back the synthetic
		// record so the caller still has something to render.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":       false,
			"error":    "all metadata sources failed",
			"fallback": info,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": info})
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.relay.SetOverlay(req.Action); err != nil {
		if errors.Is(err, playback.ErrInvalidAction) {
			writeError(w, http.StatusBadRequest, "overlay action required")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"status":    "ok",
		"uptime":    int64(time.Since(s.started).Seconds()),
		"timestamp": time.Now().UnixMilli(),
	})
}
