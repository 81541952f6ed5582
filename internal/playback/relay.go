// Package playback owns the server-side playback state mirror and translates
// caller operations into fire-and-forget commands toward the display client.
package playback

import (
	"log/slog"
	"sync"

	"mirrorcast/internal/metrics"
	"mirrorcast/internal/videoid"
)

// DefaultSeekSeconds is used for rewind/forward when the caller omits a
// seconds value.
const DefaultSeekSeconds = 10

// Control actions accepted by Control.
const (
	ActionPause   = "pause"
	ActionResume  = "resume"
	ActionRewind  = "rewind"
	ActionForward = "forward"
)

// Relay is the single writer of State. All mutation happens under mu so the
// event-loop semantics of the original design hold on a multi-threaded
// runtime.
type Relay struct {
	mu     sync.Mutex
	state  State
	sender Sender
}

// NewRelay creates a relay with the given default caption/quality settings.
// sender may be nil; commands are then discarded.
func NewRelay(caption CaptionState, quality QualityState, sender Sender) *Relay {
	if sender == nil {
		sender = NopSender{}
	}
	return &Relay{
		state:  State{Caption: caption, Quality: quality},
		sender: sender,
	}
}

// Play extracts a video reference from urlOrID, records it as the current
// playback and emits start-playback. The display client begins embedded
// playback asynchronously; Play does not wait for confirmation.
func (r *Relay) Play(urlOrID string) (string, error) {
	id, ok := videoid.Extract(urlOrID)
	if !ok {
		return "", ErrInvalidReference
	}
	watchURL := videoid.WatchURL(id)

	r.mu.Lock()
	r.state.Playing = true
	r.state.LastURL = &watchURL
	r.state.LastVideoID = &id
	r.mu.Unlock()

	cmd := newCommand(KindStartPlayback)
	cmd.VideoID = id
	cmd.URL = watchURL
	r.emit(cmd)

	slog.Info("playback: start", slog.String("videoId", id))
	return id, nil
}

// Stop marks playback stopped and emits stop-playback. The reason is purely
// diagnostic (manual, ended, error, escape, api, module_stop). The last
// url/id are retained for status queries.
func (r *Relay) Stop(reason string) {
	if reason == "" {
		reason = "manual"
	}

	r.mu.Lock()
	r.state.Playing = false
	r.mu.Unlock()

	cmd := newCommand(KindStopPlayback)
	cmd.Reason = reason
	r.emit(cmd)

	slog.Info("playback: stop", slog.String("reason", reason))
}

// Control emits a targeted video-control command. seconds may be nil for the
// default; non-positive values are rejected. Returns the effective seconds
// (0 for pause/resume). Position math stays in the display client, which owns
// the actual player.
func (r *Relay) Control(action string, seconds *int) (int, error) {
	effective := 0
	switch action {
	case ActionPause, ActionResume:
	case ActionRewind, ActionForward:
		effective = DefaultSeekSeconds
		if seconds != nil {
			if *seconds <= 0 {
				return 0, ErrInvalidParameter
			}
			effective = *seconds
		}
	default:
		return 0, ErrInvalidAction
	}

	cmd := newCommand(KindVideoControl)
	cmd.Action = action
	cmd.Seconds = effective
	r.emit(cmd)

	return effective, nil
}

// SetOptions shallow-merges the patches into the caption/quality sub-records
// and emits apply-options only when at least one field changed. Returns the
// post-merge snapshot.
func (r *Relay) SetOptions(cp *CaptionPatch, qp *QualityPatch) (State, bool) {
	r.mu.Lock()
	changed := r.state.Caption.apply(cp)
	if r.state.Quality.apply(qp) {
		changed = true
	}
	snapshot := r.state
	r.mu.Unlock()

	if changed {
		cmd := newCommand(KindApplyOptions)
		caption := snapshot.Caption
		quality := snapshot.Quality
		cmd.Caption = &caption
		cmd.Quality = &quality
		r.emit(cmd)
	}
	return snapshot, changed
}

// SetOverlay emits a set-overlay-mode command for the display surface.
func (r *Relay) SetOverlay(action string) error {
	if action == "" {
		return ErrInvalidAction
	}
	cmd := newCommand(KindSetOverlayMode)
	cmd.Action = action
	r.emit(cmd)
	return nil
}

// Status returns a read-only snapshot of the state mirror.
func (r *Relay) Status() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// HandleStopped records a playback-stopped report from the display client.
// No outbound command is emitted; the display already stopped on its own.
func (r *Relay) HandleStopped(reason string) {
	if reason == "" {
		reason = "ended"
	}
	r.mu.Lock()
	r.state.Playing = false
	r.mu.Unlock()
	slog.Info("playback: display reported stop", slog.String("reason", reason))
}

func (r *Relay) emit(cmd Command) {
	metrics.IncrCommandsSent()
	r.sender.Send(cmd)
}
