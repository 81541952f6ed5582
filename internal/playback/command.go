package playback

import "github.com/google/uuid"

// Command kinds pushed toward the display client.
const (
	KindStartPlayback  = "start-playback"
	KindStopPlayback   = "stop-playback"
	KindApplyOptions   = "apply-options"
	KindVideoControl   = "video-control"
	KindSetOverlayMode = "set-overlay-mode"
)

// Command is a fire-and-forget message toward the display client. Only the
// fields relevant to the kind are populated; ID exists for log correlation
// on the display side, nothing waits on it.
type Command struct {
	ID      string        `json:"id"`
	Kind    string        `json:"kind"`
	VideoID string        `json:"videoId,omitempty"`
	URL     string        `json:"url,omitempty"`
	Reason  string        `json:"reason,omitempty"`
	Action  string        `json:"action,omitempty"`
	Seconds int           `json:"seconds,omitempty"`
	Caption *CaptionState `json:"caption,omitempty"`
	Quality *QualityState `json:"quality,omitempty"`
}

func newCommand(kind string) Command {
	return Command{ID: uuid.NewString(), Kind: kind}
}

// Sender delivers commands to the display client. Delivery is best-effort,
// at-most-once, unacknowledged; the display client's own state stays
// authoritative.
type Sender interface {
	Send(cmd Command)
}

// NopSender discards commands. Used when no display channel exists yet.
type NopSender struct{}

func (NopSender) Send(Command) {}
