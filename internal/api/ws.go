package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mirrorcast/internal/metrics"
	"mirrorcast/internal/playback"
)

const (
	writeWait = 5 * time.Second
	// maxInboundBytes caps display-client reports; they only carry a kind
	// tag and a reason.
	maxInboundBytes = 4 * 1024
)

// displayReport is the only telemetry flowing upstream from the display
// client.
type displayReport struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Hub fans commands out to connected display clients over WebSocket. It
// implements playback.Sender: writes are best-effort and unacknowledged; a
// failed write drops the connection, never the command pipeline.
type Hub struct {
	mu        sync.Mutex
	conns     map[*websocket.Conn]struct{}
	upgrader  websocket.Upgrader
	OnStopped func(reason string)
}

// NewHub creates an empty hub. Set OnStopped before serving to route
// playback-stopped reports into the relay.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Display clients run on the local network (the mirror itself).
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handle upgrades a display-client connection and pumps its inbound reports.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("display: upgrade failed", slog.Any("error", err))
		return
	}
	metrics.IncrDisplayConnects()
	slog.Info("display: connected", slog.String("remote", r.RemoteAddr))

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	conn.SetReadLimit(maxInboundBytes)
	go h.readLoop(conn)
}

// Send marshals the command once and writes it to every connected display.
// No acknowledgement, no retry: the display's own state is authoritative.
func (h *Hub) Send(cmd playback.Command) {
	data, err := json.Marshal(cmd)
	if err != nil {
		slog.Error("display: command marshal failed", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.conns) == 0 {
		metrics.IncrCommandsDropped()
		slog.Debug("display: no client connected, command dropped",
			slog.String("kind", cmd.Kind))
		return
	}

	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			metrics.IncrCommandsDropped()
			slog.Debug("display: write failed, dropping connection",
				slog.Any("error", err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Count reports connected display clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
		slog.Info("display: disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var report displayReport
		if err := json.Unmarshal(data, &report); err != nil {
			slog.Debug("display: unparsable report", slog.Any("error", err))
			continue
		}
		if report.Kind == "playback-stopped" && h.OnStopped != nil {
			h.OnStopped(report.Reason)
		}
	}
}
