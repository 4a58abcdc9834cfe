package api

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

// ActivityHandler keeps the session alive: every message on the socket
// means the user interacted with the page, and each one re-arms the
// cache's sliding touch window. This is how a 20-minute hand-off stays
// usable through a long lab without the two timers collapsing into one.
type ActivityHandler struct {
	base *Handler
}

// NewActivityHandler creates the keepalive WebSocket handler.
func NewActivityHandler(base *Handler) *ActivityHandler {
	return &ActivityHandler{base: base}
}

// ServeHTTP upgrades to a WebSocket and touches the session cache on
// every received message until the client goes away.
func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept activity WebSocket", "error", err)
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "session ended")

	ctx := r.Context()
	slog.Info("Activity channel opened")

	for {
		if _, _, err := ws.Read(ctx); err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				slog.Debug("Activity channel closed", "error", err)
			}
			return
		}
		h.base.cache.TouchAll()
	}
}

// Touch is the plain-HTTP fallback for clients without WebSocket
// support: one POST equals one user interaction.
func (h *ActivityHandler) Touch(w http.ResponseWriter, r *http.Request) {
	h.base.cache.TouchAll()
	JSON(w, http.StatusOK, map[string]bool{"touched": true})
}
