package http

import (
	"log/slog"
	"net/http"

	gorilla "github.com/gorilla/websocket"

	ws "dashgen/internal/websocket"
)

// WSHandler upgrades HTTP connections to the websocket progress stream.
type WSHandler struct {
	hub      *ws.Hub
	logger   *slog.Logger
	upgrader gorilla.Upgrader
}

// NewWSHandler creates a websocket handler bound to the hub.
func NewWSHandler(hub *ws.Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger.With(slog.String("component", "ws_handler")),
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Uploads come from the bundled frontend; same-host only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /ws?batch={id}. An absent batch parameter
// subscribes to every batch.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	batchID := r.URL.Query().Get("batch")
	ws.ServeWS(h.hub, conn, batchID)
}
