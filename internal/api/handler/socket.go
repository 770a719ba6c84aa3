package handler

import (
	"log/slog"
	"net/http"

	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/ws"
)

// SocketHandler upgrades game connections
type SocketHandler struct {
	registry *ws.Registry
	events   ws.Handler
	logger   *slog.Logger
}

// NewSocketHandler creates a new socket handler
func NewSocketHandler(registry *ws.Registry, events ws.Handler, logger *slog.Logger) *SocketHandler {
	return &SocketHandler{
		registry: registry,
		events:   events,
		logger:   logger,
	}
}

// Connect handles GET /ws?playerId=<id>. The response writer is hijacked on
// upgrade; this handler returns only when the connection closes.
func (h *SocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("playerId query parameter is required"))
		return
	}

	ws.Serve(w, r, model.PlayerID(playerID), h.registry, h.events, h.logger)
}
