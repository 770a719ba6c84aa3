package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ftpong/pong-server/internal/api/request"
	"github.com/ftpong/pong-server/internal/api/response"
	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/services/matchmaking"
)

// MatchmakingHandler handles matchmaking endpoints
type MatchmakingHandler struct {
	coordinator *matchmaking.Coordinator
}

// NewMatchmakingHandler creates a new matchmaking handler
func NewMatchmakingHandler(coordinator *matchmaking.Coordinator) *MatchmakingHandler {
	return &MatchmakingHandler{
		coordinator: coordinator,
	}
}

// Join handles POST /join
func (h *MatchmakingHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerName == "" {
		WriteError(w, NewInvalidRequestError("playerName is required"))
		return
	}

	mode := model.GameMode(req.GameMode)
	if mode == "" {
		mode = model.ModeClassic
	}
	if mode != model.ModeClassic {
		WriteError(w, NewInvalidRequestError("unsupported game mode"))
		return
	}

	result, err := h.coordinator.Join(req.PlayerName, model.PlayerID(req.PlayerID), mode)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinResponseFromResult(result))
}
