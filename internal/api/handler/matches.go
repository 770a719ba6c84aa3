package handler

import (
	"net/http"
	"strconv"

	"github.com/ftpong/pong-server/internal/api/response"
	"github.com/ftpong/pong-server/internal/storage"
)

const defaultMatchLimit = 50

// MatchesHandler handles the match archive endpoint
type MatchesHandler struct {
	store storage.Store
}

// NewMatchesHandler creates a new matches handler
func NewMatchesHandler(store storage.Store) *MatchesHandler {
	return &MatchesHandler{
		store: store,
	}
}

// List handles GET /matches
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultMatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	matches, err := h.store.ListMatches(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchesResponseFromModels(matches))
}
