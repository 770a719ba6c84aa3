package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ftpong/pong-server/internal/api/handler"
	"github.com/ftpong/pong-server/internal/api/middleware"
	basemw "github.com/ftpong/pong-server/internal/middleware"
	"github.com/ftpong/pong-server/internal/services/matchmaking"
	"github.com/ftpong/pong-server/internal/storage"
	"github.com/ftpong/pong-server/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *matchmaking.Coordinator
	Registry    *ws.Registry
	Store       storage.Store
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	matchmakingHandler := handler.NewMatchmakingHandler(cfg.Coordinator)
	matchesHandler := handler.NewMatchesHandler(cfg.Store)
	socketHandler := handler.NewSocketHandler(cfg.Registry, cfg.Coordinator, cfg.Logger)

	// Common middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(basemw.Logging(cfg.Logger))

	r.HandleFunc("/join", matchmakingHandler.Join).Methods(http.MethodPost)
	r.HandleFunc("/ws", socketHandler.Connect).Methods(http.MethodGet)
	r.HandleFunc("/matches", matchesHandler.List).Methods(http.MethodGet)

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
