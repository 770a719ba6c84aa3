// Package ws manages each player's live WebSocket connection: the registry
// mapping player IDs to connection handles, the read/write pumps, and the
// broadcaster that pushes session-scoped messages to participants.
package ws

import (
	"log/slog"
	"sync"

	"github.com/ftpong/pong-server/internal/model"
)

// Peer is the send side of a live duplex connection. Send must never block;
// a failed send is a delivery miss, not a caller error.
type Peer interface {
	Send(data []byte) error
	Close()
}

// Registry maps a player ID to its live connection handle. A newer
// connection for the same player supersedes and closes the previous one.
type Registry struct {
	mu     sync.RWMutex
	peers  map[model.PlayerID]Peer
	logger *slog.Logger
}

// NewRegistry creates an empty connection registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		peers:  make(map[model.PlayerID]Peer),
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Register installs the mapping, superseding any previous connection for
// the player. The superseded handle is closed and must not be used again.
func (r *Registry) Register(id model.PlayerID, peer Peer) {
	r.mu.Lock()
	old, existed := r.peers[id]
	r.peers[id] = peer
	r.mu.Unlock()

	if existed {
		old.Close()
		r.logger.Info("connection superseded", slog.String("player_id", string(id)))
	} else {
		r.logger.Info("connection registered", slog.String("player_id", string(id)))
	}
}

// Unregister removes the mapping if peer is still the registered handle for
// the player. It reports whether a removal happened, so a superseded
// connection's teardown does not evict its replacement. Idempotent.
func (r *Registry) Unregister(id model.PlayerID, peer Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.peers[id]
	if !ok || current != peer {
		return false
	}
	delete(r.peers, id)
	r.logger.Info("connection unregistered", slog.String("player_id", string(id)))
	return true
}

// Lookup returns the live connection for a player, if any. Non-blocking.
func (r *Registry) Lookup(id model.PlayerID) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	peer, ok := r.peers[id]
	return peer, ok
}

// Count returns the number of registered connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}
