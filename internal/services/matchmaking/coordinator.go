package matchmaking

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ftpong/pong-server/internal/dependencies/random"
	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/protocol"
	"github.com/ftpong/pong-server/internal/services/session"
	"github.com/ftpong/pong-server/internal/ws"
)

const (
	idAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	playerIDLength = 8
	gameIDLength   = 13
)

// Config tunes coordinator behavior
type Config struct {
	// NotifyDelay is how long after pairing the matched notification is
	// sent, giving the second player time to open their connection
	NotifyDelay time.Duration
}

// DefaultConfig returns the standard coordinator settings
func DefaultConfig() Config {
	return Config{NotifyDelay: 100 * time.Millisecond}
}

// JoinStatus is the outcome of a join request
type JoinStatus string

const (
	JoinWaiting JoinStatus = "waiting"
	JoinMatched JoinStatus = "matched"
)

// JoinResult describes what happened to a join request
type JoinResult struct {
	Status   JoinStatus
	PlayerID model.PlayerID
	GameID   model.GameID
}

// Coordinator is the single authority that turns join requests into either
// a queue position or a new session. It also routes connection-level events
// to the session controller, implementing ws.Handler.
type Coordinator struct {
	cfg        Config
	queue      *Queue
	controller *session.Controller
	random     random.Random
	logger     *slog.Logger

	// mu makes the dequeue-then-create step atomic so two concurrent joins
	// cannot both pair with the same waiting player
	mu sync.Mutex
}

// NewCoordinator creates a matchmaking coordinator
func NewCoordinator(cfg Config, queue *Queue, controller *session.Controller, rnd random.Random, logger *slog.Logger) *Coordinator {
	if cfg.NotifyDelay <= 0 {
		cfg.NotifyDelay = DefaultConfig().NotifyDelay
	}
	return &Coordinator{
		cfg:        cfg,
		queue:      queue,
		controller: controller,
		random:     rnd,
		logger:     logger.With(slog.String("component", "matchmaking")),
	}
}

var _ ws.Handler = (*Coordinator)(nil)

// Join admits a player into matchmaking. If an opponent is waiting in the
// same mode a session forms immediately, with the waiting player first;
// otherwise the player joins the back of the queue. A player already
// waiting or already in a session is rejected.
func (c *Coordinator) Join(name string, playerID model.PlayerID, mode model.GameMode) (*JoinResult, error) {
	if playerID == "" {
		playerID = model.PlayerID(c.random.String(playerIDLength, idAlphabet))
	}
	player := model.Player{ID: playerID, Name: name}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue.Contains(playerID) {
		return nil, model.ErrAlreadyQueued
	}
	if _, inSession := c.controller.SessionForPlayer(playerID); inSession {
		return nil, model.ErrAlreadyInSession
	}

	opponent, found := c.queue.DequeueHead(mode)
	if !found {
		if err := c.queue.Enqueue(player, mode); err != nil {
			return nil, err
		}
		c.logger.Info("player queued",
			slog.String("player_id", string(playerID)),
			slog.String("mode", string(mode)))
		return &JoinResult{Status: JoinWaiting, PlayerID: playerID}, nil
	}

	gameID := model.GameID(c.random.String(gameIDLength, idAlphabet))
	c.controller.Create(gameID, opponent, player, mode)

	// Deferred so the new arrival has a moment to open their connection
	// before the matched notification goes out
	time.AfterFunc(c.cfg.NotifyDelay, func() {
		c.controller.Announce(gameID)
	})

	c.logger.Info("players matched",
		slog.String("game_id", string(gameID)),
		slog.String("first", string(opponent.ID)),
		slog.String("second", string(playerID)))
	return &JoinResult{Status: JoinMatched, PlayerID: playerID, GameID: gameID}, nil
}

// HandleConnect catches up a player whose session formed before their
// connection registered
func (c *Coordinator) HandleConnect(id model.PlayerID) {
	if gameID, ok := c.controller.SessionForPlayer(id); ok {
		c.controller.NotifyConnected(gameID, id)
	}
}

// HandleMessage routes a decoded client message to the session controller.
// Unrecognized kinds are dropped; the envelope sender is authoritative over
// any player ID claimed in the payload.
func (c *Coordinator) HandleMessage(id model.PlayerID, msg protocol.Message) {
	switch m := msg.(type) {
	case *protocol.Ready:
		c.controller.HandleReady(model.GameID(m.GameID), id)
	case *protocol.PaddleMove:
		c.controller.HandleMove(model.GameID(m.GameID), id, m.DeltaY)
	default:
		c.logger.Warn("dropping unexpected message",
			slog.String("player_id", string(id)),
			slog.String("type", string(msg.MessageType())))
	}
}

// HandleDisconnect removes the player from the queue, or finishes their
// live session if they had one
func (c *Coordinator) HandleDisconnect(id model.PlayerID) {
	if c.queue.Remove(id) {
		c.logger.Info("queued player disconnected", slog.String("player_id", string(id)))
		return
	}
	c.controller.HandleDisconnect(id)
}
