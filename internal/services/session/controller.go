// Package session owns the lifecycle of paired matches: the readiness
// handshake, the playing tick loop, and the teardown that notifies the
// remaining peer and archives the result.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ftpong/pong-server/internal/dependencies/clock"
	"github.com/ftpong/pong-server/internal/engine"
	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/protocol"
	"github.com/ftpong/pong-server/internal/storage"
	"github.com/ftpong/pong-server/internal/ws"
)

// Config tunes session behavior
type Config struct {
	// ReadyTimeout is how long both players have to acknowledge readiness
	ReadyTimeout time.Duration

	// TickInterval is the wall-clock period between simulation ticks
	TickInterval time.Duration
}

// DefaultConfig returns the standard session settings
func DefaultConfig() Config {
	return Config{
		ReadyTimeout: 10 * time.Second,
		TickInterval: 50 * time.Millisecond,
	}
}

// liveSession is the mutable runtime state of one session. Its mutex guards
// status, handshake state and the engine state; events for different
// sessions never contend.
type liveSession struct {
	mu         sync.Mutex
	sess       *model.Session
	ready      map[model.PlayerID]bool
	readyTimer *time.Timer
	state      *engine.State
	stopPlay   chan struct{}
}

// Controller manages all live sessions
type Controller struct {
	cfg         Config
	engine      engine.Engine
	broadcaster *ws.Broadcaster
	store       storage.Store
	clock       clock.Clock
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[model.GameID]*liveSession
	byPlayer map[model.PlayerID]model.GameID
}

// NewController creates a session controller
func NewController(cfg Config, eng engine.Engine, broadcaster *ws.Broadcaster, store storage.Store, clk clock.Clock, logger *slog.Logger) *Controller {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = DefaultConfig().ReadyTimeout
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	return &Controller{
		cfg:         cfg,
		engine:      eng,
		broadcaster: broadcaster,
		store:       store,
		clock:       clk,
		logger:      logger.With(slog.String("component", "session")),
		sessions:    make(map[model.GameID]*liveSession),
		byPlayer:    make(map[model.PlayerID]model.GameID),
	}
}

// Create forms a new session in waiting_ready and starts its readiness
// deadline. The first player is the one who was waiting in the queue.
func (c *Controller) Create(id model.GameID, first, second model.Player, mode model.GameMode) *model.Session {
	sess := &model.Session{
		ID:        id,
		Mode:      mode,
		First:     first,
		Second:    second,
		Status:    model.StatusWaitingReady,
		CreatedAt: c.clock.Now(),
	}

	ls := &liveSession{
		sess:     sess,
		ready:    make(map[model.PlayerID]bool, 2),
		stopPlay: make(chan struct{}),
	}
	ls.readyTimer = time.AfterFunc(c.cfg.ReadyTimeout, func() {
		c.readyTimeout(id)
	})

	c.mu.Lock()
	c.sessions[id] = ls
	c.byPlayer[first.ID] = id
	c.byPlayer[second.ID] = id
	c.mu.Unlock()

	c.logger.Info("session created",
		slog.String("game_id", string(id)),
		slog.String("first", string(first.ID)),
		slog.String("second", string(second.ID)))
	return sess
}

// SessionForPlayer returns the session a player currently participates in
func (c *Controller) SessionForPlayer(id model.PlayerID) (model.GameID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gameID, ok := c.byPlayer[id]
	return gameID, ok
}

// Announce pushes the matched notification to both participants, with each
// recipient's own data labelled as the player. Misses are tolerated; a
// late-connecting participant is caught up by NotifyConnected.
func (c *Controller) Announce(id model.GameID) {
	ls, ok := c.lookup(id)
	if !ok {
		return
	}

	ls.mu.Lock()
	if ls.sess.Status != model.StatusWaitingReady {
		ls.mu.Unlock()
		return
	}
	sess := ls.sess
	ls.mu.Unlock()

	c.broadcaster.SendToSession(sess, func(slot model.PlayerSlot) protocol.Message {
		return matchedMessage(sess, slot)
	})
	c.broadcaster.SendToSession(sess, func(model.PlayerSlot) protocol.Message {
		return &protocol.Notification{Type: protocol.TypeNotification, Status: protocol.StatusConnected}
	})
}

// NotifyConnected catches up a participant whose transport connected after
// the match announcement, so it can still acknowledge readiness.
func (c *Controller) NotifyConnected(gameID model.GameID, playerID model.PlayerID) {
	ls, ok := c.lookup(gameID)
	if !ok {
		return
	}

	ls.mu.Lock()
	sess := ls.sess
	slot, participant := sess.SlotOf(playerID)
	waiting := sess.Status == model.StatusWaitingReady
	ls.mu.Unlock()

	if !participant || !waiting {
		return
	}

	_ = c.broadcaster.SendToPlayer(playerID, matchedMessage(sess, slot))
	_ = c.broadcaster.SendToPlayer(playerID, &protocol.Notification{
		Type:   protocol.TypeNotification,
		Status: protocol.StatusConnected,
	})
}

// HandleReady records a readiness acknowledgment. Re-acknowledgment is
// idempotent; acks for unknown or non-waiting sessions are no-ops. When the
// second ack lands the session starts playing.
func (c *Controller) HandleReady(gameID model.GameID, playerID model.PlayerID) {
	ls, ok := c.lookup(gameID)
	if !ok {
		return
	}

	ls.mu.Lock()
	if ls.sess.Status != model.StatusWaitingReady {
		ls.mu.Unlock()
		return
	}
	if _, participant := ls.sess.SlotOf(playerID); !participant {
		ls.mu.Unlock()
		return
	}

	ls.ready[playerID] = true
	bothReady := len(ls.ready) == 2
	if bothReady {
		ls.readyTimer.Stop()
		ls.sess.Status = model.StatusPlaying
		ls.sess.StartedAt = c.clock.Now()
		ls.state = c.engine.NewState()
	}
	sess := ls.sess
	ls.mu.Unlock()

	if !bothReady {
		return
	}

	c.logger.Info("session playing", slog.String("game_id", string(gameID)))
	go c.runLoop(ls)

	c.broadcaster.SendToSession(sess, func(slot model.PlayerSlot) protocol.Message {
		return c.stateMessage(ls, slot, protocol.StatusPlaying)
	})
}

// HandleMove applies a paddle input event. Ignored unless the session is
// playing and the sender is a participant.
func (c *Controller) HandleMove(gameID model.GameID, playerID model.PlayerID, deltaY float64) {
	ls, ok := c.lookup(gameID)
	if !ok {
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.sess.Status != model.StatusPlaying {
		return
	}
	slot, participant := ls.sess.SlotOf(playerID)
	if !participant {
		return
	}
	c.engine.MovePaddle(ls.state, sideOf(slot), deltaY)
}

// HandleDisconnect finishes any session the player was part of. Safe to
// call for players with no session.
func (c *Controller) HandleDisconnect(playerID model.PlayerID) {
	c.mu.Lock()
	gameID, ok := c.byPlayer[playerID]
	c.mu.Unlock()
	if !ok {
		return
	}
	c.finish(gameID, model.EndReasonDisconnect, "")
}

// EndMatch finishes a session on an explicit end-of-match signal
func (c *Controller) EndMatch(gameID model.GameID, winner model.PlayerID) {
	c.finish(gameID, model.EndReasonScore, winner)
}

// Count returns the number of live (not yet torn down) sessions
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

func (c *Controller) lookup(id model.GameID) (*liveSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ls, ok := c.sessions[id]
	return ls, ok
}

// readyTimeout fires when the handshake deadline elapses. The status guard
// in finish makes a late fire after the session started a no-op.
func (c *Controller) readyTimeout(id model.GameID) {
	ls, ok := c.lookup(id)
	if !ok {
		return
	}

	ls.mu.Lock()
	stillWaiting := ls.sess.Status == model.StatusWaitingReady
	ls.mu.Unlock()

	if stillWaiting {
		c.logger.Info("readiness handshake timed out", slog.String("game_id", string(id)))
		c.finish(id, model.EndReasonReadyTimeout, "")
	}
}

// runLoop drives the simulation while the session is playing
func (c *Controller) runLoop(ls *liveSession) {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ls.stopPlay:
			return
		case <-ticker.C:
			if !c.tick(ls) {
				return
			}
		}
	}
}

// tick advances the engine one step and broadcasts the resulting state.
// Returns false once the session has left the playing state.
func (c *Controller) tick(ls *liveSession) bool {
	ls.mu.Lock()
	if ls.sess.Status != model.StatusPlaying {
		ls.mu.Unlock()
		return false
	}

	c.engine.Step(ls.state)
	gameID := ls.sess.ID

	var winner model.PlayerID
	if side, over := c.engine.Winner(ls.state); over {
		winner = ls.sess.PlayerBySlot(slotOf(side)).ID
	}
	ls.mu.Unlock()

	if winner != "" {
		c.finish(gameID, model.EndReasonScore, winner)
		return false
	}

	ls.mu.Lock()
	sess := ls.sess
	ls.mu.Unlock()
	c.broadcaster.SendToSession(sess, func(slot model.PlayerSlot) protocol.Message {
		return c.stateMessage(ls, slot, protocol.StatusPlaying)
	})
	return true
}

// finish moves a session to finished exactly once, notifies whoever is
// still connected, archives the result, and releases both player IDs.
// Subsequent calls and late timers are no-ops.
func (c *Controller) finish(gameID model.GameID, reason model.EndReason, winner model.PlayerID) {
	ls, ok := c.lookup(gameID)
	if !ok {
		return
	}

	ls.mu.Lock()
	if ls.sess.Status == model.StatusFinished {
		ls.mu.Unlock()
		return
	}
	wasPlaying := ls.sess.Status == model.StatusPlaying
	ls.sess.Status = model.StatusFinished
	ls.sess.FinishedAt = c.clock.Now()
	ls.readyTimer.Stop()
	close(ls.stopPlay)
	sess := ls.sess
	state := ls.state
	ls.mu.Unlock()

	c.logger.Info("session finished",
		slog.String("game_id", string(gameID)),
		slog.String("reason", string(reason)),
		slog.String("winner", string(winner)))

	c.broadcaster.SendToSession(sess, func(model.PlayerSlot) protocol.Message {
		return &protocol.Notification{Type: protocol.TypeNotification, Status: protocol.StatusFinished}
	})
	if wasPlaying {
		c.broadcaster.SendToSession(sess, func(slot model.PlayerSlot) protocol.Message {
			return c.stateMessage(ls, slot, protocol.StatusFinished)
		})
	}
	c.broadcaster.SendToSession(sess, func(slot model.PlayerSlot) protocol.Message {
		return matchEndMessage(sess, slot, reason, winner)
	})

	summary := &model.MatchSummary{
		GameID:     sess.ID,
		Mode:       sess.Mode,
		First:      sess.First,
		Second:     sess.Second,
		Winner:     winner,
		Reason:     reason,
		StartedAt:  sess.StartedAt,
		FinishedAt: sess.FinishedAt,
	}
	if state != nil {
		summary.FirstScore = state.Left.Score
		summary.SecondScore = state.Right.Score
	}
	if err := c.store.SaveMatch(context.Background(), summary); err != nil {
		c.logger.Error("failed to archive match",
			slog.String("game_id", string(gameID)),
			slog.Any("error", err))
	}

	c.mu.Lock()
	delete(c.sessions, gameID)
	delete(c.byPlayer, sess.First.ID)
	delete(c.byPlayer, sess.Second.ID)
	c.mu.Unlock()
}

// stateMessage builds the per-tick state push for one recipient. The
// recipient's own paddle is "player"; the second player sees the ball
// mirrored so both clients render themselves on the left.
func (c *Controller) stateMessage(ls *liveSession, slot model.PlayerSlot, status string) *protocol.GameState {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	sess := ls.sess
	me := playerState(sess, ls.state, slot)
	opponent := playerState(sess, ls.state, otherSlot(slot))

	ball := protocol.Ball{
		X:  ls.state.Ball.X,
		Y:  ls.state.Ball.Y,
		VX: ls.state.Ball.VX,
		VY: ls.state.Ball.VY,
	}
	if slot == model.SlotSecond {
		ball.X = engine.FieldWidth - ball.X
		ball.VX = -ball.VX
	}

	return &protocol.GameState{
		Type:     protocol.TypeGameState,
		Status:   status,
		GameID:   string(sess.ID),
		Player:   me,
		Opponent: opponent,
		Ball:     ball,
	}
}

func playerState(sess *model.Session, state *engine.State, slot model.PlayerSlot) protocol.PlayerState {
	p := sess.PlayerBySlot(slot)
	view := protocol.PlayerState{ID: string(p.ID), Name: p.Name}
	if state == nil {
		return view
	}

	paddle := state.Left
	if slot == model.SlotSecond {
		paddle = state.Right
	}
	view.X = paddle.X
	view.Y = paddle.Y
	view.Score = paddle.Score
	return view
}

func matchedMessage(sess *model.Session, slot model.PlayerSlot) *protocol.GameMatched {
	me := sess.PlayerBySlot(slot)
	peer := sess.Peer(slot)
	return &protocol.GameMatched{
		Type:     protocol.TypeGameMatched,
		Status:   protocol.StatusMatched,
		GameID:   string(sess.ID),
		Player:   protocol.PlayerState{ID: string(me.ID), Name: me.Name},
		Opponent: protocol.PlayerState{ID: string(peer.ID), Name: peer.Name},
	}
}

func matchEndMessage(sess *model.Session, slot model.PlayerSlot, reason model.EndReason, winner model.PlayerID) *protocol.MatchEnd {
	result := string(reason)
	if winner != "" {
		if winner == sess.PlayerBySlot(slot).ID {
			result = "win"
		} else {
			result = "loss"
		}
	}
	return &protocol.MatchEnd{Type: protocol.TypeMatchEnd, Result: result}
}

func sideOf(slot model.PlayerSlot) engine.Side {
	if slot == model.SlotFirst {
		return engine.SideLeft
	}
	return engine.SideRight
}

func slotOf(side engine.Side) model.PlayerSlot {
	if side == engine.SideLeft {
		return model.SlotFirst
	}
	return model.SlotSecond
}

func otherSlot(slot model.PlayerSlot) model.PlayerSlot {
	if slot == model.SlotFirst {
		return model.SlotSecond
	}
	return model.SlotFirst
}
