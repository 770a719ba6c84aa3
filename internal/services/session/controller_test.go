package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftpong/pong-server/internal/dependencies/mocks"
	"github.com/ftpong/pong-server/internal/engine"
	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/protocol"
	"github.com/ftpong/pong-server/internal/testutil"
	"github.com/ftpong/pong-server/internal/ws"
)

type fakePeer struct {
	mu   sync.Mutex
	sent [][]byte
}

func (p *fakePeer) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, data)
	return nil
}

func (p *fakePeer) Close() {}

func (p *fakePeer) messages(t *testing.T) []protocol.Message {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]protocol.Message, 0, len(p.sent))
	for _, data := range p.sent {
		msg, err := protocol.Decode(data)
		require.NoError(t, err)
		out = append(out, msg)
	}
	return out
}

func (p *fakePeer) lastOfType(t *testing.T, typ protocol.Type) protocol.Message {
	t.Helper()
	var found protocol.Message
	for _, msg := range p.messages(t) {
		if msg.MessageType() == typ {
			found = msg
		}
	}
	return found
}

// stubEngine is a deterministic engine for controller tests. It declares the
// left side the winner after winAfter steps; zero means never.
type stubEngine struct {
	mu       sync.Mutex
	winAfter int
	steps    int
}

func (e *stubEngine) NewState() *engine.State {
	return &engine.State{
		Left:  engine.Paddle{X: 20, Y: 275},
		Right: engine.Paddle{X: 880, Y: 275},
		Ball:  engine.Ball{X: 450, Y: 275, VX: 2, VY: 1},
	}
}

func (e *stubEngine) Step(s *engine.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.steps++
	s.Ball.X += s.Ball.VX
}

func (e *stubEngine) MovePaddle(s *engine.State, side engine.Side, deltaY float64) {
	if side == engine.SideLeft {
		s.Left.Y += deltaY
	} else {
		s.Right.Y += deltaY
	}
}

func (e *stubEngine) Winner(s *engine.State) (engine.Side, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.winAfter > 0 && e.steps >= e.winAfter {
		return engine.SideLeft, true
	}
	return 0, false
}

type memStore struct {
	mu      sync.Mutex
	matches []*model.MatchSummary
}

func (s *memStore) SaveMatch(_ context.Context, m *model.MatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, m)
	return nil
}

func (s *memStore) ListMatches(_ context.Context, _ int) ([]*model.MatchSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.MatchSummary(nil), s.matches...), nil
}

type fixture struct {
	controller *Controller
	registry   *ws.Registry
	store      *memStore
	engine     *stubEngine
	first      *fakePeer
	second     *fakePeer
	p1         model.Player
	p2         model.Player
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	logger := testutil.NopLogger()
	registry := ws.NewRegistry(logger)
	store := &memStore{}
	eng := &stubEngine{}
	clk := &mocks.MockClock{CurrentTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	f := &fixture{
		controller: NewController(cfg, eng, ws.NewBroadcaster(registry, logger), store, clk, logger),
		registry:   registry,
		store:      store,
		engine:     eng,
		first:      &fakePeer{},
		second:     &fakePeer{},
		p1:         model.Player{ID: "p1", Name: "Alice"},
		p2:         model.Player{ID: "p2", Name: "Bob"},
	}
	registry.Register(f.p1.ID, f.first)
	registry.Register(f.p2.ID, f.second)
	return f
}

func (f *fixture) create() model.GameID {
	f.controller.Create("game1", f.p1, f.p2, model.ModeClassic)
	return "game1"
}

func TestAnnounceSendsMatchedThenConnected(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	id := f.create()

	f.controller.Announce(id)

	msgs := f.first.messages(t)
	require.Len(t, msgs, 2)

	matched, ok := msgs[0].(*protocol.GameMatched)
	require.True(t, ok)
	assert.Equal(t, "game1", matched.GameID)
	assert.Equal(t, protocol.StatusMatched, matched.Status)
	assert.Equal(t, "p1", matched.Player.ID)
	assert.Equal(t, "p2", matched.Opponent.ID)

	notif, ok := msgs[1].(*protocol.Notification)
	require.True(t, ok)
	assert.Equal(t, protocol.StatusConnected, notif.Status)

	// Second player sees themselves as the player
	otherMatched, ok := f.second.messages(t)[0].(*protocol.GameMatched)
	require.True(t, ok)
	assert.Equal(t, "p2", otherMatched.Player.ID)
	assert.Equal(t, "p1", otherMatched.Opponent.ID)
}

func TestNotifyConnectedCatchesUpLateParticipant(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	id := f.create()

	f.controller.NotifyConnected(id, f.p2.ID)

	msgs := f.second.messages(t)
	require.Len(t, msgs, 2)
	assert.Equal(t, protocol.TypeGameMatched, msgs[0].MessageType())
	assert.Equal(t, protocol.TypeNotification, msgs[1].MessageType())
	assert.Empty(t, f.first.messages(t))
}

func TestNotifyConnectedIgnoresNonParticipant(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	id := f.create()

	f.controller.NotifyConnected(id, "stranger")

	assert.Empty(t, f.first.messages(t))
	assert.Empty(t, f.second.messages(t))
}

func TestReadyHandshakeStartsPlaying(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: time.Minute, TickInterval: time.Hour})
	id := f.create()

	f.controller.HandleReady(id, f.p1.ID)
	assert.Empty(t, f.first.messages(t), "one ack must not start the session")

	f.controller.HandleReady(id, f.p2.ID)

	state, ok := f.first.lastOfType(t, protocol.TypeGameState).(*protocol.GameState)
	require.True(t, ok)
	assert.Equal(t, protocol.StatusPlaying, state.Status)
	assert.Equal(t, "p1", state.Player.ID)
	assert.Equal(t, "p2", state.Opponent.ID)
	assert.Equal(t, 450.0, state.Ball.X)
	assert.Equal(t, 2.0, state.Ball.VX)
}

func TestSecondPlayerSeesMirroredBall(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: time.Minute, TickInterval: time.Hour})
	id := f.create()

	f.controller.HandleReady(id, f.p1.ID)
	f.controller.HandleReady(id, f.p2.ID)

	state, ok := f.second.lastOfType(t, protocol.TypeGameState).(*protocol.GameState)
	require.True(t, ok)
	assert.Equal(t, "p2", state.Player.ID)
	assert.Equal(t, engine.FieldWidth-450.0, state.Ball.X)
	assert.Equal(t, -2.0, state.Ball.VX)
	assert.Equal(t, 1.0, state.Ball.VY)
}

func TestReadyAckIsIdempotent(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: time.Minute, TickInterval: time.Hour})
	id := f.create()

	f.controller.HandleReady(id, f.p1.ID)
	f.controller.HandleReady(id, f.p1.ID)
	f.controller.HandleReady(id, f.p1.ID)

	assert.Empty(t, f.first.messages(t))
	assert.Empty(t, f.second.messages(t))
}

func TestReadyFromNonParticipantIgnored(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: time.Minute, TickInterval: time.Hour})
	id := f.create()

	f.controller.HandleReady(id, "stranger")
	f.controller.HandleReady(id, f.p1.ID)

	assert.Empty(t, f.first.messages(t))
}

func TestReadyTimeoutFinishesSession(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: 25 * time.Millisecond, TickInterval: time.Hour})
	id := f.create()
	f.controller.HandleReady(id, f.p1.ID)

	require.Eventually(t, func() bool {
		return f.controller.Count() == 0
	}, time.Second, 5*time.Millisecond)

	notif, ok := f.first.lastOfType(t, protocol.TypeNotification).(*protocol.Notification)
	require.True(t, ok)
	assert.Equal(t, protocol.StatusFinished, notif.Status)

	end, ok := f.second.lastOfType(t, protocol.TypeMatchEnd).(*protocol.MatchEnd)
	require.True(t, ok)
	assert.Equal(t, string(model.EndReasonReadyTimeout), end.Result)

	require.Len(t, f.store.matches, 1)
	assert.Equal(t, model.EndReasonReadyTimeout, f.store.matches[0].Reason)
	assert.Empty(t, f.store.matches[0].Winner)

	_, inSession := f.controller.SessionForPlayer(f.p1.ID)
	assert.False(t, inSession)
}

func TestDisconnectFinishesAndNotifiesRemainingPeer(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: time.Minute, TickInterval: time.Hour})
	id := f.create()
	f.controller.HandleReady(id, f.p1.ID)
	f.controller.HandleReady(id, f.p2.ID)

	f.controller.HandleDisconnect(f.p1.ID)

	notif, ok := f.second.lastOfType(t, protocol.TypeNotification).(*protocol.Notification)
	require.True(t, ok)
	assert.Equal(t, protocol.StatusFinished, notif.Status)

	end, ok := f.second.lastOfType(t, protocol.TypeMatchEnd).(*protocol.MatchEnd)
	require.True(t, ok)
	assert.Equal(t, string(model.EndReasonDisconnect), end.Result)

	require.Len(t, f.store.matches, 1)
	assert.Equal(t, model.EndReasonDisconnect, f.store.matches[0].Reason)

	_, inSession := f.controller.SessionForPlayer(f.p2.ID)
	assert.False(t, inSession)
}

func TestDisconnectOfUnknownPlayerIsNoOp(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.create()

	f.controller.HandleDisconnect("stranger")

	assert.Equal(t, 1, f.controller.Count())
	assert.Empty(t, f.store.matches)
}

func TestScoreWinFinishesWithPerspectiveResults(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: time.Minute, TickInterval: 5 * time.Millisecond})
	f.engine.winAfter = 3
	id := f.create()

	f.controller.HandleReady(id, f.p1.ID)
	f.controller.HandleReady(id, f.p2.ID)

	require.Eventually(t, func() bool {
		return f.controller.Count() == 0
	}, 2*time.Second, 5*time.Millisecond)

	winEnd, ok := f.first.lastOfType(t, protocol.TypeMatchEnd).(*protocol.MatchEnd)
	require.True(t, ok)
	assert.Equal(t, "win", winEnd.Result)

	lossEnd, ok := f.second.lastOfType(t, protocol.TypeMatchEnd).(*protocol.MatchEnd)
	require.True(t, ok)
	assert.Equal(t, "loss", lossEnd.Result)

	require.Len(t, f.store.matches, 1)
	assert.Equal(t, model.EndReasonScore, f.store.matches[0].Reason)
	assert.Equal(t, f.p1.ID, f.store.matches[0].Winner)
}

func TestMoveIgnoredBeforePlaying(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: time.Minute, TickInterval: time.Hour})
	id := f.create()

	// Must not panic on nil engine state and must not ack anything
	f.controller.HandleMove(id, f.p1.ID, 15)

	assert.Empty(t, f.first.messages(t))
}

func TestMoveAppliesToSendersPaddle(t *testing.T) {
	f := newFixture(t, Config{ReadyTimeout: time.Minute, TickInterval: time.Hour})
	id := f.create()
	f.controller.HandleReady(id, f.p1.ID)
	f.controller.HandleReady(id, f.p2.ID)

	f.controller.HandleMove(id, f.p2.ID, -40)

	ls, ok := f.controller.lookup(id)
	require.True(t, ok)
	ls.mu.Lock()
	defer ls.mu.Unlock()
	assert.Equal(t, 235.0, ls.state.Right.Y)
	assert.Equal(t, 275.0, ls.state.Left.Y)
}
