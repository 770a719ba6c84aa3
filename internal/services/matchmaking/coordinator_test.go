package matchmaking

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
	"github.com/ftpong/pong-server/internal/services/session"
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

func (p *fakePeer) received(t *testing.T, typ protocol.Type) bool {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, data := range p.sent {
		msg, err := protocol.Decode(data)
		require.NoError(t, err)
		if msg.MessageType() == typ {
			return true
		}
	}
	return false
}

type nopStore struct{}

func (nopStore) SaveMatch(context.Context, *model.MatchSummary) error { return nil }
func (nopStore) ListMatches(context.Context, int) ([]*model.MatchSummary, error) {
	return nil, nil
}

type fixture struct {
	coordinator *Coordinator
	registry    *ws.Registry
	random      *mocks.MockRandom
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := testutil.NopLogger()
	registry := ws.NewRegistry(logger)
	clk := &mocks.MockClock{CurrentTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	controller := session.NewController(
		session.Config{ReadyTimeout: time.Minute, TickInterval: time.Hour},
		engine.NewClassic(engine.Config{}),
		ws.NewBroadcaster(registry, logger),
		nopStore{},
		clk,
		logger,
	)
	rnd := mocks.NewMockRandom()
	coordinator := NewCoordinator(
		Config{NotifyDelay: 5 * time.Millisecond},
		NewQueue(0),
		controller,
		rnd,
		logger,
	)
	return &fixture{coordinator: coordinator, registry: registry, random: rnd}
}

func TestFirstJoinWaits(t *testing.T) {
	f := newFixture(t)
	f.random.QueueString("alice123")

	result, err := f.coordinator.Join("Alice", "", model.ModeClassic)
	require.NoError(t, err)
	assert.Equal(t, JoinWaiting, result.Status)
	assert.Equal(t, model.PlayerID("alice123"), result.PlayerID)
	assert.Empty(t, result.GameID)
}

func TestSecondJoinMatches(t *testing.T) {
	f := newFixture(t)
	f.random.QueueString("alice123", "bob45678", "game1")

	first, err := f.coordinator.Join("Alice", "", model.ModeClassic)
	require.NoError(t, err)

	second, err := f.coordinator.Join("Bob", "", model.ModeClassic)
	require.NoError(t, err)
	assert.Equal(t, JoinMatched, second.Status)
	assert.Equal(t, model.GameID("game1"), second.GameID)

	// Both players now belong to the session, and the waiting player was
	// dequeued
	assert.False(t, f.coordinator.queue.Contains(first.PlayerID))
	for _, id := range []model.PlayerID{first.PlayerID, second.PlayerID} {
		f.coordinator.HandleConnect(id)
	}
}

func TestMatchedNotificationIsDeferred(t *testing.T) {
	f := newFixture(t)
	f.random.QueueString("p1", "p2", "game1")

	alice := &fakePeer{}
	bob := &fakePeer{}
	f.registry.Register("p1", alice)
	f.registry.Register("p2", bob)

	_, err := f.coordinator.Join("Alice", "", model.ModeClassic)
	require.NoError(t, err)
	_, err = f.coordinator.Join("Bob", "", model.ModeClassic)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return alice.received(t, protocol.TypeGameMatched) &&
			bob.received(t, protocol.TypeGameMatched)
	}, time.Second, 2*time.Millisecond)
	assert.True(t, alice.received(t, protocol.TypeNotification))
}

func TestJoinRejectsPlayerAlreadyWaiting(t *testing.T) {
	f := newFixture(t)

	result, err := f.coordinator.Join("Alice", "p1", model.ModeClassic)
	require.NoError(t, err)
	require.Equal(t, JoinWaiting, result.Status)

	_, err = f.coordinator.Join("Alice", "p1", model.ModeClassic)
	assert.ErrorIs(t, err, model.ErrAlreadyQueued)
}

func TestJoinRejectsPlayerAlreadyInSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.coordinator.Join("Alice", "p1", model.ModeClassic)
	require.NoError(t, err)
	_, err = f.coordinator.Join("Bob", "p2", model.ModeClassic)
	require.NoError(t, err)

	_, err = f.coordinator.Join("Alice", "p1", model.ModeClassic)
	assert.ErrorIs(t, err, model.ErrAlreadyInSession)
}

func TestDisconnectWhileWaitingLeavesQueue(t *testing.T) {
	f := newFixture(t)

	_, err := f.coordinator.Join("Alice", "p1", model.ModeClassic)
	require.NoError(t, err)

	f.coordinator.HandleDisconnect("p1")

	// The player can join again once removed
	result, err := f.coordinator.Join("Alice", "p1", model.ModeClassic)
	require.NoError(t, err)
	assert.Equal(t, JoinWaiting, result.Status)
}

func TestReadyRoutingStartsSession(t *testing.T) {
	f := newFixture(t)
	f.random.QueueString("p1", "p2", "game1")

	alice := &fakePeer{}
	bob := &fakePeer{}
	f.registry.Register("p1", alice)
	f.registry.Register("p2", bob)

	_, err := f.coordinator.Join("Alice", "", model.ModeClassic)
	require.NoError(t, err)
	_, err = f.coordinator.Join("Bob", "", model.ModeClassic)
	require.NoError(t, err)

	f.coordinator.HandleMessage("p1", &protocol.Ready{GameID: "game1", PlayerID: "p1"})
	f.coordinator.HandleMessage("p2", &protocol.Ready{GameID: "game1", PlayerID: "p2"})

	require.Eventually(t, func() bool {
		return alice.received(t, protocol.TypeGameState) &&
			bob.received(t, protocol.TypeGameState)
	}, time.Second, 2*time.Millisecond)
}

func TestReadyUsesEnvelopeSenderNotPayload(t *testing.T) {
	f := newFixture(t)
	f.random.QueueString("p1", "p2", "game1")

	alice := &fakePeer{}
	f.registry.Register("p1", alice)

	_, err := f.coordinator.Join("Alice", "", model.ModeClassic)
	require.NoError(t, err)
	_, err = f.coordinator.Join("Bob", "", model.ModeClassic)
	require.NoError(t, err)

	// A single sender claiming both identities must not start the session
	f.coordinator.HandleMessage("p1", &protocol.Ready{GameID: "game1", PlayerID: "p1"})
	f.coordinator.HandleMessage("p1", &protocol.Ready{GameID: "game1", PlayerID: "p2"})

	assert.False(t, alice.received(t, protocol.TypeGameState))
}
