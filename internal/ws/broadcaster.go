package ws

import (
	"log/slog"

	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/protocol"
)

// Broadcaster delivers typed messages to session participants. Delivery is
// best-effort: a miss on one participant never aborts the other send.
type Broadcaster struct {
	registry *Registry
	logger   *slog.Logger
}

// NewBroadcaster creates a Broadcaster over the given registry
func NewBroadcaster(registry *Registry, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		logger:   logger.With(slog.String("component", "broadcaster")),
	}
}

// SendToPlayer delivers one message to one player. A player with no
// registered connection, or a saturated connection, counts as a delivery
// miss and is reported as an error without side effects on the caller.
func (b *Broadcaster) SendToPlayer(id model.PlayerID, msg protocol.Message) error {
	peer, ok := b.registry.Lookup(id)
	if !ok {
		return model.ErrNotConnected
	}

	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return peer.Send(data)
}

// SendToSession delivers a per-recipient message to both participants. The
// builder constructs each recipient's message from its slot, which is where
// the player/opponent perspective swap happens. Returns the number of
// successful deliveries.
func (b *Broadcaster) SendToSession(sess *model.Session, build func(slot model.PlayerSlot) protocol.Message) int {
	delivered := 0
	for _, slot := range []model.PlayerSlot{model.SlotFirst, model.SlotSecond} {
		recipient := sess.PlayerBySlot(slot)
		if err := b.SendToPlayer(recipient.ID, build(slot)); err != nil {
			b.logger.Warn("delivery miss",
				slog.String("game_id", string(sess.ID)),
				slog.String("player_id", string(recipient.ID)),
				slog.Any("error", err))
			continue
		}
		delivered++
	}
	return delivered
}
