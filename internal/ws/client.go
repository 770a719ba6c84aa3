package ws

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// ErrSendBufferFull is returned when a peer's outbound buffer is saturated
var ErrSendBufferFull = errors.New("send buffer full")

// ErrPeerClosed is returned when sending to a closed connection handle
var ErrPeerClosed = errors.New("connection closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Clients connect from other origins (CLI, game frontends)
		return true
	},
}

// Handler receives decoded inbound messages and connection lifecycle events
type Handler interface {
	// HandleConnect fires after a player's connection is registered
	HandleConnect(id model.PlayerID)

	// HandleMessage fires for each well-formed inbound envelope
	HandleMessage(id model.PlayerID, msg protocol.Message)

	// HandleDisconnect fires when a player's registered connection closes.
	// It does not fire for superseded connections.
	HandleDisconnect(id model.PlayerID)
}

// Client is one player's WebSocket connection
type Client struct {
	playerID model.PlayerID
	conn     *websocket.Conn
	logger   *slog.Logger

	send      chan []byte
	closeOnce sync.Once
	closed    chan struct{}
}

// Ensure Client implements Peer
var _ Peer = (*Client)(nil)

// Serve upgrades an HTTP request to a WebSocket connection, registers it for
// the player, and runs the read/write pumps. The read pump blocks until the
// connection closes.
func Serve(w http.ResponseWriter, r *http.Request, playerID model.PlayerID, registry *Registry, handler Handler, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed",
			slog.String("player_id", string(playerID)),
			slog.Any("error", err))
		return
	}

	client := &Client{
		playerID: playerID,
		conn:     conn,
		logger:   logger.With(slog.String("player_id", string(playerID))),
		send:     make(chan []byte, sendBufferSize),
		closed:   make(chan struct{}),
	}

	registry.Register(playerID, client)
	handler.HandleConnect(playerID)

	go client.writePump()
	client.readPump(registry, handler)
}

// Send queues a message for delivery. It never blocks: a saturated buffer or
// a closed connection yields an error that callers treat as a delivery miss.
func (c *Client) Send(data []byte) error {
	select {
	case <-c.closed:
		return ErrPeerClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close tears down the connection handle. Safe to call multiple times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// readPump reads inbound frames until the connection closes. Malformed
// envelopes are logged and dropped; the connection stays open.
func (c *Client) readPump(registry *Registry, handler Handler) {
	defer func() {
		if registry.Unregister(c.playerID, c) {
			handler.HandleDisconnect(c.playerID)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", slog.Any("error", err))
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			c.logger.Warn("dropping malformed message", slog.Any("error", err))
			continue
		}

		handler.HandleMessage(c.playerID, msg)
	}
}

// writePump drains the send buffer to the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			return
		}
	}
}
