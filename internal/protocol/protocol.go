// Package protocol defines the JSON message envelope exchanged over a
// player's WebSocket connection. The envelope is a closed tagged union on
// the "type" field; unknown or malformed envelopes are rejected by Decode.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Type is the envelope discriminator
type Type string

const (
	// Server → client
	TypeGameMatched  Type = "game_matched"
	TypeNotification Type = "classic_notification"
	TypeGameState    Type = "game_state"
	TypeMatchEnd     Type = "MATCH_END"

	// Client → server
	TypeReady      Type = "ready"
	TypePaddleMove Type = "paddle_move"
)

// Notification statuses
const (
	StatusConnected = "connected"
	StatusPlaying   = "playing"
	StatusFinished  = "finished"
	StatusMatched   = "matched"
)

// Message is implemented by every envelope kind
type Message interface {
	MessageType() Type
}

// PlayerState is a participant as seen on the wire
type PlayerState struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score int     `json:"score"`
}

// Ball is the ball as seen on the wire
type Ball struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// GameMatched tells a participant a session has formed. Player and Opponent
// are perspective-swapped per recipient.
type GameMatched struct {
	Type     Type        `json:"type"`
	Status   string      `json:"status"`
	GameID   string      `json:"gameId"`
	Player   PlayerState `json:"player"`
	Opponent PlayerState `json:"opponent"`
}

func (GameMatched) MessageType() Type { return TypeGameMatched }

// Notification is a session lifecycle notice (connected / finished)
type Notification struct {
	Type   Type   `json:"type"`
	Status string `json:"status"`
}

func (Notification) MessageType() Type { return TypeNotification }

// GameState is the per-tick state push, perspective-swapped per recipient
type GameState struct {
	Type     Type        `json:"type"`
	Status   string      `json:"status"`
	GameID   string      `json:"gameId"`
	Player   PlayerState `json:"player"`
	Opponent PlayerState `json:"opponent"`
	Ball     Ball        `json:"ball"`
}

func (GameState) MessageType() Type { return TypeGameState }

// MatchEnd is the terminal notice for a match
type MatchEnd struct {
	Type   Type   `json:"type"`
	Result string `json:"result"`
}

func (MatchEnd) MessageType() Type { return TypeMatchEnd }

// Ready is a readiness acknowledgment from a client
type Ready struct {
	Type     Type   `json:"type"`
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

func (Ready) MessageType() Type { return TypeReady }

// PaddleMove is a paddle input event from a client
type PaddleMove struct {
	Type     Type    `json:"type"`
	GameID   string  `json:"gameId"`
	PlayerID string  `json:"playerId"`
	DeltaY   float64 `json:"deltaY"`
}

func (PaddleMove) MessageType() Type { return TypePaddleMove }

// Encode marshals a message to its wire form
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode parses a wire envelope into its typed message. It returns an error
// for malformed JSON and for types outside the closed union.
func Decode(data []byte) (Message, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}

	var msg Message
	switch head.Type {
	case TypeGameMatched:
		msg = &GameMatched{}
	case TypeNotification:
		msg = &Notification{}
	case TypeGameState:
		msg = &GameState{}
	case TypeMatchEnd:
		msg = &MatchEnd{}
	case TypeReady:
		msg = &Ready{}
	case TypePaddleMove:
		msg = &PaddleMove{}
	default:
		return nil, fmt.Errorf("unknown message type %q", head.Type)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("malformed %s payload: %w", head.Type, err)
	}
	return msg, nil
}
