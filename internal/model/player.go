package model

// PlayerID uniquely identifies a player across the system
type PlayerID string

// GameMode selects which matchmaking queue a player waits in
type GameMode string

const (
	// ModeClassic is the default 1v1 pong mode
	ModeClassic GameMode = "classic"
)

// Player represents a game participant. Players are created on join and
// never mutated afterwards; live paddle/score state belongs to the engine.
type Player struct {
	ID   PlayerID
	Name string
}
