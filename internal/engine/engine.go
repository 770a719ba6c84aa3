// Package engine holds the game simulation that produces per-tick state for
// a session. The session coordinator drives it through the Engine interface
// and stays agnostic of the actual physics.
package engine

// Side identifies a paddle within the simulation. Left is the session's
// first player, Right the second.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Paddle is one player's paddle position and score
type Paddle struct {
	X     float64
	Y     float64
	Score int
}

// Ball is the ball position and velocity
type Ball struct {
	X  float64
	Y  float64
	VX float64
	VY float64
}

// State is the full simulation state for one session
type State struct {
	Left  Paddle
	Right Paddle
	Ball  Ball
}

// Engine advances a session's simulation. Implementations must be safe to
// drive from a single goroutine; the caller serializes access.
type Engine interface {
	// NewState returns the initial state for a fresh match
	NewState() *State

	// Step advances the simulation by one tick
	Step(s *State)

	// MovePaddle applies a paddle input event
	MovePaddle(s *State, side Side, deltaY float64)

	// Winner reports which side has won, if the match is decided
	Winner(s *State) (Side, bool)
}
