package engine

import "math/rand/v2"

// Field and paddle geometry for classic pong
const (
	FieldWidth   = 900.0
	FieldHeight  = 550.0
	PaddleWidth  = 10.0
	PaddleHeight = 100.0
	PlayerOffset = 20.0
)

// Config tunes the classic engine
type Config struct {
	// WinningScore ends the match once a player reaches it
	WinningScore int
}

// DefaultConfig returns the standard classic-mode settings
func DefaultConfig() Config {
	return Config{WinningScore: 3}
}

// Classic is the two-paddle pong simulation
type Classic struct {
	cfg Config
}

// NewClassic creates a classic engine
func NewClassic(cfg Config) *Classic {
	if cfg.WinningScore <= 0 {
		cfg.WinningScore = DefaultConfig().WinningScore
	}
	return &Classic{cfg: cfg}
}

// Ensure Classic implements Engine
var _ Engine = (*Classic)(nil)

// NewState places both paddles at mid-field and serves the ball
func (e *Classic) NewState() *State {
	s := &State{
		Left:  Paddle{X: PlayerOffset, Y: FieldHeight / 2},
		Right: Paddle{X: FieldWidth - PlayerOffset, Y: FieldHeight / 2},
	}
	e.resetBall(s)
	return s
}

// resetBall serves from the horizontal centre with a random direction
func (e *Classic) resetBall(s *State) {
	vx := 2.0
	if rand.IntN(2) == 0 {
		vx = -2.0
	}
	vy := 2.0
	if rand.IntN(2) == 0 {
		vy = -2.0
	}
	s.Ball = Ball{
		X:  FieldWidth / 2,
		Y:  rand.Float64() * FieldHeight,
		VX: vx,
		VY: vy,
	}
}

// Step advances the ball, handles wall and paddle bounces, and scores goals
func (e *Classic) Step(s *State) {
	s.Ball.X += s.Ball.VX
	s.Ball.Y += s.Ball.VY

	// Wall bounce, with a slight horizontal speed-up on each bounce
	if s.Ball.Y <= 0 {
		s.Ball.Y = 10
		s.Ball.VY = -s.Ball.VY
		s.Ball.VX += speedup(s.Ball.VX)
	} else if s.Ball.Y >= FieldHeight {
		s.Ball.Y = FieldHeight - 10
		s.Ball.VY = -s.Ball.VY
		s.Ball.VX += speedup(s.Ball.VX)
	}

	e.paddleCollision(s)

	// Goal lines sit just behind each paddle
	if s.Ball.X < PlayerOffset-10 && s.Ball.VX < 0 {
		s.Right.Score++
		e.resetBall(s)
	} else if s.Ball.X > FieldWidth-PlayerOffset+10 && s.Ball.VX > 0 {
		s.Left.Score++
		e.resetBall(s)
	}
}

func speedup(vx float64) float64 {
	if vx < 0 {
		return -1
	}
	return 1
}

// paddleCollision reflects the ball when it reaches a paddle's face
func (e *Classic) paddleCollision(s *State) {
	const kick = 4.0

	if s.Ball.X <= s.Left.X+PaddleWidth && s.Ball.VX < 0 {
		bounceOffPaddle(&s.Ball, s.Left.Y, kick)
	} else if s.Ball.X >= s.Right.X-PaddleWidth && s.Ball.VX > 0 {
		bounceOffPaddle(&s.Ball, s.Right.Y, kick)
	}
}

func bounceOffPaddle(b *Ball, paddleY, kick float64) {
	half := PaddleHeight / 2
	if b.Y < paddleY-half || b.Y > paddleY+half {
		return
	}

	// Centre hits reflect flat; edge hits kick the ball faster
	if b.Y >= paddleY-2 && b.Y <= paddleY+2 {
		if b.VX < 0 {
			b.VX = 2
		} else {
			b.VX = -2
		}
		return
	}

	if b.VX < 0 {
		b.VX = -(b.VX - kick)
	} else {
		b.VX = -(b.VX + kick)
	}
}

// MovePaddle shifts a paddle vertically, clamped to the field
func (e *Classic) MovePaddle(s *State, side Side, deltaY float64) {
	p := &s.Left
	if side == SideRight {
		p = &s.Right
	}

	half := PaddleHeight / 2
	next := p.Y + deltaY
	if next+half > FieldHeight || next-half < 0 {
		return
	}
	p.Y = next
}

// Winner reports the side that reached the winning score, if any
func (e *Classic) Winner(s *State) (Side, bool) {
	if s.Left.Score >= e.cfg.WinningScore {
		return SideLeft, true
	}
	if s.Right.Score >= e.cfg.WinningScore {
		return SideRight, true
	}
	return 0, false
}
