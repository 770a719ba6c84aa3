package model

import "time"

// GameID uniquely identifies a session
type GameID string

// SessionStatus is the lifecycle state of a session.
// Transitions are monotonic: waiting_ready → playing → finished, with
// waiting_ready → finished permitted when the readiness handshake fails.
type SessionStatus string

const (
	StatusWaitingReady SessionStatus = "waiting_ready"
	StatusPlaying      SessionStatus = "playing"
	StatusFinished     SessionStatus = "finished"
)

// PlayerSlot identifies which side of a session a player occupies.
// First is the player who was waiting in the queue; Second is the player
// whose join formed the session.
type PlayerSlot int

const (
	SlotFirst PlayerSlot = iota
	SlotSecond
)

// Session is one paired match between exactly two players
type Session struct {
	ID         GameID
	Mode       GameMode
	First      Player
	Second     Player
	Status     SessionStatus
	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// Peer returns the other participant relative to the given slot
func (s *Session) Peer(slot PlayerSlot) Player {
	if slot == SlotFirst {
		return s.Second
	}
	return s.First
}

// PlayerBySlot returns the participant in the given slot
func (s *Session) PlayerBySlot(slot PlayerSlot) Player {
	if slot == SlotFirst {
		return s.First
	}
	return s.Second
}

// SlotOf returns the slot occupied by the given player, if any
func (s *Session) SlotOf(id PlayerID) (PlayerSlot, bool) {
	switch id {
	case s.First.ID:
		return SlotFirst, true
	case s.Second.ID:
		return SlotSecond, true
	}
	return 0, false
}

// EndReason records why a session reached finished
type EndReason string

const (
	EndReasonScore        EndReason = "score"
	EndReasonReadyTimeout EndReason = "ready_timeout"
	EndReasonDisconnect   EndReason = "disconnect"
)

// MatchSummary is the archived record of a finished session
type MatchSummary struct {
	GameID      GameID    `json:"game_id"`
	Mode        GameMode  `json:"mode"`
	First       Player    `json:"first"`
	Second      Player    `json:"second"`
	FirstScore  int       `json:"first_score"`
	SecondScore int       `json:"second_score"`
	Winner      PlayerID  `json:"winner,omitempty"`
	Reason      EndReason `json:"reason"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
