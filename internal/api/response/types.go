package response

import (
	"time"

	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/services/matchmaking"
)

// JoinResponse is the response for POST /join
type JoinResponse struct {
	Status   string `json:"status"`
	PlayerID string `json:"playerId"`
	GameID   string `json:"gameId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// JoinResponseFromResult creates a JoinResponse from a join outcome
func JoinResponseFromResult(r *matchmaking.JoinResult) JoinResponse {
	resp := JoinResponse{
		Status:   string(r.Status),
		PlayerID: string(r.PlayerID),
		GameID:   string(r.GameID),
	}
	if r.Status == matchmaking.JoinWaiting {
		resp.Message = "Waiting for an opponent"
	}
	return resp
}

// Player represents a player in API responses
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:   string(p.ID),
		Name: p.Name,
	}
}

// Match represents one archived match in API responses
type Match struct {
	GameID      string    `json:"game_id"`
	Mode        string    `json:"mode"`
	First       Player    `json:"first"`
	Second      Player    `json:"second"`
	FirstScore  int       `json:"first_score"`
	SecondScore int       `json:"second_score"`
	Winner      string    `json:"winner,omitempty"`
	Reason      string    `json:"reason"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// MatchFromModel converts a model.MatchSummary to a response Match
func MatchFromModel(m *model.MatchSummary) Match {
	return Match{
		GameID:      string(m.GameID),
		Mode:        string(m.Mode),
		First:       PlayerFromModel(m.First),
		Second:      PlayerFromModel(m.Second),
		FirstScore:  m.FirstScore,
		SecondScore: m.SecondScore,
		Winner:      string(m.Winner),
		Reason:      string(m.Reason),
		StartedAt:   m.StartedAt,
		FinishedAt:  m.FinishedAt,
	}
}

// MatchesResponse is the response for GET /matches
type MatchesResponse struct {
	Matches []Match `json:"matches"`
}

// MatchesResponseFromModels converts a list of match summaries
func MatchesResponseFromModels(ms []*model.MatchSummary) MatchesResponse {
	matches := make([]Match, 0, len(ms))
	for _, m := range ms {
		matches = append(matches, MatchFromModel(m))
	}
	return MatchesResponse{Matches: matches}
}
