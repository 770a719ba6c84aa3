package request

// JoinRequest is the body for POST /join. PlayerID is optional; the server
// assigns one when absent. GameMode defaults to classic.
type JoinRequest struct {
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId,omitempty"`
	GameMode   string `json:"gameMode,omitempty"`
}
