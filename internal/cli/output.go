package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case JoinResult:
		o.printJoinResult(v)
	case MatchList:
		o.printMatchList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// JoinResult response type (matches API)
type JoinResult struct {
	Status   string `json:"status"`
	PlayerID string `json:"playerId"`
	GameID   string `json:"gameId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// MatchPlayer response type
type MatchPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Match response type
type Match struct {
	GameID      string      `json:"game_id"`
	Mode        string      `json:"mode"`
	First       MatchPlayer `json:"first"`
	Second      MatchPlayer `json:"second"`
	FirstScore  int         `json:"first_score"`
	SecondScore int         `json:"second_score"`
	Winner      string      `json:"winner,omitempty"`
	Reason      string      `json:"reason"`
}

// MatchList response type
type MatchList struct {
	Matches []Match `json:"matches"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printJoinResult(r JoinResult) {
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Player ID: %s\n", r.PlayerID)
	if r.GameID != "" {
		fmt.Printf("Game ID: %s\n", r.GameID)
	}
	if r.Message != "" {
		fmt.Println(r.Message)
	}
}

func (o *Output) printMatchList(l MatchList) {
	if len(l.Matches) == 0 {
		fmt.Println("No matches recorded")
		return
	}
	for _, m := range l.Matches {
		winner := m.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Printf("%s  %s %d - %d %s  winner=%s reason=%s\n",
			m.GameID, m.First.Name, m.FirstScore, m.SecondScore, m.Second.Name, winner, m.Reason)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
