package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/ftpong/pong-server/internal/protocol"
)

const paddleStep = 15.0

func newPlayCmd() *cobra.Command {
	var mode string
	var playerID string

	cmd := &cobra.Command{
		Use:   "play <name>",
		Short: "Join matchmaking and play a match",
		Long: `Join the matchmaking queue, wait for an opponent, and play over the
server's WebSocket protocol.

Readiness is acknowledged automatically once the match forms. During play,
type "w" + Enter to move the paddle up and "s" + Enter to move it down.

Press Ctrl+C to forfeit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"playerName": args[0]}
			if playerID != "" {
				body["playerId"] = playerID
			}
			if mode != "" {
				body["gameMode"] = mode
			}

			var joined JoinResult
			if err := client.Post("/join", body, &joined); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Joined as %s (%s)", args[0], joined.PlayerID))
			if joined.Status == "waiting" {
				out.PrintMessage("Waiting for an opponent...")
			}

			return play(joined.PlayerID, out)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Game mode (default classic)")
	cmd.Flags().StringVar(&playerID, "player-id", "", "Reuse an existing player ID")

	return cmd
}

// play runs the WebSocket session until the match ends or the user quits
func play(playerID string, out *Output) error {
	conn, _, err := websocket.DefaultDialer.Dial(client.SocketURL(playerID), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Paddle input from stdin
	moves := make(chan float64)
	go readMoves(moves)

	// Inbound messages
	type inbound struct {
		msg protocol.Message
		err error
	}
	msgCh := make(chan inbound)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				msgCh <- inbound{err: err}
				return
			}
			msg, err := protocol.Decode(data)
			if err != nil {
				continue
			}
			msgCh <- inbound{msg: msg}
		}
	}()

	var gameID string
	for {
		select {
		case <-sigCh:
			out.PrintMessage("Disconnecting")
			return nil

		case deltaY := <-moves:
			if gameID == "" {
				continue
			}
			send(conn, &protocol.PaddleMove{
				Type:     protocol.TypePaddleMove,
				GameID:   gameID,
				PlayerID: playerID,
				DeltaY:   deltaY,
			})

		case in := <-msgCh:
			if in.err != nil {
				return fmt.Errorf("connection lost: %w", in.err)
			}

			switch m := in.msg.(type) {
			case *protocol.GameMatched:
				gameID = m.GameID
				out.PrintMessage(fmt.Sprintf("Matched against %s (game %s)", m.Opponent.Name, m.GameID))

			case *protocol.Notification:
				if m.Status == protocol.StatusConnected && gameID != "" {
					send(conn, &protocol.Ready{
						Type:     protocol.TypeReady,
						GameID:   gameID,
						PlayerID: playerID,
					})
					out.PrintMessage("Ready")
				}

			case *protocol.GameState:
				printState(m)

			case *protocol.MatchEnd:
				out.PrintMessage(fmt.Sprintf("Match over: %s", m.Result))
				return nil
			}
		}
	}
}

func readMoves(moves chan<- float64) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch scanner.Text() {
		case "w":
			moves <- -paddleStep
		case "s":
			moves <- paddleStep
		}
	}
}

func send(conn *websocket.Conn, msg protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func printState(s *protocol.GameState) {
	fmt.Printf("\r%s %d - %d %s  ball(%.0f,%.0f)  paddle y=%.0f   ",
		s.Player.Name, s.Player.Score, s.Opponent.Score, s.Opponent.Name,
		s.Ball.X, s.Ball.Y, s.Player.Y)
}
