package cli

import (
	"github.com/spf13/cobra"
)

func newJoinCmd() *cobra.Command {
	var mode string
	var playerID string

	cmd := &cobra.Command{
		Use:   "join <name>",
		Short: "Join the matchmaking queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinResult

			body := map[string]string{"playerName": args[0]}
			if playerID != "" {
				body["playerId"] = playerID
			}
			if mode != "" {
				body["gameMode"] = mode
			}

			if err := client.Post("/join", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Game mode (default classic)")
	cmd.Flags().StringVar(&playerID, "player-id", "", "Reuse an existing player ID")

	return cmd
}
