package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Inspect rooms",
	}

	cmd.AddCommand(newRoomShowCmd(cfg))
	cmd.AddCommand(newRoomDrawsCmd(cfg))

	return cmd
}

func newRoomShowCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <room-id>",
		Short: "Show a room's players and state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := NewClient(cfg.ServerURL).Get(fmt.Sprintf("/api/v1/rooms/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomDrawsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "draws <room-id>",
		Short: "Show the numbers or terms drawn by the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DrawHistory

			if err := NewClient(cfg.ServerURL).Get(fmt.Sprintf("/api/v1/rooms/%s/draws", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
