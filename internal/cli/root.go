package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "bingo",
		Short: "CLI tool for the bingo server",
		Long: `bingo is a CLI tool for the bingo server.

It can inspect rooms over the JSON API, follow a room's event stream, and
play through an interactive WebSocket session.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: BINGO_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newRoomCmd(cfg))
	rootCmd.AddCommand(newEventsCmd(cfg))
	rootCmd.AddCommand(newPlayCmd(cfg))
	rootCmd.AddCommand(newHealthCmd(cfg))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
