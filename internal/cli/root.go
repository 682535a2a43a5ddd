package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tourney",
		Short: "CLI tool for the tournament bracket API",
		Long: `tourney is a CLI tool for running tournaments through the bracket API.

It covers tournament setup, match results, roster changes, reset and undo,
backups, and streaming of tournament events.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A --token flag or TOURNEY_TOKEN wins over the saved login
			if err := cfg.LoadToken(); err != nil {
				return err
			}
			client = NewClient(cfg)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: TOURNEY_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: TOURNEY_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: TOURNEY_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Trace each API request and reply on stderr")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newTournamentCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newHashKeyCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// printResult writes a result in the configured output format
func printResult(cmd *cobra.Command, data any) {
	NewOutputTo(cfg.Output, cmd.OutOrStdout()).Print(data)
}
