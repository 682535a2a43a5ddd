package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/services/auth"
)

func newLoginCmd() *cobra.Command {
	var operator, key string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return fmt.Errorf("--key is required")
			}

			req := map[string]string{
				"operator": operator,
				"key":      key,
			}
			var result Session

			if err := client.Post("/api/v1/session", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&operator, "operator", "", "Operator name for audit logs")
	cmd.Flags().StringVar(&key, "key", "", "Operator key (required)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the operator session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token != "" {
				if err := client.Delete("/api/v1/session", nil); err != nil {
					return err
				}
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutputTo(cfg.Output, cmd.OutOrStdout()).PrintMessage("Logged out")
			return nil
		},
	}
}

func newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key <key>",
		Short: "Hash an operator key for OPERATOR_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashKey(args[0])
			if err != nil {
				return err
			}
			NewOutputTo(cfg.Output, cmd.OutOrStdout()).PrintMessage(hash)
			return nil
		},
	}
}
