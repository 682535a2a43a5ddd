package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup commands",
	}

	cmd.AddCommand(newBackupListCmd())
	cmd.AddCommand(newBackupRestoreCmd())
	cmd.AddCommand(newBackupDeleteCmd())
	cmd.AddCommand(newBackupCleanupCmd())

	return cmd
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BackupList
			if err := client.Get("/api/v1/backups", &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newBackupRestoreCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "restore <backup-id|tournament-id>",
		Short: "Restore a backup; a tournament id restores its newest backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"overwrite": overwrite}
			var result Tournament
			if err := client.Post("/api/v1/backups/"+url.PathEscape(args[0])+"/restore", req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing tournament with the same id")

	return cmd
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <backup-id>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/backups/"+url.PathEscape(args[0]), nil); err != nil {
				return err
			}
			NewOutputTo(cfg.Output, cmd.OutOrStdout()).PrintMessage("Backup deleted")
			return nil
		},
	}
}

func newBackupCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Run the retention sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CleanupResult
			if err := client.Post("/api/v1/maintenance/cleanup", nil, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}
