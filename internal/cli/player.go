package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Roster commands",
	}

	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerRemoveCmd())
	cmd.AddCommand(newPlayerRenameCmd())

	return cmd
}

func newPlayerAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <tournament> <name>",
		Short: "Add a player; during play they wait on the bench until the next reset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[1]}
			var result Tournament

			if err := client.Post(tournamentPath(args[0], "players"), req, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}

func newPlayerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <tournament> <name>",
		Short: "Remove a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Tournament

			if err := client.Delete(tournamentPath(args[0], "players", url.PathEscape(args[1])), &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}

func newPlayerRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <tournament> <old-name> <new-name>",
		Short: "Replace a player's name everywhere it appears",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"newName": args[2]}
			var result Tournament

			if err := client.Put(tournamentPath(args[0], "players", url.PathEscape(args[1])), req, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}
