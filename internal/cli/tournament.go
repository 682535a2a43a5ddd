package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/tournament"
)

// tournamentPath builds an API path for a tournament given its id or title
func tournamentPath(idOrTitle string, parts ...string) string {
	path := "/api/v1/tournaments/" + url.PathEscape(tournament.IDFromTitle(idOrTitle))
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

func newTournamentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tournament",
		Aliases: []string{"t"},
		Short:   "Tournament commands",
		Long: `Tournament commands.

A tournament can be referred to by its id or by its title.`,
	}

	cmd.AddCommand(newTournamentListCmd())
	cmd.AddCommand(newTournamentGetCmd())
	cmd.AddCommand(newTournamentCreateCmd())
	cmd.AddCommand(newTournamentActionCmd("start", "Generate the bracket and start play", "start"))
	cmd.AddCommand(newTournamentActionCmd("stop", "End the tournament without a winner", "stop"))
	cmd.AddCommand(newTournamentActionCmd("reset", "Reset the bracket (undoable for 30 seconds)", "reset"))
	cmd.AddCommand(newTournamentActionCmd("undo", "Undo the most recent reset", "undo-reset"))
	cmd.AddCommand(newTournamentCanUndoCmd())
	cmd.AddCommand(newTournamentStatusCmd())
	cmd.AddCommand(newTournamentStandingsCmd())
	cmd.AddCommand(newTournamentCurrentCmd())
	cmd.AddCommand(newTournamentResultCmd())
	cmd.AddCommand(newTournamentSettingsCmd())
	cmd.AddCommand(newTournamentPositionCmd())
	cmd.AddCommand(newTournamentOverlayCmd())
	cmd.AddCommand(newTournamentVisibilityCmd("show", true))
	cmd.AddCommand(newTournamentVisibilityCmd("hide", false))
	cmd.AddCommand(newTournamentRemoveCmd())

	return cmd
}

func newTournamentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tournaments",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TournamentList
			if err := client.Get("/api/v1/tournaments", &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <tournament>",
		Short: "Show a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Tournament
			if err := client.Get(tournamentPath(args[0]), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentCreateCmd() *cobra.Command {
	var (
		players         []string
		format          string
		position        string
		overlayInstance string
		resetOnLoad     bool
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a tournament, or reconfigure the one with the same title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"title":       args[0],
				"players":     players,
				"resetOnLoad": resetOnLoad,
			}
			if format != "" {
				settings := model.DefaultSettings()
				settings.Format = model.Format(format)
				req["settings"] = settings
			}
			if position != "" {
				req["position"] = position
			}
			if overlayInstance != "" {
				req["overlayInstance"] = overlayInstance
			}

			var result Tournament
			if err := client.Post("/api/v1/tournaments", req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&players, "player", "p", nil, "Player name (repeatable or comma separated)")
	cmd.Flags().StringVar(&format, "format", "", "Format: single-elimination, double-elimination, round-robin")
	cmd.Flags().StringVar(&position, "position", "", "Display position, e.g. \"Top Left\" or \"Random\"")
	cmd.Flags().StringVar(&overlayInstance, "overlay", "", "Display instance")
	cmd.Flags().BoolVar(&resetOnLoad, "reset", false, "Reseed an existing active tournament")

	return cmd
}

// newTournamentActionCmd builds a command that posts to a tournament sub-path
func newTournamentActionCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <tournament>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Tournament
			if err := client.Post(tournamentPath(args[0], action), nil, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentCanUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "can-undo <tournament>",
		Short: "Check whether a reset can still be undone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CanUndoResult
			if err := client.Get(tournamentPath(args[0], "undo-reset"), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <tournament>",
		Short: "Show tournament progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatusResult
			if err := client.Get(tournamentPath(args[0], "status"), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <tournament>",
		Short: "Show round-robin standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Standings
			if err := client.Get(tournamentPath(args[0], "standings"), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current <tournament>",
		Short: "Show the first open match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Get(tournamentPath(args[0], "current-match"), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentResultCmd() *cobra.Command {
	var (
		matchID      string
		matchNumber  int
		drawHandling string
	)

	cmd := &cobra.Command{
		Use:   "result <tournament> <1|2|draw>",
		Short: "Report a match result",
		Long: `Report a match result.

Without --match or --number the first open match is resolved.
Draws are resolved with --draw: replay (default), both-advance or random.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			winner := strings.ToLower(args[1])
			req := map[string]any{"winner": winner}
			if drawHandling != "" {
				req["drawHandling"] = drawHandling
			}

			path := tournamentPath(args[0], "result")
			if matchID != "" {
				if matchNumber != 0 {
					return fmt.Errorf("--match and --number are mutually exclusive")
				}
				path = tournamentPath(args[0], "matches", url.PathEscape(matchID), "result")
			} else if matchNumber != 0 {
				req["matchNumber"] = matchNumber
			}

			var result Tournament
			if err := client.Post(path, req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&matchID, "match", "", "Match id")
	cmd.Flags().IntVar(&matchNumber, "number", 0, "Match number")
	cmd.Flags().StringVar(&drawHandling, "draw", "", "Draw handling: replay, both-advance, random")

	return cmd
}

func newTournamentSettingsCmd() *cobra.Command {
	var (
		format          string
		displayDuration int
		allowDraws      bool
	)

	cmd := &cobra.Command{
		Use:   "settings <tournament>",
		Short: "Update tournament settings",
		Long: `Update tournament settings.

Changing the format resets the bracket; the reset can be undone for 30 seconds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("format") {
				req["format"] = format
			}
			if cmd.Flags().Changed("display-duration") {
				req["displayDuration"] = displayDuration
			}
			if cmd.Flags().Changed("allow-draws") {
				req["roundRobin"] = map[string]any{"allowDraws": allowDraws}
			}
			if len(req) == 0 {
				return fmt.Errorf("no settings given")
			}

			var result Tournament
			if err := client.Patch(tournamentPath(args[0], "settings"), req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Format: single-elimination, double-elimination, round-robin")
	cmd.Flags().IntVar(&displayDuration, "display-duration", 0, "Seconds the result stays on screen")
	cmd.Flags().BoolVar(&allowDraws, "allow-draws", false, "Allow draws in round robin")

	return cmd
}

func newTournamentPositionCmd() *cobra.Command {
	var x, y int

	cmd := &cobra.Command{
		Use:   "position <tournament> <position>",
		Short: "Move the tournament on its display",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"position": args[1]}
			if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
				req["customCoords"] = map[string]int{"x": x, "y": y}
			}

			var result Tournament
			if err := client.Patch(tournamentPath(args[0], "position"), req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "Custom x coordinate")
	cmd.Flags().IntVar(&y, "y", 0, "Custom y coordinate")

	return cmd
}

func newTournamentOverlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overlay <tournament> <instance>",
		Short: "Move the tournament to another display instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"overlayInstance": args[1]}
			var result Tournament
			if err := client.Patch(tournamentPath(args[0], "overlay"), req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentVisibilityCmd(use string, visible bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <tournament>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " the tournament on its display",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"visible": visible}
			var result Tournament
			if err := client.Post(tournamentPath(args[0], "visibility"), req, &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}

func newTournamentRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <tournament>",
		Short: "Remove a tournament, keeping a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Backup
			if err := client.Delete(tournamentPath(args[0]), &result); err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}
}
