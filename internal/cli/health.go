package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

const healthPollInterval = 250 * time.Millisecond

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the tourney server is up",
		Long: `Check that the tourney server is up.

With --wait the check is retried until the server answers or the wait
elapses, which is handy when a script starts the server alongside an overlay.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := pollHealth(wait)
			if err != nil {
				return err
			}
			result.Server = cfg.ServerURL
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying for up to this long")
	return cmd
}

func pollHealth(wait time.Duration) (HealthResult, error) {
	deadline := time.Now().Add(wait)
	for {
		var result HealthResult
		err := client.Get("/api/v1/health", &result)
		if err == nil {
			return result, nil
		}
		// A reply from the server means it is up but unhealthy; don't retry that
		var serverErr *ServerError
		if errors.As(err, &serverErr) || time.Now().Add(healthPollInterval).After(deadline) {
			return HealthResult{}, err
		}
		time.Sleep(healthPollInterval)
	}
}
