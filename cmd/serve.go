package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application and the diagnostics API",
		Long: `Boots every provider and serves HTTP on APP_PORT until interrupted.

Examples:
  servicemanager serve
  curl localhost:8000/hello
  curl 'localhost:8000/_container/services/lookup?id=greeter'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := boot()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
}
