package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/sheetdiff/api"
	"github.com/TFMV/sheetdiff/logger"
	"github.com/spf13/cobra"
)

// newServeCommand creates the command running the HTTP API.
func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve comparisons over HTTP",
		Long: `serve starts an HTTP server exposing GET /health, GET /version and
POST /diff. POST /diff takes a multipart form with the uploads file_a and
file_b and the optional fields sheet, key, ignore and strict_empty.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := initLogger(cfg)
			defer logger.Sync()

			// Stop on SIGINT or SIGTERM
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(api.ServerOptions{
				Port:      cfg.Server.Port,
				AccessLog: cmd.ErrOrStderr(),
				Log:       log,
			})
			return server.Start(ctx)
		},
	}

	cmd.Flags().Int("port", 8080, "Port to listen on")
	return cmd
}
