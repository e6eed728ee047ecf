package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/remedy/internal/metrics"
	"github.com/Iron-Ham/remedy/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Long: `Start an HTTP server that turns posted analysis documents into plans.

  POST /v1/plans           analysis document (JSON or YAML) -> plan
  POST /v1/plans/validate  plan JSON -> validation result
  GET  /healthz            liveness probe
  GET  /metrics            Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			if addr != "" {
				env.cfg.Server.Addr = addr
			}

			srv := server.New(server.Options{
				Addr:         env.cfg.Server.Addr,
				MaxBodyBytes: env.cfg.Server.MaxBodyBytes,
				Planner:      env.planner,
				Ingest:       ingestOptions(env.cfg),
				Logger:       env.logger,
				Metrics:      metrics.NewCollector(),
				Version:      Version,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", env.cfg.Server.Addr)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8088)")
	return cmd
}
