package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingo/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the grading and progression API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Server.Port
		}

		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		handler := api.NewRouter(api.NewHandler(svc, newPlanner(), logger))
		return api.Serve(ctx, fmt.Sprintf(":%d", port), handler, cfg.Server.ShutdownTimeout, logger)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Listen port (overrides server.port)")
}
