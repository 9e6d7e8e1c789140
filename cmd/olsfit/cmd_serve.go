package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/olsfit/internal/server"
	"github.com/YuminosukeSato/olsfit/pkg/log"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation over HTTP",
		Long: `Start the HTTP API:

  GET  /health
  GET  /api/v1/sliders
  GET  /api/v1/simulate?intercept=&slope=&sigma=&n=&seed=
  GET  /api/v1/simulate/plot?format=png|svg&...
  POST /api/v1/resample`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.cfg.Server.Addr = addr
			}
			log.SetupLogger(a.cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("listening", "addr", a.cfg.Server.Addr)
			err := server.New(a.cfg).ListenAndServe(ctx)
			if err != nil && ctx.Err() == nil {
				return err
			}
			slog.Info("shut down", "cause", context.Cause(ctx))
			return nil
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config)")
	return cmd
}
