package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lopn/routing/logging"
	"github.com/lopn/routing/metrics"
)

func serveCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo routes with /metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Address = addr
			}
			logger := logging.NewLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

			reg := prometheus.NewRegistry()
			collector := metrics.New(cfg.MetricsNamespace)
			if err := collector.Register(reg); err != nil {
				return err
			}

			r, cleanup, err := buildRouter(cmd.Context(), cfg, logger, collector, opts.dsn)
			if err != nil {
				return err
			}
			defer cleanup()

			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler(reg))
			mux.Handle("/", r)

			logger.Info("routes registered", slog.Int("count", len(r.Routes())))
			return r.RunWithSignals(cmd.Context(), mux)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overriding config")
	return cmd
}
