package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/pkg/metrics"
	"github.com/vango-dev/reconcile/pkg/server"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inspection server",
		Long: `Serve the reconciler over HTTP and WebSocket.

Routes:
  POST /patch    patch one JSON tree into another and report the result
  GET  /ws       remote host session streaming binary mutation frames
  GET  /metrics  Prometheus metrics
  GET  /healthz  liveness

Examples:
  vdiff serve
  vdiff serve --addr=127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if noMetrics {
				cfg.Metrics.Enabled = false
			}

			logger, err := cfg.Log.NewLogger(os.Stderr)
			if err != nil {
				return err
			}

			sc := &server.ServerConfig{
				Address:         cfg.Server.Addr,
				ReadLimit:       cfg.Server.ReadLimit,
				ShutdownTimeout: cfg.ShutdownWindow(),
				Modules:         cfg.Modules,
				MetricsPath:     cfg.Metrics.Path,
				Logger:          logger,
			}
			if cfg.Tracing.TracerName != "" {
				sc.Tracer = otel.Tracer(cfg.Tracing.TracerName)
			}
			if cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				sc.Metrics = metrics.New(
					metrics.WithNamespace(cfg.Metrics.Namespace),
					metrics.WithRegistry(reg),
				)
				sc.Gatherer = reg
			}

			srv, err := server.New(sc)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from "+config.ConfigFileName+")")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable metrics collection and the metrics endpoint")

	return cmd
}
