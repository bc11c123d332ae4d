package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reconcile/pkg/metrics"
	"github.com/vango-dev/reconcile/pkg/modules"
)

// ServerConfig holds configuration for the inspection server.
type ServerConfig struct {
	// Address is the listen address.
	// Default: ":7070".
	Address string

	// ReadLimit caps POST bodies and WebSocket messages, in bytes.
	// Default: 1MB.
	ReadLimit int64

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 1024 each.
	ReadBufferSize  int
	WriteBufferSize int

	// WriteTimeout bounds a single WebSocket frame write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ReadHeaderTimeout is passed to http.Server.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout is the graceful shutdown window.
	// Default: 5 seconds.
	ShutdownTimeout time.Duration

	// CheckOrigin validates WebSocket origins. Default allows all, which
	// suits a local debugging tool.
	CheckOrigin func(r *http.Request) bool

	// Modules names the reference appliers each engine is built with.
	// Default: modules.DefaultNames.
	Modules []string

	// Metrics receives patch and session metrics. Nil disables them and
	// the metrics endpoint.
	Metrics *metrics.Collector

	// Gatherer backs the metrics endpoint.
	// Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// MetricsPath is where metrics are served.
	// Default: "/metrics".
	MetricsPath string

	// Tracer creates patch spans. Nil uses the engine's default.
	Tracer trace.Tracer

	// Logger is the base logger.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":7070",
		ReadLimit:         1 << 20,
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		CheckOrigin:       func(*http.Request) bool { return true },
		Modules:           modules.DefaultNames,
		Gatherer:          prometheus.DefaultGatherer,
		MetricsPath:       "/metrics",
		Logger:            slog.Default(),
	}
}

// withDefaults fills unset fields of c from DefaultServerConfig.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadLimit <= 0 {
		out.ReadLimit = defaults.ReadLimit
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.Modules == nil {
		out.Modules = defaults.Modules
	}
	if out.Gatherer == nil {
		out.Gatherer = defaults.Gatherer
	}
	if out.MetricsPath == "" {
		out.MetricsPath = defaults.MetricsPath
	}
	if out.Logger == nil {
		out.Logger = defaults.Logger
	}
	return &out
}
