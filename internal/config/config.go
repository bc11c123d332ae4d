package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/modules"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reconcile.json"

	// DefaultAddr is the default inspection server address.
	DefaultAddr = ":7070"

	// DefaultReadLimit is the default maximum request and message size.
	DefaultReadLimit = 1 << 20

	// DefaultShutdownTimeout is the default graceful shutdown window.
	DefaultShutdownTimeout = "5s"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "reconcile"

	// DefaultMetricsPath is the default metrics endpoint.
	DefaultMetricsPath = "/metrics"
)

// Config represents the complete reconcile.json configuration.
type Config struct {
	// Server contains inspection server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Modules lists the reference appliers to install, in order.
	Modules []string `json:"modules,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains inspection server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// ReadLimit caps request bodies and WebSocket messages, in bytes.
	ReadLimit int64 `json:"readLimit,omitempty"`

	// ShutdownTimeout is the graceful shutdown window (e.g., "5s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint and collects reconciler metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metric name prefix.
	Namespace string `json:"namespace,omitempty"`

	// Path is the metrics endpoint.
	Path string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName names the tracer patch spans are created with. Empty uses
	// the engine's default.
	TracerName string `json:"tracerName,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{Metrics: MetricsConfig{Enabled: true}}
	c.applyDefaults()
	return c
}

// Load reads reconcile.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrNew reads reconcile.json from dir, or returns the defaults when
// there is none.
func LoadOrNew(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if stderrors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidConfig).
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeInvalidConfig).
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeInvalidConfig).Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeInvalidConfig).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Modules == nil {
		c.Modules = slices.Clone(modules.DefaultNames)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.ReadLimit < 0 {
		return invalid("server.readLimit must not be negative")
	}
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil || d < 0 {
		return invalid(fmt.Sprintf("server.shutdownTimeout %q is not a duration", c.Server.ShutdownTimeout))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid(err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid(fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid(fmt.Sprintf("metrics.path %q must start with /", c.Metrics.Path))
	}
	seen := make(map[string]bool, len(c.Modules))
	for _, name := range c.Modules {
		if !slices.Contains(modules.DefaultNames, name) {
			return invalid(fmt.Sprintf("unknown module %q", name)).
				WithSuggestion("Known modules: " + strings.Join(modules.DefaultNames, ", "))
		}
		if seen[name] {
			return invalid(fmt.Sprintf("module %q listed twice", name))
		}
		seen[name] = true
	}
	return nil
}

func invalid(detail string) *errors.Error {
	return errors.New(errors.CodeInvalidConfig).WithDetail(detail)
}

// ShutdownWindow returns the parsed shutdown timeout.
func (c *Config) ShutdownWindow() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("log.level %q must be debug, info, warn or error", level)
	}
	return l, nil
}

// NewLogger builds a logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, invalid(err.Error())
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
