// Package metrics exports reconciler activity as Prometheus metrics.
//
// A Collector is both a patch.Observer and a hook subscriber:
//
//	c := metrics.New(metrics.WithNamespace("myapp"))
//	eng := patch.New(h, patch.WithObserver(c), patch.WithHooks(c))
//
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected:
//   - reconcile_patches_total: Counter of patch calls by status
//   - reconcile_patch_duration_seconds: Histogram of patch duration
//   - reconcile_patch_errors_total: Counter of failed patches by error code
//   - reconcile_nodes_total: Counter of node operations by op
//   - reconcile_hooks_total: Counter of hook invocations by hook
//   - reconcile_duplicate_keys_total: Counter of duplicate keys seen
//   - reconcile_active_sessions: Gauge of open inspection sessions
//   - reconcile_frames_sent_total: Counter of mutation frames sent
package metrics

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/hooks"
	"github.com/vango-dev/reconcile/pkg/patch"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reconcile").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for patch duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reconcile",
		// Patches are sub-millisecond for typical trees.
		Buckets:  prometheus.ExponentialBuckets(0.00001, 4, 10),
		Registry: prometheus.DefaultRegisterer,
	}
}

// Collector holds the reconciler metrics.
type Collector struct {
	patchesTotal   *prometheus.CounterVec
	patchDuration  prometheus.Histogram
	patchErrors    *prometheus.CounterVec
	nodesTotal     *prometheus.CounterVec
	hooksTotal     *prometheus.CounterVec
	duplicateKeys  prometheus.Counter
	activeSessions prometheus.Gauge
	framesSent     prometheus.Counter
}

// New creates and registers a Collector.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patch calls",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		patchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_duration_seconds",
			Help:        "Patch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		patchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_errors_total",
			Help:        "Total number of failed patches by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		nodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_total",
			Help:        "Total number of node operations by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		hooksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hooks_total",
			Help:        "Total number of lifecycle hook invocations",
			ConstLabels: config.ConstLabels,
		}, []string{"hook"}),

		duplicateKeys: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "duplicate_keys_total",
			Help:        "Total number of duplicate keys seen in children lists",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open inspection sessions",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of mutation frames sent",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObservePatch implements patch.Observer.
func (c *Collector) ObservePatch(stats patch.Stats, duration time.Duration, err error) {
	c.patchDuration.Observe(duration.Seconds())

	status := "success"
	if err != nil {
		status = "error"
		c.patchErrors.WithLabelValues(errorCode(err)).Inc()
	}
	c.patchesTotal.WithLabelValues(status).Inc()

	c.addNodes("create", stats.Created)
	c.addNodes("insert", stats.Inserted)
	c.addNodes("move", stats.Moved)
	c.addNodes("update", stats.Updated)
	c.addNodes("remove", stats.Removed)
	c.addNodes("set_text", stats.TextUpdates)
	if stats.DuplicateKeys > 0 {
		c.duplicateKeys.Add(float64(stats.DuplicateKeys))
	}
}

func (c *Collector) addNodes(op string, n int) {
	if n > 0 {
		c.nodesTotal.WithLabelValues(op).Add(float64(n))
	}
}

// errorCode returns the registered code of err, keeping label cardinality
// bounded.
func errorCode(err error) string {
	var re *errors.Error
	if stderrors.As(err, &re) && re.Code != "" {
		return re.Code
	}
	return "unknown"
}

// Create implements hooks.CreateHook.
func (c *Collector) Create(*vdom.VNode) error {
	c.hooksTotal.WithLabelValues(string(hooks.Create)).Inc()
	return nil
}

// Insert implements hooks.InsertHook.
func (c *Collector) Insert(*vdom.VNode, vdom.Handle, vdom.Handle) error {
	c.hooksTotal.WithLabelValues(string(hooks.Insert)).Inc()
	return nil
}

// Move implements hooks.MoveHook.
func (c *Collector) Move(*vdom.VNode, vdom.Handle, vdom.Handle) error {
	c.hooksTotal.WithLabelValues(string(hooks.Move)).Inc()
	return nil
}

// Update implements hooks.UpdateHook.
func (c *Collector) Update(*vdom.VNode, *vdom.VNode) error {
	c.hooksTotal.WithLabelValues(string(hooks.Update)).Inc()
	return nil
}

// Remove implements hooks.RemoveHook.
func (c *Collector) Remove(*vdom.VNode, vdom.Handle) error {
	c.hooksTotal.WithLabelValues(string(hooks.Remove)).Inc()
	return nil
}

// SessionOpened increments the active session gauge.
func (c *Collector) SessionOpened() {
	c.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (c *Collector) SessionClosed() {
	c.activeSessions.Dec()
}

// FrameSent counts one mutation frame sent to a remote host.
func (c *Collector) FrameSent() {
	c.framesSent.Inc()
}
