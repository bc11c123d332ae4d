package patch

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/hooks"
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/modules"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Default tracer name for patch spans.
const defaultTracerName = "github.com/vango-dev/reconcile/pkg/patch"

// Stats counts what one Patch call did.
type Stats struct {
	Created       int `json:"created"`       // Host nodes created
	Inserted      int `json:"inserted"`      // New nodes attached
	Moved         int `json:"moved"`         // Existing nodes repositioned
	Updated       int `json:"updated"`       // Node pairs patched in place
	Removed       int `json:"removed"`       // Top-level nodes detached
	TextUpdates   int `json:"textUpdates"`   // Text or comment payloads rewritten
	DuplicateKeys int `json:"duplicateKeys"` // Duplicate keys seen in new children lists
}

// Result is the outcome of Run.
type Result struct {
	Elm   vdom.Handle
	Stats Stats
}

// Observer is notified after every patch, successful or not.
type Observer interface {
	ObservePatch(stats Stats, duration time.Duration, err error)
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	appliers    []any
	subscribers []any
	logger      *slog.Logger
	tracer      trace.Tracer
	observers   []Observer
	rootNS      string
}

// WithModules sets the module appliers, in order.
func WithModules(appliers ...any) Option {
	return func(o *options) {
		o.appliers = append(o.appliers, appliers...)
	}
}

// WithHooks adds hook subscribers, in order.
func WithHooks(subscribers ...any) Option {
	return func(o *options) {
		o.subscribers = append(o.subscribers, subscribers...)
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer sets the tracer. By default the global OpenTelemetry tracer
// provider is used.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithObserver adds a patch observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithNamespace sets the namespace inherited by roots that do not carry
// Data.NS. Engines that patch subtrees mounted inside an SVG element pass
// vdom.SVGNamespace; otherwise roots start in the HTML namespace.
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.rootNS = ns
	}
}

// removeOnly exposes only the RemoveHook of an applier, so appliers whose
// Create/Update methods match the hook signatures are not run twice.
type removeOnly struct{ hooks.RemoveHook }

// Engine reconciles virtual trees against a host. Its configuration is
// fixed at construction.
type Engine struct {
	host      host.Host
	modules   *modules.Registry
	hooks     *hooks.Dispatcher
	logger    *slog.Logger
	tracer    trace.Tracer
	observers []Observer
	rootNS    string
}

// New creates an Engine driving h.
func New(h host.Host, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	subscribers := append([]any(nil), o.subscribers...)
	for _, a := range o.appliers {
		if r, ok := a.(hooks.RemoveHook); ok {
			subscribers = append(subscribers, removeOnly{r})
		}
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer(defaultTracerName)
	}

	return &Engine{
		host:      h,
		modules:   modules.NewRegistry(o.appliers...),
		hooks:     hooks.New(subscribers...),
		logger:    logger,
		tracer:    tracer,
		observers: o.observers,
		rootNS:    o.rootNS,
	}
}

// Modules returns the module registry.
func (e *Engine) Modules() *modules.Registry {
	return e.modules
}

// Patch reconciles the host so that it reflects next and returns the
// host node of next (NoHandle after an unmount).
//
// parent is the host node the root lives in. It is required for a mount
// and may be NoHandle otherwise, in which case the host parent of prev is
// used. A root without Data.NS takes the namespace set by WithNamespace,
// not the namespace of parent. ctx carries tracing only; a started patch always runs to
// completion or failure.
func (e *Engine) Patch(ctx context.Context, parent vdom.Handle, prev, next *vdom.VNode) (vdom.Handle, error) {
	res, err := e.Run(ctx, parent, prev, next)
	return res.Elm, err
}

// Run is Patch returning the per-call statistics as well.
func (e *Engine) Run(ctx context.Context, parent vdom.Handle, prev, next *vdom.VNode) (res Result, err error) {
	start := time.Now()
	_, span := e.tracer.Start(ctx, "reconcile.patch",
		trace.WithAttributes(attribute.String("reconcile.op", opName(prev, next))))
	p := &patcher{Engine: e}

	defer func() {
		res.Stats = p.stats
		span.SetAttributes(
			attribute.Int("reconcile.created", p.stats.Created),
			attribute.Int("reconcile.inserted", p.stats.Inserted),
			attribute.Int("reconcile.moved", p.stats.Moved),
			attribute.Int("reconcile.updated", p.stats.Updated),
			attribute.Int("reconcile.removed", p.stats.Removed),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		for _, obs := range e.observers {
			obs.ObservePatch(p.stats, time.Since(start), err)
		}
	}()

	res.Elm, err = p.patchRoot(parent, prev, next)
	return res, err
}

func opName(prev, next *vdom.VNode) string {
	switch {
	case prev == nil && next == nil:
		return "noop"
	case prev == nil:
		return "mount"
	case next == nil:
		return "unmount"
	case vdom.SameNode(prev, next):
		return "update"
	default:
		return "replace"
	}
}

// patcher carries the state of a single Patch call.
type patcher struct {
	*Engine
	stats Stats
}

func (p *patcher) patchRoot(parent vdom.Handle, prev, next *vdom.VNode) (vdom.Handle, error) {
	if prev == nil && next == nil {
		return vdom.NoHandle, nil
	}

	if prev != nil && !prev.IsMaterialized() {
		return vdom.NoHandle, errors.New(errors.CodeInvalidNodeShape).
			WithDetailf("%s: previous root was never materialized", prev)
	}
	if parent == vdom.NoHandle && prev != nil {
		parent = p.host.Parent(prev.Elm)
	}

	switch {
	case prev == nil:
		if parent == vdom.NoHandle {
			return vdom.NoHandle, errors.New(errors.CodeHostFailure).
				WithDetailf("%s: no parent to mount into", next)
		}
		if err := p.createElm(next, p.rootNS); err != nil {
			return vdom.NoHandle, err
		}
		if err := p.insertNew(next, parent, vdom.NoHandle); err != nil {
			return vdom.NoHandle, err
		}
		return next.Elm, nil

	case next == nil:
		if parent == vdom.NoHandle {
			return vdom.NoHandle, errors.New(errors.CodeHostFailure).
				WithDetailf("%s: root is not attached", prev)
		}
		return vdom.NoHandle, p.removeNode(prev, parent)

	case vdom.SameNode(prev, next):
		if err := p.patchNode(prev, next, p.rootNS); err != nil {
			return vdom.NoHandle, err
		}
		return next.Elm, nil

	default:
		if parent == vdom.NoHandle {
			return vdom.NoHandle, errors.New(errors.CodeHostFailure).
				WithDetailf("%s: root is not attached", prev)
		}
		if err := p.replace(prev, next, parent, p.host.NextSibling(prev.Elm), p.rootNS); err != nil {
			return vdom.NoHandle, err
		}
		return next.Elm, nil
	}
}

func (p *patcher) hostErr(op string, v *vdom.VNode, err error) error {
	return errors.New(errors.CodeHostFailure).
		WithDetailf("%s %s", op, v).
		Wrap(err)
}
