package modules

import (
	"fmt"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Creator applies a concern to a freshly created host element.
type Creator interface {
	Create(v *vdom.VNode) error
}

// Updater applies the delta between two matched nodes.
type Updater interface {
	Update(old, v *vdom.VNode) error
}

// Named is implemented by appliers that want a readable name in errors.
type Named interface {
	Name() string
}

// Registry is an ordered, immutable set of appliers.
type Registry struct {
	appliers []any
	creators []Creator
	updaters []Updater
}

// NewRegistry builds a registry. Values implementing neither Creator nor
// Updater are ignored.
func NewRegistry(appliers ...any) *Registry {
	r := &Registry{}
	for _, a := range appliers {
		c, isCreator := a.(Creator)
		u, isUpdater := a.(Updater)
		if !isCreator && !isUpdater {
			continue
		}
		r.appliers = append(r.appliers, a)
		if isCreator {
			r.creators = append(r.creators, c)
		}
		if isUpdater {
			r.updaters = append(r.updaters, u)
		}
	}
	return r
}

// Appliers returns the registered appliers in order.
func (r *Registry) Appliers() []any {
	if r == nil {
		return nil
	}
	return append([]any(nil), r.appliers...)
}

// Names returns the applier names in order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.appliers))
	for i, a := range r.appliers {
		names[i] = nameOf(a)
	}
	return names
}

// Create runs every Creator in order.
func (r *Registry) Create(v *vdom.VNode) error {
	if r == nil {
		return nil
	}
	for _, c := range r.creators {
		if err := c.Create(v); err != nil {
			return failure(c, "create", v, err)
		}
	}
	return nil
}

// Update runs every Updater in order.
func (r *Registry) Update(old, v *vdom.VNode) error {
	if r == nil {
		return nil
	}
	for _, u := range r.updaters {
		if err := u.Update(old, v); err != nil {
			return failure(u, "update", v, err)
		}
	}
	return nil
}

func nameOf(a any) string {
	if n, ok := a.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", a)
}

func failure(a any, phase string, v *vdom.VNode, err error) error {
	return errors.New(errors.CodeModuleApplier).
		WithDetailf("applier %q failed to %s %s", nameOf(a), phase, v).
		Wrap(err)
}
