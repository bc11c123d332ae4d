package hooks

import (
	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Name identifies a lifecycle hook.
type Name string

const (
	Create Name = "create"
	Insert Name = "insert"
	Move   Name = "move"
	Update Name = "update"
	Remove Name = "remove"
)

// CreateHook runs once a new node's host element and data exist, before its
// children are built or it is attached.
type CreateHook interface {
	Create(v *vdom.VNode) error
}

// InsertHook runs once a new node is attached to parent before ref
// (NoHandle means appended).
type InsertHook interface {
	Insert(v *vdom.VNode, parent, ref vdom.Handle) error
}

// MoveHook runs when an existing node is repositioned within parent.
type MoveHook interface {
	Move(v *vdom.VNode, parent, ref vdom.Handle) error
}

// UpdateHook runs for every pair of nodes matched as the same node.
type UpdateHook interface {
	Update(old, v *vdom.VNode) error
}

// RemoveHook runs once per removed top-level node.
type RemoveHook interface {
	Remove(v *vdom.VNode, parent vdom.Handle) error
}

// Dispatcher holds ordered subscribers per hook. The zero value dispatches
// nothing.
type Dispatcher struct {
	create []CreateHook
	insert []InsertHook
	move   []MoveHook
	update []UpdateHook
	remove []RemoveHook
}

// New builds a Dispatcher. Each subscriber is registered for every hook
// interface it implements; nil subscribers are skipped.
func New(subscribers ...any) *Dispatcher {
	d := &Dispatcher{}
	for _, s := range subscribers {
		if s == nil {
			continue
		}
		if h, ok := s.(CreateHook); ok {
			d.create = append(d.create, h)
		}
		if h, ok := s.(InsertHook); ok {
			d.insert = append(d.insert, h)
		}
		if h, ok := s.(MoveHook); ok {
			d.move = append(d.move, h)
		}
		if h, ok := s.(UpdateHook); ok {
			d.update = append(d.update, h)
		}
		if h, ok := s.(RemoveHook); ok {
			d.remove = append(d.remove, h)
		}
	}
	return d
}

// Len returns the number of subscribers registered for the hook.
func (d *Dispatcher) Len(name Name) int {
	if d == nil {
		return 0
	}
	switch name {
	case Create:
		return len(d.create)
	case Insert:
		return len(d.insert)
	case Move:
		return len(d.move)
	case Update:
		return len(d.update)
	case Remove:
		return len(d.remove)
	default:
		return 0
	}
}

func failure(name Name, v *vdom.VNode, err error) error {
	return errors.New(errors.CodeHookFailure).
		WithDetailf("hook %q failed for %s", name, v).
		Wrap(err)
}

// Create dispatches the create hook.
func (d *Dispatcher) Create(v *vdom.VNode) error {
	if d == nil {
		return nil
	}
	for _, h := range d.create {
		if err := h.Create(v); err != nil {
			return failure(Create, v, err)
		}
	}
	return nil
}

// Insert dispatches the insert hook.
func (d *Dispatcher) Insert(v *vdom.VNode, parent, ref vdom.Handle) error {
	if d == nil {
		return nil
	}
	for _, h := range d.insert {
		if err := h.Insert(v, parent, ref); err != nil {
			return failure(Insert, v, err)
		}
	}
	return nil
}

// Move dispatches the move hook.
func (d *Dispatcher) Move(v *vdom.VNode, parent, ref vdom.Handle) error {
	if d == nil {
		return nil
	}
	for _, h := range d.move {
		if err := h.Move(v, parent, ref); err != nil {
			return failure(Move, v, err)
		}
	}
	return nil
}

// Update dispatches the update hook.
func (d *Dispatcher) Update(old, v *vdom.VNode) error {
	if d == nil {
		return nil
	}
	for _, h := range d.update {
		if err := h.Update(old, v); err != nil {
			return failure(Update, v, err)
		}
	}
	return nil
}

// Remove dispatches the remove hook.
func (d *Dispatcher) Remove(v *vdom.VNode, parent vdom.Handle) error {
	if d == nil {
		return nil
	}
	for _, h := range d.remove {
		if err := h.Remove(v, parent); err != nil {
			return failure(Remove, v, err)
		}
	}
	return nil
}
