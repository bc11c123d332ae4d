package hooks

import "github.com/vango-dev/reconcile/pkg/vdom"

// Funcs adapts plain functions to every hook interface. Nil fields are
// no-ops.
type Funcs struct {
	OnCreate func(v *vdom.VNode) error
	OnInsert func(v *vdom.VNode, parent, ref vdom.Handle) error
	OnMove   func(v *vdom.VNode, parent, ref vdom.Handle) error
	OnUpdate func(old, v *vdom.VNode) error
	OnRemove func(v *vdom.VNode, parent vdom.Handle) error
}

// Create implements CreateHook.
func (f Funcs) Create(v *vdom.VNode) error {
	if f.OnCreate == nil {
		return nil
	}
	return f.OnCreate(v)
}

// Insert implements InsertHook.
func (f Funcs) Insert(v *vdom.VNode, parent, ref vdom.Handle) error {
	if f.OnInsert == nil {
		return nil
	}
	return f.OnInsert(v, parent, ref)
}

// Move implements MoveHook.
func (f Funcs) Move(v *vdom.VNode, parent, ref vdom.Handle) error {
	if f.OnMove == nil {
		return nil
	}
	return f.OnMove(v, parent, ref)
}

// Update implements UpdateHook.
func (f Funcs) Update(old, v *vdom.VNode) error {
	if f.OnUpdate == nil {
		return nil
	}
	return f.OnUpdate(old, v)
}

// Remove implements RemoveHook.
func (f Funcs) Remove(v *vdom.VNode, parent vdom.Handle) error {
	if f.OnRemove == nil {
		return nil
	}
	return f.OnRemove(v, parent)
}
