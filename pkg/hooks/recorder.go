package hooks

import (
	"fmt"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Event is one recorded hook invocation.
type Event struct {
	Hook   Name
	Node   *vdom.VNode
	Old    *vdom.VNode // update only
	Parent vdom.Handle // insert, move and remove
	Ref    vdom.Handle // insert and move
}

// String returns a one-line description, e.g. `insert <li key=2> #5`.
func (e Event) String() string {
	switch e.Hook {
	case Insert, Move:
		return fmt.Sprintf("%s %s #%d in #%d before #%d", e.Hook, e.Node, e.Node.Elm, e.Parent, e.Ref)
	case Remove:
		return fmt.Sprintf("%s %s #%d from #%d", e.Hook, e.Node, e.Node.Elm, e.Parent)
	default:
		return fmt.Sprintf("%s %s #%d", e.Hook, e.Node, e.Node.Elm)
	}
}

// Recorder subscribes to every hook and records the invocations in order.
type Recorder struct {
	Events []Event
}

// Create implements CreateHook.
func (r *Recorder) Create(v *vdom.VNode) error {
	r.Events = append(r.Events, Event{Hook: Create, Node: v})
	return nil
}

// Insert implements InsertHook.
func (r *Recorder) Insert(v *vdom.VNode, parent, ref vdom.Handle) error {
	r.Events = append(r.Events, Event{Hook: Insert, Node: v, Parent: parent, Ref: ref})
	return nil
}

// Move implements MoveHook.
func (r *Recorder) Move(v *vdom.VNode, parent, ref vdom.Handle) error {
	r.Events = append(r.Events, Event{Hook: Move, Node: v, Parent: parent, Ref: ref})
	return nil
}

// Update implements UpdateHook.
func (r *Recorder) Update(old, v *vdom.VNode) error {
	r.Events = append(r.Events, Event{Hook: Update, Node: v, Old: old})
	return nil
}

// Remove implements RemoveHook.
func (r *Recorder) Remove(v *vdom.VNode, parent vdom.Handle) error {
	r.Events = append(r.Events, Event{Hook: Remove, Node: v, Parent: parent})
	return nil
}

// Count returns how many events of the given hook were recorded.
func (r *Recorder) Count(name Name) int {
	n := 0
	for _, e := range r.Events {
		if e.Hook == name {
			n++
		}
	}
	return n
}

// Names returns the recorded hook names in order.
func (r *Recorder) Names() []Name {
	out := make([]Name, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Hook
	}
	return out
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}
