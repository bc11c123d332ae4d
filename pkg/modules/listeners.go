package modules

import (
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Listeners attaches one proxy listener per event name per host element.
// The proxy looks up the handler of the most recently patched VNode, so
// replacing a handler between renders costs no host mutation.
//
// Listeners also implements hooks.RemoveHook to release the handler tables
// of removed subtrees; the patch engine registers it automatically.
type Listeners struct {
	Host   host.ListenerHost
	tables map[vdom.Handle]map[string]vdom.Listener
}

// NewListeners creates a Listeners applier.
func NewListeners(h host.ListenerHost) *Listeners {
	return &Listeners{
		Host:   h,
		tables: make(map[vdom.Handle]map[string]vdom.Listener),
	}
}

// Name implements Named.
func (*Listeners) Name() string { return "listeners" }

func (l *Listeners) proxy(elm vdom.Handle, event string) vdom.Listener {
	return func(e vdom.Event) {
		if fn := l.tables[elm][event]; fn != nil {
			fn(e)
		}
	}
}

func handlers(v *vdom.VNode) map[string]vdom.Listener {
	on := dataOf(v).On
	out := make(map[string]vdom.Listener, len(on))
	for event, fn := range on {
		if fn != nil {
			out[event] = fn
		}
	}
	return out
}

// Create implements Creator.
func (l *Listeners) Create(v *vdom.VNode) error {
	next := handlers(v)
	if len(next) == 0 {
		return nil
	}
	l.tables[v.Elm] = next
	for _, event := range sortedKeys(next) {
		if err := l.Host.AddEventListener(v.Elm, event, l.proxy(v.Elm, event)); err != nil {
			return err
		}
	}
	return nil
}

// Update implements Updater.
func (l *Listeners) Update(old, v *vdom.VNode) error {
	prev := l.tables[v.Elm]
	next := handlers(v)

	for _, event := range sortedKeys(prev) {
		if _, ok := next[event]; ok {
			continue
		}
		if err := l.Host.RemoveEventListener(v.Elm, event); err != nil {
			return err
		}
	}
	for _, event := range sortedKeys(next) {
		if _, ok := prev[event]; ok {
			continue
		}
		if err := l.Host.AddEventListener(v.Elm, event, l.proxy(v.Elm, event)); err != nil {
			return err
		}
	}

	if len(next) == 0 {
		delete(l.tables, v.Elm)
	} else {
		l.tables[v.Elm] = next
	}
	return nil
}

// Remove releases the handler tables of the removed subtree.
func (l *Listeners) Remove(v *vdom.VNode, parent vdom.Handle) error {
	l.forget(v)
	return nil
}

func (l *Listeners) forget(v *vdom.VNode) {
	if v == nil {
		return
	}
	delete(l.tables, v.Elm)
	for _, c := range v.Children {
		l.forget(c)
	}
}

// Tracked returns the number of elements with live handler tables.
func (l *Listeners) Tracked() int {
	return len(l.tables)
}
