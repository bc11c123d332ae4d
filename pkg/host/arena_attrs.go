package host

import (
	"fmt"
	"maps"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// SetAttribute implements AttrHost.
func (a *Arena) SetAttribute(h vdom.Handle, ns, name, value string) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	if n.attrs == nil {
		n.attrs = make(map[attrName]string)
	}
	n.attrs[attrName{ns, name}] = value
	a.journal.Record(Mutation{Op: OpSetAttr, Node: h, NS: ns, Name: name, Value: value})
	return nil
}

// RemoveAttribute implements AttrHost.
func (a *Arena) RemoveAttribute(h vdom.Handle, ns, name string) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	delete(n.attrs, attrName{ns, name})
	a.journal.Record(Mutation{Op: OpRemoveAttr, Node: h, NS: ns, Name: name})
	return nil
}

// Attr returns an attribute value.
func (a *Arena) Attr(h vdom.Handle, ns, name string) (string, bool) {
	n, err := a.get(h)
	if err != nil {
		return "", false
	}
	v, ok := n.attrs[attrName{ns, name}]
	return v, ok
}

// SetProperty implements PropHost.
func (a *Arena) SetProperty(h vdom.Handle, name string, value any) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	a.journal.Record(Mutation{Op: OpSetProp, Node: h, Name: name, Value: fmt.Sprint(value)})
	return nil
}

// Property implements PropHost.
func (a *Arena) Property(h vdom.Handle, name string) (any, bool) {
	n, err := a.get(h)
	if err != nil {
		return nil, false
	}
	v, ok := n.props[name]
	return v, ok
}

// AddClass implements ClassHost.
func (a *Arena) AddClass(h vdom.Handle, name string) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	if n.classes == nil {
		n.classes = make(map[string]bool)
	}
	n.classes[name] = true
	a.journal.Record(Mutation{Op: OpAddClass, Node: h, Name: name})
	return nil
}

// RemoveClass implements ClassHost.
func (a *Arena) RemoveClass(h vdom.Handle, name string) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	delete(n.classes, name)
	a.journal.Record(Mutation{Op: OpRemoveClass, Node: h, Name: name})
	return nil
}

// HasClass reports whether the element has the class.
func (a *Arena) HasClass(h vdom.Handle, name string) bool {
	n, err := a.get(h)
	if err != nil {
		return false
	}
	return n.classes[name]
}

// SetStyle implements StyleHost.
func (a *Arena) SetStyle(h vdom.Handle, name, value string) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	if n.styles == nil {
		n.styles = make(map[string]string)
	}
	n.styles[name] = value
	a.journal.Record(Mutation{Op: OpSetStyle, Node: h, Name: name, Value: value})
	return nil
}

// RemoveStyle implements StyleHost.
func (a *Arena) RemoveStyle(h vdom.Handle, name string) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	delete(n.styles, name)
	a.journal.Record(Mutation{Op: OpRemoveStyle, Node: h, Name: name})
	return nil
}

// StyleOf returns a style declaration value.
func (a *Arena) StyleOf(h vdom.Handle, name string) (string, bool) {
	n, err := a.get(h)
	if err != nil {
		return "", false
	}
	v, ok := n.styles[name]
	return v, ok
}

// AddEventListener implements ListenerHost. It replaces any listener
// already registered for the event.
func (a *Arena) AddEventListener(h vdom.Handle, event string, l vdom.Listener) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	if n.listeners == nil {
		n.listeners = make(map[string]vdom.Listener)
	}
	n.listeners[event] = l
	a.journal.Record(Mutation{Op: OpListen, Node: h, Name: event})
	return nil
}

// RemoveEventListener implements ListenerHost.
func (a *Arena) RemoveEventListener(h vdom.Handle, event string) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	delete(n.listeners, event)
	a.journal.Record(Mutation{Op: OpUnlisten, Node: h, Name: event})
	return nil
}

// Dispatch delivers an event to the listener registered on h. It reports
// whether a listener ran.
func (a *Arena) Dispatch(h vdom.Handle, event string, detail any) bool {
	n, err := a.get(h)
	if err != nil {
		return false
	}
	l, ok := n.listeners[event]
	if !ok || l == nil {
		return false
	}
	l(vdom.Event{Type: event, Target: h, Detail: detail})
	return true
}

// SetContext implements ContextHost.
func (a *Arena) SetContext(h vdom.Handle, ns string, values map[string]any) error {
	n, err := a.element(h)
	if err != nil {
		return err
	}
	if !n.custom {
		return fmt.Errorf("%w: context on plain element #%d", ErrNotSupported, h)
	}
	if n.context == nil {
		n.context = make(map[string]map[string]any)
	}
	n.context[ns] = maps.Clone(values)
	a.journal.Record(Mutation{Op: OpSetContext, Node: h, NS: ns, Value: fmt.Sprint(values)})
	return nil
}

// ContextOf returns the context forwarded to a custom element.
func (a *Arena) ContextOf(h vdom.Handle, ns string) map[string]any {
	n, err := a.get(h)
	if err != nil {
		return nil
	}
	return n.context[ns]
}
