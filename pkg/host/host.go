package host

import (
	"errors"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Host errors.
var (
	ErrUnknownNode  = errors.New("host: unknown node")
	ErrNotAChild    = errors.New("host: node is not a child of parent")
	ErrLeafParent   = errors.New("host: text and comment nodes cannot have children")
	ErrHierarchy    = errors.New("host: insertion would create a cycle")
	ErrNotSupported = errors.New("host: operation not supported for node")
)

// Host is the set of tree primitives the patch engine needs.
type Host interface {
	// CreateElement creates a detached element in namespace ns ("" for HTML).
	CreateElement(tag, ns string) (vdom.Handle, error)

	// CreateText creates a detached text node.
	CreateText(text string) (vdom.Handle, error)

	// CreateComment creates a detached comment node.
	CreateComment(text string) (vdom.Handle, error)

	// Insert attaches node to parent immediately before ref, or appends it
	// when ref is vdom.NoHandle. A node that is already attached is moved.
	Insert(node, parent, ref vdom.Handle) error

	// Remove detaches node from parent.
	Remove(node, parent vdom.Handle) error

	// SetText replaces the payload of a text or comment node.
	SetText(node vdom.Handle, text string) error

	// NextSibling returns the node following node in its parent, or NoHandle.
	NextSibling(node vdom.Handle) vdom.Handle

	// Parent returns the parent of node, or NoHandle when detached.
	Parent(node vdom.Handle) vdom.Handle
}

// CustomElementHost is implemented by hosts that construct custom elements
// themselves. Hosts without it get CreateElement for custom elements.
type CustomElementHost interface {
	CreateCustomElement(tag string, mode vdom.ShadowMode, ctor any) (vdom.Handle, error)
}

// AttrHost sets and removes attributes. ns is "" for un-namespaced names.
type AttrHost interface {
	SetAttribute(node vdom.Handle, ns, name, value string) error
	RemoveAttribute(node vdom.Handle, ns, name string) error
}

// PropHost sets host properties.
type PropHost interface {
	SetProperty(node vdom.Handle, name string, value any) error
	Property(node vdom.Handle, name string) (any, bool)
}

// ClassHost edits the class list of an element.
type ClassHost interface {
	AddClass(node vdom.Handle, name string) error
	RemoveClass(node vdom.Handle, name string) error
}

// StyleHost edits inline style declarations.
type StyleHost interface {
	SetStyle(node vdom.Handle, name, value string) error
	RemoveStyle(node vdom.Handle, name string) error
}

// ListenerHost attaches at most one listener per event name per node.
type ListenerHost interface {
	AddEventListener(node vdom.Handle, event string, l vdom.Listener) error
	RemoveEventListener(node vdom.Handle, event string) error
}

// ContextHost forwards context values to a custom element.
type ContextHost interface {
	SetContext(node vdom.Handle, ns string, values map[string]any) error
}
