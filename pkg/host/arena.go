package host

import (
	"fmt"
	"slices"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// nodeKind distinguishes arena nodes.
type nodeKind uint8

const (
	nodeElement nodeKind = iota
	nodeText
	nodeComment
)

// node is one arena slot.
type node struct {
	kind     nodeKind
	tag      string
	ns       string
	text     string
	parent   vdom.Handle
	children []vdom.Handle

	attrs     map[attrName]string
	props     map[string]any
	classes   map[string]bool
	styles    map[string]string
	listeners map[string]vdom.Listener
	context   map[string]map[string]any

	custom bool
	mode   vdom.ShadowMode
	ctor   any
}

type attrName struct {
	ns   string
	name string
}

// Arena is an in-memory host tree. Handles index into a slice of nodes;
// detached nodes stay addressable, like DOM nodes held by a reference.
// An Arena is not safe for concurrent use.
type Arena struct {
	nodes   []*node
	root    vdom.Handle
	journal Journal
}

// NewArena creates an arena holding a single detached root element,
// returned by Root. Creating the root is not journaled.
func NewArena() *Arena {
	a := &Arena{}
	a.root = a.alloc(&node{kind: nodeElement, tag: "#root"})
	return a
}

// Root returns the container element nodes can be mounted into.
func (a *Arena) Root() vdom.Handle {
	return a.root
}

// Journal returns the mutation journal.
func (a *Arena) Journal() *Journal {
	return &a.journal
}

// Len returns the number of nodes ever created, including the root.
func (a *Arena) Len() int {
	return len(a.nodes)
}

func (a *Arena) alloc(n *node) vdom.Handle {
	a.nodes = append(a.nodes, n)
	return vdom.Handle(len(a.nodes))
}

func (a *Arena) get(h vdom.Handle) (*node, error) {
	if h == vdom.NoHandle || int(h) > len(a.nodes) {
		return nil, fmt.Errorf("%w: #%d", ErrUnknownNode, h)
	}
	return a.nodes[h-1], nil
}

func (a *Arena) element(h vdom.Handle) (*node, error) {
	n, err := a.get(h)
	if err != nil {
		return nil, err
	}
	if n.kind != nodeElement {
		return nil, fmt.Errorf("%w: #%d is not an element", ErrNotSupported, h)
	}
	return n, nil
}

// CreateElement implements Host.
func (a *Arena) CreateElement(tag, ns string) (vdom.Handle, error) {
	h := a.alloc(&node{kind: nodeElement, tag: tag, ns: ns})
	a.journal.Record(Mutation{Op: OpCreateElement, Node: h, Name: tag, NS: ns})
	return h, nil
}

// CreateCustomElement implements CustomElementHost.
func (a *Arena) CreateCustomElement(tag string, mode vdom.ShadowMode, ctor any) (vdom.Handle, error) {
	h := a.alloc(&node{kind: nodeElement, tag: tag, custom: true, mode: mode, ctor: ctor})
	a.journal.Record(Mutation{Op: OpCreateElement, Node: h, Name: tag, Value: string(mode)})
	return h, nil
}

// CreateText implements Host.
func (a *Arena) CreateText(text string) (vdom.Handle, error) {
	h := a.alloc(&node{kind: nodeText, text: text})
	a.journal.Record(Mutation{Op: OpCreateText, Node: h, Value: text})
	return h, nil
}

// CreateComment implements Host.
func (a *Arena) CreateComment(text string) (vdom.Handle, error) {
	h := a.alloc(&node{kind: nodeComment, text: text})
	a.journal.Record(Mutation{Op: OpCreateComment, Node: h, Value: text})
	return h, nil
}

// Insert implements Host.
func (a *Arena) Insert(child, parent, ref vdom.Handle) error {
	c, err := a.get(child)
	if err != nil {
		return err
	}
	p, err := a.get(parent)
	if err != nil {
		return err
	}
	if p.kind != nodeElement {
		return fmt.Errorf("%w: #%d", ErrLeafParent, parent)
	}
	for anc := parent; anc != vdom.NoHandle; anc = a.nodes[anc-1].parent {
		if anc == child {
			return fmt.Errorf("%w: #%d into #%d", ErrHierarchy, child, parent)
		}
	}
	if ref != vdom.NoHandle {
		r, err := a.get(ref)
		if err != nil {
			return err
		}
		if r.parent != parent {
			return fmt.Errorf("%w: ref #%d of #%d", ErrNotAChild, ref, parent)
		}
	}

	if c.parent != vdom.NoHandle {
		a.detach(child, c)
	}
	at := len(p.children)
	if ref != vdom.NoHandle {
		at = slices.Index(p.children, ref)
	}
	p.children = slices.Insert(p.children, at, child)
	c.parent = parent

	a.journal.Record(Mutation{Op: OpInsert, Node: child, Parent: parent, Ref: ref})
	return nil
}

func (a *Arena) detach(h vdom.Handle, n *node) {
	p := a.nodes[n.parent-1]
	if i := slices.Index(p.children, h); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = vdom.NoHandle
}

// Remove implements Host.
func (a *Arena) Remove(child, parent vdom.Handle) error {
	c, err := a.get(child)
	if err != nil {
		return err
	}
	if _, err := a.get(parent); err != nil {
		return err
	}
	if c.parent != parent {
		return fmt.Errorf("%w: #%d of #%d", ErrNotAChild, child, parent)
	}
	a.detach(child, c)
	a.journal.Record(Mutation{Op: OpRemove, Node: child, Parent: parent})
	return nil
}

// SetText implements Host.
func (a *Arena) SetText(h vdom.Handle, text string) error {
	n, err := a.get(h)
	if err != nil {
		return err
	}
	if n.kind == nodeElement {
		return fmt.Errorf("%w: SetText on element #%d", ErrNotSupported, h)
	}
	n.text = text
	a.journal.Record(Mutation{Op: OpSetText, Node: h, Value: text})
	return nil
}

// NextSibling implements Host.
func (a *Arena) NextSibling(h vdom.Handle) vdom.Handle {
	n, err := a.get(h)
	if err != nil || n.parent == vdom.NoHandle {
		return vdom.NoHandle
	}
	siblings := a.nodes[n.parent-1].children
	i := slices.Index(siblings, h)
	if i < 0 || i+1 >= len(siblings) {
		return vdom.NoHandle
	}
	return siblings[i+1]
}

// Parent implements Host.
func (a *Arena) Parent(h vdom.Handle) vdom.Handle {
	n, err := a.get(h)
	if err != nil {
		return vdom.NoHandle
	}
	return n.parent
}

// Children returns a copy of the child handles of h.
func (a *Arena) Children(h vdom.Handle) []vdom.Handle {
	n, err := a.get(h)
	if err != nil {
		return nil
	}
	return slices.Clone(n.children)
}

// Tag returns the tag of an element, or "" for other nodes.
func (a *Arena) Tag(h vdom.Handle) string {
	n, err := a.get(h)
	if err != nil || n.kind != nodeElement {
		return ""
	}
	return n.tag
}

// TextOf returns the payload of a text or comment node.
func (a *Arena) TextOf(h vdom.Handle) string {
	n, err := a.get(h)
	if err != nil {
		return ""
	}
	return n.text
}
