package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement       VKind = iota + 1 // <div>, <svg>, etc.
	KindCustomElement                  // <x-foo> backed by a constructor
	KindComment                        // <!-- ... -->
	KindText                           // Plain text node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindCustomElement:
		return "CustomElement"
	case KindComment:
		return "Comment"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// IsElement reports whether the kind carries children.
func (k VKind) IsElement() bool {
	return k == KindElement || k == KindCustomElement
}

// Handle is an opaque reference to a host node. The host owns the node;
// a VNode only remembers which one it materialized into.
type Handle uint32

// NoHandle marks a VNode that has not been materialized.
const NoHandle Handle = 0

// ShadowMode is the shadow encapsulation flag of a custom element.
type ShadowMode string

const (
	ShadowOpen   ShadowMode = "open"
	ShadowClosed ShadowMode = "closed"
)

// CommentSel is the selector carried by every comment node.
const CommentSel = "!"

// VNode is the virtual tree node.
type VNode struct {
	Kind     VKind      // Node type
	Sel      string     // Tag with optional #id/.class shorthand; empty for text
	Data     *Data      // Attribute-like payload, may be nil
	Children []*VNode   // Elements only; nil entries are absent slots
	Text     string     // Text and comment payload
	Elm      Handle     // Host node, stamped on materialization
	Key      Key        // Reconciliation key, mandatory on elements
	Owner    any        // Owning component context, never touched by the engine
	Mode     ShadowMode // Custom elements only
	Ctor     any        // Custom elements only
}

// IsMaterialized reports whether the node has a host handle.
func (v *VNode) IsMaterialized() bool {
	return v != nil && v.Elm != NoHandle
}

// Tag returns the tag portion of the selector.
func (v *VNode) Tag() string {
	if v == nil || !v.Kind.IsElement() {
		return ""
	}
	tag, _, _ := ParseSelector(v.Sel)
	return tag
}

// Namespace returns the XML namespace from Data, if any.
func (v *VNode) Namespace() string {
	if v == nil || v.Data == nil {
		return ""
	}
	return v.Data.NS
}

// SameNode reports whether a and b share identity: same kind, same selector
// and same key (two absent keys compare equal).
func SameNode(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Kind == b.Kind && a.Sel == b.Sel && a.Key == b.Key
}

// String returns a short description for logs, e.g. `<li key=3>` or `#text`.
func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindElement, KindCustomElement:
		if v.Key.IsZero() {
			return "<" + v.Sel + ">"
		}
		return "<" + v.Sel + " key=" + v.Key.String() + ">"
	case KindComment:
		return "#comment"
	case KindText:
		return "#text"
	default:
		return "#unknown"
	}
}
