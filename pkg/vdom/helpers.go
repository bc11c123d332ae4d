package vdom

import "fmt"

// K wraps a string or integer as a Key argument for H and CE.
// It panics on any other type.
func K(v any) Key {
	k, ok := KeyOf(v)
	if !ok {
		panic(fmt.Sprintf("vdom: unsupported key type %T", v))
	}
	return k
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment node.
func Comment(content string) *VNode {
	return &VNode{Kind: KindComment, Sel: CommentSel, Text: content}
}

// H creates an element. Arguments can be: nil, Key, *Data, *VNode,
// []*VNode or string (a text child). H panics if the result is not a
// valid element; use NewElement to handle the error instead.
func H(sel string, args ...any) *VNode {
	key, data, children := collect(sel, args)
	return Must(NewElement(sel, key, data, children))
}

// CE creates a custom element; see H for the accepted arguments.
func CE(sel string, mode ShadowMode, ctor any, args ...any) *VNode {
	key, data, children := collect(sel, args)
	return Must(NewCustomElement(sel, key, mode, ctor, data, children))
}

// Must returns v or panics with err.
func Must(v *VNode, err error) *VNode {
	if err != nil {
		panic(err)
	}
	return v
}

func collect(sel string, args []any) (Key, *Data, []*VNode) {
	var key Key
	var data *Data
	children := make([]*VNode, 0, len(args))

	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
			// Ignore nil (allows conditional children)
			continue
		case Key:
			key = a
		case *Data:
			data = a
		case *VNode:
			children = append(children, a)
		case []*VNode:
			children = append(children, a...)
		case string:
			children = append(children, Text(a))
		default:
			panic(fmt.Sprintf("vdom: H(%q): unsupported argument %T", sel, arg))
		}
	}
	return key, data, children
}
