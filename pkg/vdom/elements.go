package vdom

import (
	"strings"

	"github.com/vango-dev/reconcile/internal/errors"
)

// invalidShape builds an InvalidNodeShape error for v.
func invalidShape(v *VNode, format string, args ...any) error {
	return errors.New(errors.CodeInvalidNodeShape).
		WithDetailf("%s: "+format, append([]any{v.String()}, args...)...)
}

// NewElement creates an element node. Children must be non-nil (use an
// empty slice for a childless element) and the key must be set.
func NewElement(sel string, key Key, data *Data, children []*VNode) (*VNode, error) {
	v := &VNode{
		Kind:     KindElement,
		Sel:      sel,
		Data:     data,
		Children: children,
		Key:      key,
	}
	if err := Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewCustomElement creates a custom element node backed by ctor.
func NewCustomElement(sel string, key Key, mode ShadowMode, ctor any, data *Data, children []*VNode) (*VNode, error) {
	v := &VNode{
		Kind:     KindCustomElement,
		Sel:      sel,
		Data:     data,
		Children: children,
		Key:      key,
		Mode:     mode,
		Ctor:     ctor,
	}
	if err := Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewText creates a text node.
func NewText(text string) (*VNode, error) {
	v := &VNode{Kind: KindText, Text: text}
	return v, nil
}

// NewComment creates a comment node.
func NewComment(text string) (*VNode, error) {
	v := &VNode{Kind: KindComment, Sel: CommentSel, Text: text}
	return v, nil
}

// Validate checks the shape invariants of a single node. It does not
// descend into children.
func Validate(v *VNode) error {
	if v == nil {
		return errors.New(errors.CodeInvalidNodeShape).WithDetail("nil node")
	}
	switch v.Kind {
	case KindElement, KindCustomElement:
		if v.Sel == "" {
			return invalidShape(v, "element selector is empty")
		}
		if v.Sel == CommentSel || strings.ContainsAny(v.Sel, " \t\n") {
			return invalidShape(v, "invalid element selector %q", v.Sel)
		}
		if v.Children == nil {
			return invalidShape(v, "element children are not initialized")
		}
		if v.Text != "" {
			return invalidShape(v, "element carries both children and text")
		}
		if v.Key.IsZero() {
			return invalidShape(v, "element key is missing")
		}
		if v.Kind == KindCustomElement {
			if v.Mode != ShadowOpen && v.Mode != ShadowClosed {
				return invalidShape(v, "shadow mode %q is not open or closed", v.Mode)
			}
			if v.Ctor == nil {
				return invalidShape(v, "custom element constructor is missing")
			}
		} else if v.Mode != "" || v.Ctor != nil {
			return invalidShape(v, "mode and constructor are reserved for custom elements")
		}
	case KindComment:
		if v.Sel != CommentSel {
			return invalidShape(v, "comment selector must be %q", CommentSel)
		}
		if err := validateLeaf(v); err != nil {
			return err
		}
	case KindText:
		if v.Sel != "" {
			return invalidShape(v, "text node has selector %q", v.Sel)
		}
		if err := validateLeaf(v); err != nil {
			return err
		}
	default:
		return errors.New(errors.CodeInvalidNodeShape).WithDetailf("unknown node kind %d", v.Kind)
	}
	return nil
}

func validateLeaf(v *VNode) error {
	if v.Children != nil {
		return invalidShape(v, "leaf node has children")
	}
	if !v.Key.IsZero() {
		return invalidShape(v, "leaf node has key %q", v.Key.String())
	}
	if v.Data != nil && v.Data.NS != "" {
		return invalidShape(v, "leaf node has a namespace")
	}
	return nil
}

// ValidateTree validates v and every descendant.
func ValidateTree(v *VNode) error {
	if err := Validate(v); err != nil {
		return err
	}
	for _, c := range v.Children {
		if c == nil {
			continue
		}
		if err := ValidateTree(c); err != nil {
			return err
		}
	}
	return nil
}
