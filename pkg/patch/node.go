package patch

import (
	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// elementNS returns the namespace an element is created in. An explicit
// Data.NS wins; <svg> opens the SVG namespace; otherwise the parent's
// namespace is inherited.
func elementNS(v *vdom.VNode, parentNS string) string {
	if ns := v.Namespace(); ns != "" {
		return ns
	}
	if v.Tag() == "svg" {
		return vdom.SVGNamespace
	}
	return parentNS
}

// childNS returns the namespace children of v inherit.
func childNS(v *vdom.VNode, ns string) string {
	if v.Tag() == "foreignObject" {
		return ""
	}
	return ns
}

// createElm materializes v and its subtree. The returned subtree is
// detached: each child is attached and reported as inserted, v itself is
// left for the caller.
func (p *patcher) createElm(v *vdom.VNode, parentNS string) error {
	if err := vdom.Validate(v); err != nil {
		return err
	}

	switch v.Kind {
	case vdom.KindText:
		h, err := p.host.CreateText(v.Text)
		if err != nil {
			return p.hostErr("create", v, err)
		}
		v.Elm = h
		p.stats.Created++
		return p.hooks.Create(v)

	case vdom.KindComment:
		h, err := p.host.CreateComment(v.Text)
		if err != nil {
			return p.hostErr("create", v, err)
		}
		v.Elm = h
		p.stats.Created++
		return p.hooks.Create(v)

	case vdom.KindElement, vdom.KindCustomElement:
		ns := elementNS(v, parentNS)
		var h vdom.Handle
		var err error
		if ceh, ok := p.host.(host.CustomElementHost); ok && v.Kind == vdom.KindCustomElement {
			h, err = ceh.CreateCustomElement(v.Tag(), v.Mode, v.Ctor)
		} else {
			h, err = p.host.CreateElement(v.Tag(), ns)
		}
		if err != nil {
			return p.hostErr("create", v, err)
		}
		v.Elm = h
		p.stats.Created++

		if err := p.modules.Create(v); err != nil {
			return err
		}
		if err := p.hooks.Create(v); err != nil {
			return err
		}

		cns := childNS(v, ns)
		for _, c := range v.Children {
			if c == nil {
				continue
			}
			if err := p.createElm(c, cns); err != nil {
				return err
			}
			if err := p.insertNew(c, v.Elm, vdom.NoHandle); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.New(errors.CodeInvalidNodeShape).WithDetailf("unknown node kind %d", v.Kind)
	}
}

// insertNew attaches a freshly created node and fires its insert hook.
func (p *patcher) insertNew(v *vdom.VNode, parent, ref vdom.Handle) error {
	if err := p.host.Insert(v.Elm, parent, ref); err != nil {
		return p.hostErr("insert", v, err)
	}
	p.stats.Inserted++
	return p.hooks.Insert(v, parent, ref)
}

// move repositions an already materialized node and fires its move hook.
func (p *patcher) move(v *vdom.VNode, parent, ref vdom.Handle) error {
	if err := p.host.Insert(v.Elm, parent, ref); err != nil {
		return p.hostErr("move", v, err)
	}
	p.stats.Moved++
	return p.hooks.Move(v, parent, ref)
}

// removeNode detaches a top-level removed node and fires its remove hook.
// Descendants go with it and get no hook of their own.
func (p *patcher) removeNode(v *vdom.VNode, parent vdom.Handle) error {
	if err := p.host.Remove(v.Elm, parent); err != nil {
		return p.hostErr("remove", v, err)
	}
	p.stats.Removed++
	return p.hooks.Remove(v, parent)
}

// replace removes prev and mounts next at prev's position, before ref.
func (p *patcher) replace(prev, next *vdom.VNode, parent, ref vdom.Handle, parentNS string) error {
	if err := p.removeNode(prev, parent); err != nil {
		return err
	}
	if err := p.createElm(next, parentNS); err != nil {
		return err
	}
	return p.insertNew(next, parent, ref)
}

// patchNode patches next in place of prev; both must be the same node.
func (p *patcher) patchNode(prev, next *vdom.VNode, parentNS string) error {
	if err := vdom.Validate(next); err != nil {
		return err
	}
	if !prev.IsMaterialized() {
		return errors.New(errors.CodeInvalidNodeShape).
			WithDetailf("%s: previous node was never materialized", prev)
	}
	next.Elm = prev.Elm
	p.stats.Updated++

	switch next.Kind {
	case vdom.KindElement, vdom.KindCustomElement:
		if err := p.modules.Update(prev, next); err != nil {
			return err
		}
		if err := p.hooks.Update(prev, next); err != nil {
			return err
		}
		ns := elementNS(next, parentNS)
		return p.updateChildren(next.Elm, prev.Children, next.Children, childNS(next, ns))

	case vdom.KindText, vdom.KindComment:
		if err := p.hooks.Update(prev, next); err != nil {
			return err
		}
		if prev.Text != next.Text {
			if err := p.host.SetText(next.Elm, next.Text); err != nil {
				return p.hostErr("set text of", next, err)
			}
			p.stats.TextUpdates++
		}
		return nil

	default:
		return errors.New(errors.CodeInvalidNodeShape).WithDetailf("unknown node kind %d", next.Kind)
	}
}
