package modules

import (
	"fmt"
	"strings"

	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Attrs applies Data.Attrs and the #id selector shorthand as host
// attributes. true renders as an empty attribute; false and nil remove it.
type Attrs struct {
	Host host.AttrHost
}

// Name implements Named.
func (Attrs) Name() string { return "attrs" }

// attrNamespace maps xlink: and xml: prefixed names to their namespace.
func attrNamespace(name string) string {
	switch {
	case strings.HasPrefix(name, "xlink:"):
		return vdom.XLinkNamespace
	case strings.HasPrefix(name, "xml:"):
		return vdom.XMLNamespace
	default:
		return ""
	}
}

func validAttrName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\n\f\"'>/=") {
		return fmt.Errorf("invalid attribute name %q", name)
	}
	return nil
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// Create implements Creator.
func (a Attrs) Create(v *vdom.VNode) error {
	attrs := dataOf(v).Attrs
	if _, id, _ := vdom.ParseSelector(v.Sel); id != "" {
		if _, ok := attrs["id"]; !ok {
			if err := a.Host.SetAttribute(v.Elm, "", "id", id); err != nil {
				return err
			}
		}
	}
	for _, name := range sortedKeys(attrs) {
		if err := validAttrName(name); err != nil {
			return err
		}
		val := attrs[name]
		if !present(val) {
			continue
		}
		if err := a.Host.SetAttribute(v.Elm, attrNamespace(name), name, valueString(val)); err != nil {
			return err
		}
	}
	return nil
}

// Update implements Updater.
func (a Attrs) Update(old, v *vdom.VNode) error {
	prev := dataOf(old).Attrs
	next := dataOf(v).Attrs

	for _, name := range sortedKeys(next) {
		if err := validAttrName(name); err != nil {
			return err
		}
		val := next[name]
		was, had := prev[name]
		if had && valuesEqual(was, val) {
			continue
		}
		ns := attrNamespace(name)
		if !present(val) {
			if had && present(was) {
				if err := a.Host.RemoveAttribute(v.Elm, ns, name); err != nil {
					return err
				}
			}
			continue
		}
		if err := a.Host.SetAttribute(v.Elm, ns, name, valueString(val)); err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(prev) {
		if _, ok := next[name]; ok || !present(prev[name]) {
			continue
		}
		if err := a.Host.RemoveAttribute(v.Elm, attrNamespace(name), name); err != nil {
			return err
		}
	}
	return nil
}
