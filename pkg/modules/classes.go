package modules

import (
	"slices"
	"strings"

	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Classes applies the class list: selector shorthand, the static
// Data.ClassName and the computed Data.ClassMap, as one set.
type Classes struct {
	Host host.ClassHost
}

// Name implements Named.
func (Classes) Name() string { return "classes" }

func classSet(v *vdom.VNode) map[string]bool {
	set := make(map[string]bool)
	_, _, fromSel := vdom.ParseSelector(v.Sel)
	for _, c := range fromSel {
		set[c] = true
	}
	d := dataOf(v)
	for _, c := range strings.Fields(d.ClassName) {
		set[c] = true
	}
	for c, on := range d.ClassMap {
		if on && c != "" {
			set[c] = true
		}
	}
	return set
}

// Create implements Creator.
func (c Classes) Create(v *vdom.VNode) error {
	for _, name := range sortedKeys(classSet(v)) {
		if err := c.Host.AddClass(v.Elm, name); err != nil {
			return err
		}
	}
	return nil
}

// Update implements Updater.
func (c Classes) Update(old, v *vdom.VNode) error {
	prev := classSet(old)
	next := classSet(v)

	var removed []string
	for name := range prev {
		if !next[name] {
			removed = append(removed, name)
		}
	}
	slices.Sort(removed)
	for _, name := range removed {
		if err := c.Host.RemoveClass(v.Elm, name); err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(next) {
		if prev[name] {
			continue
		}
		if err := c.Host.AddClass(v.Elm, name); err != nil {
			return err
		}
	}
	return nil
}
