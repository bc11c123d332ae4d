package modules

import (
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// liveProps are compared against the host value instead of the previous
// VNode, since user input changes them behind the virtual tree's back.
var liveProps = map[string]bool{
	"value":   true,
	"checked": true,
}

// Props applies Data.Props as host properties. Properties dropped from the
// data are left as they are on the host.
type Props struct {
	Host host.PropHost
}

// Name implements Named.
func (Props) Name() string { return "props" }

// Create implements Creator.
func (p Props) Create(v *vdom.VNode) error {
	for _, name := range sortedKeys(dataOf(v).Props) {
		if err := p.Host.SetProperty(v.Elm, name, v.Data.Props[name]); err != nil {
			return err
		}
	}
	return nil
}

// Update implements Updater.
func (p Props) Update(old, v *vdom.VNode) error {
	prevProps := dataOf(old).Props
	nextProps := dataOf(v).Props
	for _, name := range sortedKeys(nextProps) {
		next := nextProps[name]
		var prev any
		var had bool
		if liveProps[name] {
			prev, had = p.Host.Property(v.Elm, name)
		} else {
			prev, had = prevProps[name]
		}
		if had && valuesEqual(prev, next) {
			continue
		}
		if err := p.Host.SetProperty(v.Elm, name, next); err != nil {
			return err
		}
	}
	return nil
}
