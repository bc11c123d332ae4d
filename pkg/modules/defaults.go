package modules

import (
	"fmt"

	"github.com/vango-dev/reconcile/pkg/host"
)

// Host is the union of capabilities the reference appliers need.
type Host interface {
	host.PropHost
	host.AttrHost
	host.ClassHost
	host.StyleHost
	host.ListenerHost
	host.ContextHost
}

// DefaultNames lists the reference appliers in their default order.
var DefaultNames = []string{"props", "attrs", "classes", "styles", "listeners", "context"}

// Default returns every reference applier in the default order.
func Default(h Host) []any {
	appliers, _ := ByName(h, DefaultNames...)
	return appliers
}

// ByName returns the named reference appliers in the given order.
func ByName(h Host, names ...string) ([]any, error) {
	out := make([]any, 0, len(names))
	for _, name := range names {
		switch name {
		case "props":
			out = append(out, Props{Host: h})
		case "attrs":
			out = append(out, Attrs{Host: h})
		case "classes":
			out = append(out, Classes{Host: h})
		case "styles":
			out = append(out, Styles{Host: h})
		case "listeners":
			out = append(out, NewListeners(h))
		case "context":
			out = append(out, Context{Host: h})
		default:
			return nil, fmt.Errorf("modules: unknown applier %q", name)
		}
	}
	return out, nil
}
