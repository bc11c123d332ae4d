package modules

import (
	"reflect"

	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Context forwards Data.Context to custom elements. Plain elements are
// skipped.
type Context struct {
	Host host.ContextHost
}

// Name implements Named.
func (Context) Name() string { return "context" }

// Create implements Creator.
func (c Context) Create(v *vdom.VNode) error {
	if v.Kind != vdom.KindCustomElement {
		return nil
	}
	ctx := dataOf(v).Context
	for _, ns := range sortedKeys(ctx) {
		if err := c.Host.SetContext(v.Elm, ns, ctx[ns]); err != nil {
			return err
		}
	}
	return nil
}

// Update implements Updater.
func (c Context) Update(old, v *vdom.VNode) error {
	if v.Kind != vdom.KindCustomElement {
		return nil
	}
	prev := dataOf(old).Context
	next := dataOf(v).Context
	for _, ns := range sortedKeys(next) {
		if was, ok := prev[ns]; ok && reflect.DeepEqual(was, next[ns]) {
			continue
		}
		if err := c.Host.SetContext(v.Elm, ns, next[ns]); err != nil {
			return err
		}
	}
	for _, ns := range sortedKeys(prev) {
		if _, ok := next[ns]; ok {
			continue
		}
		if err := c.Host.SetContext(v.Elm, ns, nil); err != nil {
			return err
		}
	}
	return nil
}
