package modules

import (
	"fmt"
	"strings"

	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Styles applies inline style declarations from the static Data.Style text
// and the computed Data.StyleMap. StyleMap wins on conflicts.
type Styles struct {
	Host host.StyleHost
}

// Name implements Named.
func (Styles) Name() string { return "styles" }

// ParseStyle parses "color: red; margin: 0" into declarations.
func ParseStyle(text string) (map[string]string, error) {
	out := make(map[string]string)
	for _, decl := range strings.Split(text, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, value, ok := strings.Cut(decl, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed style declaration %q", decl)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

func styleSet(v *vdom.VNode) (map[string]string, error) {
	d := dataOf(v)
	set, err := ParseStyle(d.Style)
	if err != nil {
		return nil, err
	}
	for name, value := range d.StyleMap {
		set[name] = value
	}
	return set, nil
}

// Create implements Creator.
func (s Styles) Create(v *vdom.VNode) error {
	set, err := styleSet(v)
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(set) {
		if err := s.Host.SetStyle(v.Elm, name, set[name]); err != nil {
			return err
		}
	}
	return nil
}

// Update implements Updater.
func (s Styles) Update(old, v *vdom.VNode) error {
	prev, err := styleSet(old)
	if err != nil {
		return err
	}
	next, err := styleSet(v)
	if err != nil {
		return err
	}

	for _, name := range sortedKeys(prev) {
		if _, ok := next[name]; ok {
			continue
		}
		if err := s.Host.RemoveStyle(v.Elm, name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(next) {
		if was, ok := prev[name]; ok && was == next[name] {
			continue
		}
		if err := s.Host.SetStyle(v.Elm, name, next[name]); err != nil {
			return err
		}
	}
	return nil
}
