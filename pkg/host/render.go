package host

import (
	"html"
	"slices"
	"sort"
	"strings"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Render serializes the subtree under h as HTML-like text with sorted
// attributes, classes and styles. The root container renders only its
// children. Intended for assertions and debugging.
func (a *Arena) Render(h vdom.Handle) string {
	var b strings.Builder
	if h == a.root {
		for _, c := range a.nodes[h-1].children {
			a.render(&b, c)
		}
		return b.String()
	}
	a.render(&b, h)
	return b.String()
}

func (a *Arena) render(b *strings.Builder, h vdom.Handle) {
	n, err := a.get(h)
	if err != nil {
		return
	}
	switch n.kind {
	case nodeText:
		b.WriteString(html.EscapeString(n.text))
		return
	case nodeComment:
		b.WriteString("<!--")
		b.WriteString(n.text)
		b.WriteString("-->")
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)

	names := make([]attrName, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i].ns != names[j].ns {
			return names[i].ns < names[j].ns
		}
		return names[i].name < names[j].name
	})
	for _, k := range names {
		b.WriteByte(' ')
		b.WriteString(k.name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(n.attrs[k]))
		b.WriteByte('"')
	}

	if len(n.classes) > 0 {
		classes := make([]string, 0, len(n.classes))
		for c := range n.classes {
			classes = append(classes, c)
		}
		slices.Sort(classes)
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(strings.Join(classes, " ")))
		b.WriteByte('"')
	}

	if len(n.styles) > 0 {
		props := make([]string, 0, len(n.styles))
		for p := range n.styles {
			props = append(props, p)
		}
		slices.Sort(props)
		decls := make([]string, len(props))
		for i, p := range props {
			decls[i] = p + ": " + n.styles[p]
		}
		b.WriteString(` style="`)
		b.WriteString(html.EscapeString(strings.Join(decls, "; ")))
		b.WriteByte('"')
	}

	b.WriteByte('>')
	for _, c := range n.children {
		a.render(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}
