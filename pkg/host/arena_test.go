package host

import (
	"errors"
	"testing"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

func mustCreate(t *testing.T) func(vdom.Handle, error) vdom.Handle {
	return func(h vdom.Handle, err error) vdom.Handle {
		t.Helper()
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return h
	}
}

func TestArenaInsertAndRender(t *testing.T) {
	a := NewArena()
	ul := mustCreate(t)(a.CreateElement("ul", ""))
	li1 := mustCreate(t)(a.CreateElement("li", ""))
	li2 := mustCreate(t)(a.CreateElement("li", ""))
	txt := mustCreate(t)(a.CreateText("a < b"))

	for _, step := range []struct{ node, parent, ref vdom.Handle }{
		{txt, li1, vdom.NoHandle},
		{li2, ul, vdom.NoHandle},
		{li1, ul, li2},
		{ul, a.Root(), vdom.NoHandle},
	} {
		if err := a.Insert(step.node, step.parent, step.ref); err != nil {
			t.Fatalf("Insert(%d, %d, %d): %v", step.node, step.parent, step.ref, err)
		}
	}

	want := "<ul><li>a &lt; b</li><li></li></ul>"
	if got := a.Render(a.Root()); got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	if a.NextSibling(li1) != li2 {
		t.Errorf("NextSibling(li1) = %d, want %d", a.NextSibling(li1), li2)
	}
	if a.NextSibling(li2) != vdom.NoHandle {
		t.Error("last child should have no next sibling")
	}
	if a.Parent(ul) != a.Root() {
		t.Error("ul should be attached to root")
	}
}

func TestArenaInsertMovesAttachedNode(t *testing.T) {
	a := NewArena()
	x := mustCreate(t)(a.CreateText("x"))
	y := mustCreate(t)(a.CreateText("y"))
	_ = a.Insert(x, a.Root(), vdom.NoHandle)
	_ = a.Insert(y, a.Root(), vdom.NoHandle)

	if err := a.Insert(y, a.Root(), x); err != nil {
		t.Fatal(err)
	}
	if got := a.Render(a.Root()); got != "yx" {
		t.Errorf("Render = %q, want yx", got)
	}
	if got := len(a.Children(a.Root())); got != 2 {
		t.Errorf("children = %d, want 2", got)
	}
}

func TestArenaErrors(t *testing.T) {
	a := NewArena()
	div := mustCreate(t)(a.CreateElement("div", ""))
	span := mustCreate(t)(a.CreateElement("span", ""))
	txt := mustCreate(t)(a.CreateText("t"))
	_ = a.Insert(div, a.Root(), vdom.NoHandle)
	_ = a.Insert(span, div, vdom.NoHandle)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unknown node", a.Insert(vdom.Handle(99), div, vdom.NoHandle), ErrUnknownNode},
		{"leaf parent", a.Insert(span, txt, vdom.NoHandle), ErrLeafParent},
		{"cycle", a.Insert(div, span, vdom.NoHandle), ErrHierarchy},
		{"foreign ref", a.Insert(txt, a.Root(), span), ErrNotAChild},
		{"remove from wrong parent", a.Remove(span, a.Root()), ErrNotAChild},
		{"set text on element", a.SetText(div, "x"), ErrNotSupported},
		{"context on plain element", a.SetContext(div, "ns", nil), ErrNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("err = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestArenaAttributesAndRender(t *testing.T) {
	a := NewArena()
	div := mustCreate(t)(a.CreateElement("div", ""))
	_ = a.Insert(div, a.Root(), vdom.NoHandle)

	_ = a.SetAttribute(div, "", "title", `say "hi"`)
	_ = a.SetAttribute(div, "", "id", "main")
	_ = a.AddClass(div, "b")
	_ = a.AddClass(div, "a")
	_ = a.SetStyle(div, "color", "red")
	_ = a.SetStyle(div, "margin", "0")

	want := `<div id="main" title="say &#34;hi&#34;" class="a b" style="color: red; margin: 0"></div>`
	if got := a.Render(a.Root()); got != want {
		t.Errorf("Render = %q\nwant     %q", got, want)
	}

	_ = a.RemoveAttribute(div, "", "title")
	_ = a.RemoveClass(div, "a")
	_ = a.RemoveStyle(div, "margin")
	if _, ok := a.Attr(div, "", "title"); ok {
		t.Error("title should be removed")
	}
	if a.HasClass(div, "a") || !a.HasClass(div, "b") {
		t.Error("class list mismatch")
	}
	if _, ok := a.StyleOf(div, "margin"); ok {
		t.Error("margin should be removed")
	}
}

func TestArenaListeners(t *testing.T) {
	a := NewArena()
	btn := mustCreate(t)(a.CreateElement("button", ""))

	var got vdom.Event
	_ = a.AddEventListener(btn, "click", func(e vdom.Event) { got = e })

	if !a.Dispatch(btn, "click", 7) {
		t.Fatal("Dispatch should run the listener")
	}
	if got.Type != "click" || got.Target != btn || got.Detail != 7 {
		t.Errorf("event = %+v", got)
	}

	_ = a.RemoveEventListener(btn, "click")
	if a.Dispatch(btn, "click", nil) {
		t.Error("Dispatch after removal should not run")
	}
}

func TestArenaCustomElementContext(t *testing.T) {
	a := NewArena()
	ce := mustCreate(t)(a.CreateCustomElement("x-card", vdom.ShadowOpen, "XCard"))

	if err := a.SetContext(ce, "theme", map[string]any{"dark": true}); err != nil {
		t.Fatal(err)
	}
	if a.ContextOf(ce, "theme")["dark"] != true {
		t.Error("context not forwarded")
	}
}

func TestJournal(t *testing.T) {
	a := NewArena()
	div := mustCreate(t)(a.CreateElement("div", ""))
	txt := mustCreate(t)(a.CreateText("hi"))
	_ = a.Insert(txt, div, vdom.NoHandle)
	_ = a.Insert(div, a.Root(), vdom.NoHandle)

	j := a.Journal()
	if j.Len() != 4 {
		t.Fatalf("Len = %d, want 4", j.Len())
	}
	if j.Count(OpInsert) != 2 {
		t.Errorf("Count(Insert) = %d, want 2", j.Count(OpInsert))
	}

	muts := j.Drain()
	if len(muts) != 4 || j.Len() != 0 {
		t.Errorf("Drain returned %d, remaining %d", len(muts), j.Len())
	}
	if got := muts[2].String(); got != "Insert #3 into #2" {
		t.Errorf("String = %q", got)
	}
}

func TestOpString(t *testing.T) {
	if OpSetContext.String() != "SetContext" {
		t.Error("OpSetContext name")
	}
	if Op(0xFF).String() != "Unknown" {
		t.Error("unknown op name")
	}
}
