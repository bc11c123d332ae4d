package vdom

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/reconcile/internal/errors"
)

func TestH(t *testing.T) {
	data := &Data{ClassName: "x"}
	v := H("div", K("d"), data,
		"text",
		H("span", K(1)),
		nil,
		[]*VNode{Comment("c"), Text("t")},
	)

	if v.Kind != KindElement || v.Sel != "div" || v.Key != StringKey("d") || v.Data != data {
		t.Fatalf("H built %+v", v)
	}
	if len(v.Children) != 4 {
		t.Fatalf("children = %d, want 4", len(v.Children))
	}
	kinds := []VKind{KindText, KindElement, KindComment, KindText}
	for i, k := range kinds {
		if v.Children[i].Kind != k {
			t.Errorf("child %d kind = %s, want %s", i, v.Children[i].Kind, k)
		}
	}
}

func TestHChildlessHasEmptyChildren(t *testing.T) {
	v := H("br", K(1))
	if v.Children == nil || len(v.Children) != 0 {
		t.Errorf("children = %#v, want empty non-nil slice", v.Children)
	}
}

func TestHPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"missing key", func() { H("div") }},
		{"bad argument", func() { H("div", K(1), 3.5) }},
		{"bad key", func() { K(struct{}{}) }},
		{"custom without ctor", func() { CE("x-a", ShadowOpen, nil, K(1)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestConstructors(t *testing.T) {
	if _, err := NewElement("", K(1), nil, []*VNode{}); !stderrors.Is(err, errors.ErrInvalidNodeShape) {
		t.Errorf("empty selector: %v", err)
	}
	if _, err := NewElement("div", Key{}, nil, []*VNode{}); !stderrors.Is(err, errors.ErrInvalidNodeShape) {
		t.Errorf("missing key: %v", err)
	}
	if _, err := NewElement("div", K(1), nil, nil); !stderrors.Is(err, errors.ErrInvalidNodeShape) {
		t.Errorf("nil children: %v", err)
	}
	if _, err := NewCustomElement("x-a", K(1), "bogus", 1, nil, []*VNode{}); !stderrors.Is(err, errors.ErrInvalidNodeShape) {
		t.Errorf("bad mode: %v", err)
	}

	ce, err := NewCustomElement("x-a", K(1), ShadowClosed, "ctor", nil, []*VNode{})
	if err != nil {
		t.Fatal(err)
	}
	if ce.Kind != KindCustomElement || ce.Mode != ShadowClosed || ce.Ctor != "ctor" {
		t.Errorf("custom element = %+v", ce)
	}

	txt, err := NewText("hello")
	if err != nil || txt.Kind != KindText || txt.Text != "hello" {
		t.Errorf("NewText = %+v, %v", txt, err)
	}
	c, err := NewComment("note")
	if err != nil || c.Sel != CommentSel {
		t.Errorf("NewComment = %+v, %v", c, err)
	}
}

func TestTextf(t *testing.T) {
	if got := Textf("%d items", 3).Text; got != "3 items" {
		t.Errorf("Textf = %q", got)
	}
}
