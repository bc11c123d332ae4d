package vdom

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/reconcile/internal/errors"
)

func TestKeyOf(t *testing.T) {
	tests := []struct {
		in     any
		want   Key
		wantOK bool
	}{
		{"a", StringKey("a"), true},
		{42, IntKey(42), true},
		{int64(-1), IntKey(-1), true},
		{float64(3), IntKey(3), true},
		{1.5, Key{}, false},
		{true, Key{}, false},
		{nil, Key{}, false},
		{StringKey("x"), StringKey("x"), true},
	}

	for _, tt := range tests {
		got, ok := KeyOf(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("KeyOf(%#v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKeyIdentity(t *testing.T) {
	if StringKey("1") == IntKey(1) {
		t.Error("string and numeric keys must differ")
	}
	if (Key{}).String() != "" || !(Key{}).IsZero() {
		t.Error("zero key must be empty and absent")
	}
	if IntKey(0).IsZero() {
		t.Error("numeric zero is a present key")
	}
	if StringKey("").IsZero() {
		t.Error("empty string is a present key")
	}
	if got := IntKey(7).Value(); got != int64(7) {
		t.Errorf("Value() = %#v", got)
	}
}

func TestSameNode(t *testing.T) {
	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"same key and sel", H("li", K(1)), H("li", K(1)), true},
		{"different key", H("li", K(1)), H("li", K(2)), false},
		{"different sel", H("li", K(1)), H("p", K(1)), false},
		{"sel shorthand differs", H("li.a", K(1)), H("li.b", K(1)), false},
		{"texts", Text("a"), Text("b"), true},
		{"comments", Comment("a"), Comment("b"), true},
		{"text vs comment", Text("a"), Comment("a"), false},
		{"element vs custom", H("x-a", K(1)), CE("x-a", ShadowOpen, 1, K(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameNode(tt.a, tt.b); got != tt.want {
				t.Errorf("SameNode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		sel     string
		tag     string
		id      string
		classes []string
	}{
		{"div", "div", "", nil},
		{"div#main", "div", "main", nil},
		{"div.a.b", "div", "", []string{"a", "b"}},
		{"a#x.btn", "a", "x", []string{"btn"}},
		{"p.a#x.b", "p", "x", []string{"a", "b"}},
		{"span..a", "span", "", []string{"a"}},
	}

	for _, tt := range tests {
		tag, id, classes := ParseSelector(tt.sel)
		if tag != tt.tag || id != tt.id || len(classes) != len(tt.classes) {
			t.Errorf("ParseSelector(%q) = %q, %q, %v", tt.sel, tag, id, classes)
			continue
		}
		for i := range classes {
			if classes[i] != tt.classes[i] {
				t.Errorf("ParseSelector(%q) classes = %v, want %v", tt.sel, classes, tt.classes)
			}
		}
	}
}

func TestVNodeString(t *testing.T) {
	tests := []struct {
		v    *VNode
		want string
	}{
		{H("li", K(3)), "<li key=3>"},
		{Text("x"), "#text"},
		{Comment("x"), "#comment"},
		{nil, "<nil>"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTagAndNamespace(t *testing.T) {
	v := H("circle#c.big", K(1), &Data{NS: SVGNamespace})
	if v.Tag() != "circle" {
		t.Errorf("Tag() = %q", v.Tag())
	}
	if v.Namespace() != SVGNamespace {
		t.Errorf("Namespace() = %q", v.Namespace())
	}
	if Text("x").Namespace() != "" {
		t.Error("text has no namespace")
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[VKind]string{
		KindElement:       "Element",
		KindCustomElement: "CustomElement",
		KindComment:       "Comment",
		KindText:          "Text",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
	if !KindCustomElement.IsElement() || KindText.IsElement() {
		t.Error("IsElement mismatch")
	}
}

func TestDataClone(t *testing.T) {
	d := &Data{
		Attrs:    map[string]any{"a": "1"},
		ClassMap: map[string]bool{"x": true},
		Context:  map[string]map[string]any{"theme": {"c": "red"}},
	}
	c := d.Clone()
	c.Attrs["a"] = "2"
	c.ClassMap["y"] = true
	c.Context["theme"]["c"] = "blue"

	if d.Attrs["a"] != "1" || d.ClassMap["y"] || d.Context["theme"]["c"] != "red" {
		t.Error("Clone shares maps with the original")
	}
	if (*Data)(nil).Clone() != nil {
		t.Error("nil Clone must be nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		v    *VNode
		ok   bool
	}{
		{"element", &VNode{Kind: KindElement, Sel: "div", Key: K(1), Children: []*VNode{}}, true},
		{"nil", nil, false},
		{"empty selector", &VNode{Kind: KindElement, Key: K(1), Children: []*VNode{}}, false},
		{"comment selector", &VNode{Kind: KindElement, Sel: "!", Key: K(1), Children: []*VNode{}}, false},
		{"spaces in selector", &VNode{Kind: KindElement, Sel: "a b", Key: K(1), Children: []*VNode{}}, false},
		{"nil children", &VNode{Kind: KindElement, Sel: "div", Key: K(1)}, false},
		{"missing key", &VNode{Kind: KindElement, Sel: "div", Children: []*VNode{}}, false},
		{"element text", &VNode{Kind: KindElement, Sel: "div", Key: K(1), Children: []*VNode{}, Text: "x"}, false},
		{"mode on element", &VNode{Kind: KindElement, Sel: "div", Key: K(1), Children: []*VNode{}, Mode: ShadowOpen}, false},
		{"custom", &VNode{Kind: KindCustomElement, Sel: "x-a", Key: K(1), Children: []*VNode{}, Mode: ShadowClosed, Ctor: 1}, true},
		{"custom bad mode", &VNode{Kind: KindCustomElement, Sel: "x-a", Key: K(1), Children: []*VNode{}, Mode: "half", Ctor: 1}, false},
		{"custom no ctor", &VNode{Kind: KindCustomElement, Sel: "x-a", Key: K(1), Children: []*VNode{}, Mode: ShadowOpen}, false},
		{"text", &VNode{Kind: KindText, Text: "x"}, true},
		{"text selector", &VNode{Kind: KindText, Sel: "p"}, false},
		{"text key", &VNode{Kind: KindText, Key: K(1)}, false},
		{"text children", &VNode{Kind: KindText, Children: []*VNode{}}, false},
		{"comment", &VNode{Kind: KindComment, Sel: CommentSel}, true},
		{"comment no selector", &VNode{Kind: KindComment}, false},
		{"leaf namespace", &VNode{Kind: KindText, Data: &Data{NS: SVGNamespace}}, false},
		{"unknown kind", &VNode{Kind: VKind(99)}, false},
		{"zero kind", &VNode{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.v)
			if tt.ok {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !stderrors.Is(err, errors.ErrInvalidNodeShape) {
				t.Errorf("error = %v, want InvalidNodeShape", err)
			}
		})
	}
}

func TestValidateTree(t *testing.T) {
	tree := H("ul", K("l"), []*VNode{nil, H("li", K(1), "ok")})
	if err := ValidateTree(tree); err != nil {
		t.Fatal(err)
	}
	tree.Children[1].Children = append(tree.Children[1].Children, &VNode{Kind: KindText, Sel: "b"})
	if err := ValidateTree(tree); err == nil {
		t.Error("expected nested validation error")
	}
}
