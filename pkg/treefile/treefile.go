package treefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// MaxDepth limits document nesting.
const MaxDepth = 256

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.CodeInvalidDocument).
			WithDetailf("%s: unknown document extension", path)
	}
}

// ListenerFunc resolves a handler name from a document's data.on map.
type ListenerFunc func(event, handler string) vdom.Listener

// Option configures decoding.
type Option func(*decoder)

// WithListeners sets the resolver for data.on handler names. By default
// every handler is a no-op, which still registers the event on the host.
func WithListeners(fn ListenerFunc) Option {
	return func(d *decoder) {
		if fn != nil {
			d.listeners = fn
		}
	}
}

type decoder struct {
	listeners ListenerFunc
}

func noopListener(string, string) vdom.Listener {
	return func(vdom.Event) {}
}

// Load reads a document from path. An empty document yields a nil tree.
func Load(path string, opts ...Option) (*vdom.VNode, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidDocument).
			WithDetailf("read %s", path).
			Wrap(err)
	}
	v, err := Parse(data, format, opts...)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e.WithDetail(path + ": " + e.Detail)
		}
		return nil, err
	}
	return v, nil
}

// Parse decodes a document. An empty or null document yields a nil tree.
func Parse(data []byte, format Format, opts ...Option) (*vdom.VNode, error) {
	n, err := Unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	return Build(n, opts...)
}

// Unmarshal decodes a document into its Node form without building the
// tree.
func Unmarshal(data []byte, format Format) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var n *Node
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &n)
	case FormatYAML:
		err = yaml.Unmarshal(data, &n)
	default:
		return nil, errors.New(errors.CodeInvalidDocument).
			WithDetailf("unknown format %q", format)
	}
	if err != nil {
		return nil, errors.New(errors.CodeInvalidDocument).
			WithDetailf("decode %s", format).
			Wrap(err)
	}
	return n, nil
}

// Build converts a decoded document to a virtual tree.
func Build(n *Node, opts ...Option) (*vdom.VNode, error) {
	if n == nil {
		return nil, nil
	}
	d := &decoder{listeners: noopListener}
	for _, opt := range opts {
		opt(d)
	}
	return d.build(n, "$", 0)
}

func invalid(path, format string, args ...any) *errors.Error {
	return errors.New(errors.CodeInvalidDocument).
		WithDetailf("%s: "+format, append([]any{path}, args...)...)
}

func (d *decoder) build(n *Node, path string, depth int) (*vdom.VNode, error) {
	if depth >= MaxDepth {
		return nil, invalid(path, "nesting exceeds %d levels", MaxDepth)
	}

	kinds := 0
	for _, set := range []bool{n.Sel != "", n.Text != nil, n.Comment != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, invalid(path, "node needs exactly one of sel, text or comment")
	}

	if n.Sel == "" {
		if n.Key != nil || n.Data != nil || n.Children != nil || n.Mode != "" || n.Ctor != "" {
			return nil, invalid(path, "text and comment nodes take no key, data, children, mode or ctor")
		}
		if n.Text != nil {
			return vdom.NewText(*n.Text)
		}
		return vdom.NewComment(*n.Comment)
	}

	key, ok := vdom.KeyOf(n.Key)
	if n.Key != nil && !ok {
		return nil, invalid(path+".key", "unsupported key %v (%T)", n.Key, n.Key)
	}

	children := make([]*vdom.VNode, len(n.Children))
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		child, err := d.build(c, fmt.Sprintf("%s.children[%d]", path, i), depth+1)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	data := d.data(n.Data)
	var v *vdom.VNode
	var err error
	if n.Mode != "" || n.Ctor != "" {
		var ctor any
		if n.Ctor != "" {
			ctor = n.Ctor
		}
		v, err = vdom.NewCustomElement(n.Sel, key, vdom.ShadowMode(n.Mode), ctor, data, children)
	} else {
		v, err = vdom.NewElement(n.Sel, key, data, children)
	}
	if err != nil {
		return nil, invalid(path, "invalid element").Wrap(err)
	}
	return v, nil
}

func (d *decoder) data(in *Data) *vdom.Data {
	if in == nil {
		return nil
	}
	out := &vdom.Data{
		Props:     in.Props,
		Attrs:     in.Attrs,
		ClassName: in.Class,
		Style:     in.Style,
		ClassMap:  in.ClassMap,
		StyleMap:  in.StyleMap,
		Context:   in.Context,
		NS:        in.NS,
	}
	if len(in.On) > 0 {
		out.On = make(map[string]vdom.Listener, len(in.On))
		for event, handler := range in.On {
			out.On[event] = d.listeners(event, handler)
		}
	}
	return out
}
