package treefile

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Node is the document form of a virtual node.
type Node struct {
	Sel      string  `json:"sel,omitempty" yaml:"sel,omitempty"`
	Key      any     `json:"key,omitempty" yaml:"key,omitempty"`
	Text     *string `json:"text,omitempty" yaml:"text,omitempty"`
	Comment  *string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Mode     string  `json:"mode,omitempty" yaml:"mode,omitempty"`
	Ctor     string  `json:"ctor,omitempty" yaml:"ctor,omitempty"`
	Data     *Data   `json:"data,omitempty" yaml:"data,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Data is the document form of vdom.Data.
type Data struct {
	Props    map[string]any            `json:"props,omitempty" yaml:"props,omitempty"`
	Attrs    map[string]any            `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Class    string                    `json:"class,omitempty" yaml:"class,omitempty"`
	Style    string                    `json:"style,omitempty" yaml:"style,omitempty"`
	ClassMap map[string]bool           `json:"classMap,omitempty" yaml:"classMap,omitempty"`
	StyleMap map[string]string         `json:"styleMap,omitempty" yaml:"styleMap,omitempty"`
	Context  map[string]map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
	On       map[string]string         `json:"on,omitempty" yaml:"on,omitempty"`
	NS       string                    `json:"ns,omitempty" yaml:"ns,omitempty"`
}

// nodeFields has Node's fields without its methods, so decoding into it
// does not recurse.
type nodeFields Node

// UnmarshalJSON accepts a bare string as a text node.
func (n *Node) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = Node{Text: &s}
		return nil
	}
	var f nodeFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Node(f)
	return nil
}

// UnmarshalYAML accepts a scalar as a text node.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s := value.Value
		*n = Node{Text: &s}
		return nil
	}
	var f nodeFields
	if err := value.Decode(&f); err != nil {
		return err
	}
	*n = Node(f)
	return nil
}
