package vdom

// XML namespaces for namespaced subtrees.
const (
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
)

// Data is the attribute-like payload of a node. Each field is owned by one
// module applier; the engine itself only reads NS.
type Data struct {
	Props     map[string]any            // DOM properties
	Attrs     map[string]any            // string, number or bool values
	ClassName string                    // Static class list, space separated
	Style     string                    // Static inline style text
	ClassMap  map[string]bool           // Computed classes
	StyleMap  map[string]string         // Computed style declarations
	Context   map[string]map[string]any // Custom element context
	On        map[string]Listener       // Event listeners by event name
	NS        string                    // XML namespace (e.g., SVG)
}

// Event is delivered to a Listener.
type Event struct {
	Type   string
	Target Handle
	Detail any
}

// Listener handles a host event.
type Listener func(Event)

// Clone returns a copy of d. Maps are copied one level deep, Context two.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	c := *d
	c.Props = cloneMap(d.Props)
	c.Attrs = cloneMap(d.Attrs)
	c.ClassMap = cloneMap(d.ClassMap)
	c.StyleMap = cloneMap(d.StyleMap)
	if d.Context != nil {
		c.Context = make(map[string]map[string]any, len(d.Context))
		for ns, values := range d.Context {
			c.Context[ns] = cloneMap(values)
		}
	}
	c.On = cloneMap(d.On)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
