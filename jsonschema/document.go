// Package jsonschema holds the compiled-document representation: an
// insertion-ordered mapping shaped like a JSON Schema draft-04 document,
// extended with the x-ordering key carrying declaration order.
package jsonschema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// SchemaURL is the draft-04 meta-schema reference emitted at the top level.
const SchemaURL = "http://json-schema.org/draft-04/schema#"

// Well-known keys. Only the non-obvious ones get names; plain draft-04 keys
// are written literally at call sites.
const (
	KeyOrdering = "x-ordering"
)

// Document is an ordered string->value mapping. Set preserves first-insertion
// position on overwrite, so serialization order is the order keys were first
// written. Values may be primitives, []any, []string, or nested *Document.
//
// A Document is built once by the compiler and read-only afterwards; it is
// not safe for concurrent mutation.
type Document struct {
	keys []string
	vals map[string]any
}

// New returns an empty Document.
func New() *Document {
	return &Document{vals: map[string]any{}}
}

// Set writes key to v, keeping the key's original position when it already
// exists. It returns the Document for chaining.
func (d *Document) Set(key string, v any) *Document {
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
	return d
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.vals[key]
	return ok
}

// Keys returns the keys in insertion order. The slice is a copy.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of keys.
func (d *Document) Len() int { return len(d.keys) }

// Append concatenates vs onto the list stored under key, creating the list
// when absent. Schema-level combinator keys (required, oneOf, anyOf, allOf)
// merge through here so repeated contributions concatenate instead of
// overwriting each other.
func (d *Document) Append(key string, vs ...any) *Document {
	cur, ok := d.vals[key]
	if !ok {
		return d.Set(key, append([]any{}, vs...))
	}
	switch list := cur.(type) {
	case []any:
		d.vals[key] = append(list, vs...)
	case []string:
		out := make([]any, 0, len(list)+len(vs))
		for _, s := range list {
			out = append(out, s)
		}
		d.vals[key] = append(out, vs...)
	default:
		d.vals[key] = append([]any{cur}, vs...)
	}
	return d
}

// AppendStrings is Append for name lists, keeping []string typing when the
// existing value is one.
func (d *Document) AppendStrings(key string, names ...string) *Document {
	cur, ok := d.vals[key]
	if !ok {
		return d.Set(key, append([]string{}, names...))
	}
	if list, isStr := cur.([]string); isStr {
		d.vals[key] = append(list, names...)
		return d
	}
	vs := make([]any, len(names))
	for i, n := range names {
		vs[i] = n
	}
	return d.Append(key, vs...)
}

// Merge writes every key of o into d in o's order, Set semantics per key.
func (d *Document) Merge(o *Document) *Document {
	if o == nil {
		return d
	}
	for _, k := range o.keys {
		d.Set(k, o.vals[k])
	}
	return d
}

// MarshalJSON emits the document with keys in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.vals[k])
		if err != nil {
			return nil, fmt.Errorf("jsonschema: marshal %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML projects the document as an order-preserving YAML mapping.
func (d *Document) MarshalYAML() (any, error) {
	return d.yamlNode()
}

func (d *Document) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range d.keys {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn, err := yamlValue(d.vals[k])
		if err != nil {
			return nil, fmt.Errorf("jsonschema: yaml %q: %w", k, err)
		}
		node.Content = append(node.Content, kn, vn)
	}
	return node, nil
}

func yamlValue(v any) (*yaml.Node, error) {
	switch tv := v.(type) {
	case *Document:
		return tv.yamlNode()
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range tv {
			in, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, in)
		}
		return seq, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}
