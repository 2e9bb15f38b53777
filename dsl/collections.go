package dsl

import (
	declschema "github.com/confkit/declschema"
	js "github.com/confkit/declschema/jsonschema"
)

// Array declares an array-typed configuration field. Items with a single
// element types every position; more than one element declares a positional
// tuple. At least one of Items and AdditionalItems must be given.
type Array struct {
	Title       string
	Description string
	Default     *Default
	Required    bool

	Items           []Node
	AdditionalItems any // bool or Node
	MinItems        *int
	MaxItems        *int
	UniqueItems     bool
}

var _ Item = (*Array)(nil)

func (a *Array) check(name string) error {
	if len(a.Items) == 0 && a.AdditionalItems == nil {
		return declschema.NewConfigurationError(name, "array must declare items or additionalItems")
	}
	for i, it := range a.Items {
		if it == nil {
			return declschema.NewConfigurationError(name, "array items[%d] is nil", i)
		}
		if err := checkChild(name, it); err != nil {
			return err
		}
	}
	return checkBoolOrNode(name, "additionalItems", a.AdditionalItems)
}

func (a *Array) flattened() bool  { return false }
func (a *Array) isRequired() bool { return a.Required }

func (a *Array) Serialize() (*js.Document, error) {
	doc := js.New()
	emitHead(doc, "array", a.Title, a.Description)
	switch len(a.Items) {
	case 0:
	case 1:
		child, err := serializeNode(a.Items[0])
		if err != nil {
			return nil, err
		}
		doc.Set("items", child)
	default:
		tuple := make([]any, 0, len(a.Items))
		for _, it := range a.Items {
			child, err := serializeNode(it)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, child)
		}
		doc.Set("items", tuple)
	}
	if a.AdditionalItems != nil {
		v, err := serializeBoolOrNode(a.AdditionalItems)
		if err != nil {
			return nil, err
		}
		doc.Set("additionalItems", v)
	}
	if a.MinItems != nil {
		doc.Set("minItems", *a.MinItems)
	}
	if a.MaxItems != nil {
		doc.Set("maxItems", *a.MaxItems)
	}
	if a.UniqueItems {
		doc.Set("uniqueItems", true)
	}
	emitDefault(doc, a.Default)
	return doc, nil
}

// Prop binds a name to a node inside a Dict declaration, keeping the
// properties in authoring order.
type Prop struct {
	Name string
	Node Node
}

// P is shorthand for a Prop literal.
func P(name string, n Node) Prop { return Prop{Name: name, Node: n} }

// Dict declares an object-typed configuration field with an inline property
// set. For a named, reusable object use a nested Schema instead.
type Dict struct {
	Title       string
	Description string
	Default     *Default
	Required    bool

	Properties           []Prop
	PatternProperties    []Prop
	AdditionalProperties any // bool or Node
	MinProperties        *int
	MaxProperties        *int
}

var _ Item = (*Dict)(nil)

func (d *Dict) check(name string) error {
	for _, p := range d.Properties {
		if p.Name == "" || p.Node == nil {
			return declschema.NewConfigurationError(name, "property %q is incomplete", p.Name)
		}
		if err := checkChild(p.Name, p.Node); err != nil {
			return err
		}
	}
	for _, p := range d.PatternProperties {
		if p.Name == "" || p.Node == nil {
			return declschema.NewConfigurationError(name, "pattern property %q is incomplete", p.Name)
		}
		if err := checkChild(p.Name, p.Node); err != nil {
			return err
		}
	}
	return checkBoolOrNode(name, "additionalProperties", d.AdditionalProperties)
}

func (d *Dict) flattened() bool  { return false }
func (d *Dict) isRequired() bool { return d.Required }

func (d *Dict) Serialize() (*js.Document, error) {
	doc := js.New()
	emitHead(doc, "object", d.Title, d.Description)
	if len(d.Properties) > 0 {
		props := js.New()
		var required []any
		for _, p := range d.Properties {
			child, err := serializeNode(p.Node)
			if err != nil {
				return nil, err
			}
			props.Set(p.Name, child)
			if it, ok := p.Node.(Item); ok && it.isRequired() {
				required = append(required, p.Name)
			}
		}
		doc.Set("properties", props)
		if len(required) > 0 {
			doc.Set("required", required)
		}
	}
	if len(d.PatternProperties) > 0 {
		pat := js.New()
		for _, p := range d.PatternProperties {
			child, err := serializeNode(p.Node)
			if err != nil {
				return nil, err
			}
			pat.Set(p.Name, child)
		}
		doc.Set("patternProperties", pat)
	}
	if d.AdditionalProperties != nil {
		v, err := serializeBoolOrNode(d.AdditionalProperties)
		if err != nil {
			return nil, err
		}
		doc.Set("additionalProperties", v)
	}
	if d.MinProperties != nil {
		doc.Set("minProperties", *d.MinProperties)
	}
	if d.MaxProperties != nil {
		doc.Set("maxProperties", *d.MaxProperties)
	}
	emitDefault(doc, d.Default)
	return doc, nil
}

// checkChild validates a nested node under the enclosing binding name.
// Schemas were already validated by their own Build and check is a no-op for
// them; inline items re-run their checks so an invalid child surfaces from
// the outer Build.
func checkChild(name string, n Node) error {
	return n.check(name)
}

func checkBoolOrNode(name, attr string, v any) error {
	switch tv := v.(type) {
	case nil, bool:
		return nil
	case Node:
		return checkChild(name, tv)
	default:
		return declschema.NewConfigurationError(name, "%s must be a bool, item or schema, got %T", attr, v)
	}
}

func serializeBoolOrNode(v any) (any, error) {
	switch tv := v.(type) {
	case bool:
		return tv, nil
	case Node:
		return serializeNode(tv)
	}
	return nil, declschema.NewCompilationError("", "unexpected %T", v)
}
