package dsl

import (
	declschema "github.com/confkit/declschema"
	js "github.com/confkit/declschema/jsonschema"
)

// Serialize compiles the schema into an ordered JSON Schema draft-04
// document. It is a pure function of the declaration: repeated calls yield
// byte-identical output and are safe from concurrent goroutines.
func (s *Schema) Serialize() (*js.Document, error) {
	return s.serialize("", true)
}

func (s *Schema) serialize(path string, top bool) (*js.Document, error) {
	doc := js.New()
	if top {
		doc.Set("$schema", js.SchemaURL)
	} else if path != "" {
		doc.Set("id", "#/"+path)
	}
	if s.title != "" {
		doc.Set("title", s.title)
	}
	if d := dedent(s.description); d != "" {
		doc.Set("description", d)
	}
	doc.Set("type", "object")

	props := js.New()
	var required []any
	var ordering []string
	var stash []*js.Document

	order, items, schemas := s.aggregate()
	for _, name := range order {
		// An item binding shadows a schema binding of the same name.
		if it, ok := items[name]; ok {
			frag, err := it.Serialize()
			if err != nil {
				return nil, err
			}
			if it.flattened() {
				stash = append(stash, frag)
				continue
			}
			props.Set(name, frag)
			if it.isRequired() {
				required = append(required, name)
			}
			ordering = append(ordering, name)
			continue
		}
		sub, ok := schemas[name]
		if !ok {
			return nil, declschema.NewCompilationError(s.name,
				"order entry %q resolves to neither item nor schema", name)
		}
		if sub.flatten {
			subdoc, err := sub.serialize("", false)
			if err != nil {
				return nil, err
			}
			if p, ok := subdoc.Get("properties"); ok {
				if pd, ok := p.(*js.Document); ok {
					props.Merge(pd)
				}
			}
			if r, ok := subdoc.Get("required"); ok {
				required = append(required, asList(r)...)
			}
			if o, ok := subdoc.Get(js.KeyOrdering); ok {
				if names, ok := o.([]string); ok {
					ordering = append(ordering, names...)
				}
			}
			continue
		}
		subdoc, err := sub.serialize(joinPath(path, name), false)
		if err != nil {
			return nil, err
		}
		props.Set(name, subdoc)
		if sub.required {
			required = append(required, name)
		}
		ordering = append(ordering, name)
	}

	if props.Len() > 0 {
		doc.Set("properties", props)
	}
	if len(required) > 0 {
		doc.Set("required", required)
	}
	if len(ordering) > 0 {
		doc.Set(js.KeyOrdering, ordering)
	}
	// Flattened combinators merge at schema level, concatenating repeated
	// list-valued keys (required, oneOf, anyOf, allOf) in declaration order.
	for _, frag := range stash {
		for _, k := range frag.Keys() {
			v, _ := frag.Get(k)
			if list, ok := v.([]any); ok {
				doc.Append(k, list...)
				continue
			}
			doc.Set(k, v)
		}
	}
	doc.Set("additionalProperties", s.allowAdditional)
	return doc, nil
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "/" + name
}

func asList(v any) []any {
	switch tv := v.(type) {
	case []any:
		return tv
	case []string:
		out := make([]any, len(tv))
		for i, s := range tv {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

// Defaults compiles the schema and collects declared defaults, one nested
// object level deep: a property with its own default contributes that value;
// a nested object property without one contributes the defaults of its own
// direct properties. Explicit-null defaults come back as present nil values.
func (s *Schema) Defaults() (*js.Document, error) {
	doc, err := s.Serialize()
	if err != nil {
		return nil, err
	}
	out := js.New()
	props := propertiesOf(doc)
	if props == nil {
		return out, nil
	}
	for _, name := range props.Keys() {
		v, _ := props.Get(name)
		pd, ok := v.(*js.Document)
		if !ok {
			continue
		}
		if dv, ok := pd.Get("default"); ok {
			out.Set(name, dv)
			continue
		}
		sub := propertiesOf(pd)
		if sub == nil {
			continue
		}
		nested := js.New()
		for _, sn := range sub.Keys() {
			sv, _ := sub.Get(sn)
			if sd, ok := sv.(*js.Document); ok {
				if dv, ok := sd.Get("default"); ok {
					nested.Set(sn, dv)
				}
			}
		}
		if nested.Len() > 0 {
			out.Set(name, nested)
		}
	}
	return out, nil
}

func propertiesOf(doc *js.Document) *js.Document {
	v, ok := doc.Get("properties")
	if !ok {
		return nil
	}
	pd, _ := v.(*js.Document)
	return pd
}

// AsRequirements compiles the schema and converts it into a requirement set
// naming every compiled property, required or not. It turns an optional
// sub-schema into "if present, all of these" semantics at the use site.
func (s *Schema) AsRequirements() (*RequirementsNode, error) {
	doc, err := s.Serialize()
	if err != nil {
		return nil, err
	}
	props := propertiesOf(doc)
	if props == nil || props.Len() == 0 {
		return nil, declschema.NewConfigurationError(s.name, "schema compiles to no properties")
	}
	reqs := make([]any, 0, props.Len())
	for _, name := range props.Keys() {
		reqs = append(reqs, name)
	}
	return Requirements(reqs...), nil
}
