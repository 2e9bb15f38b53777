package dsl

import (
	declschema "github.com/confkit/declschema"
)

// entry is one declared binding: a field item, a combinator, or a nested
// schema, in authoring order.
type entry struct {
	name string
	node Node
}

// Schema is an immutable, validated schema declaration. Build one through
// NewSchema; compile it with Serialize.
type Schema struct {
	name            string
	title           string
	description     string
	allowAdditional bool
	flatten         bool
	required        bool
	bases           []*Schema
	entries         []entry
}

// Name returns the declaration name.
func (s *Schema) Name() string { return s.name }

// Flatten returns a view of the schema that splices its fields into the
// parent at the embed site instead of nesting under the embed name.
func (s *Schema) Flatten() *Schema {
	cp := *s
	cp.flatten = true
	return &cp
}

// Required returns a view of the schema whose embed name joins the parent's
// required list.
func (s *Schema) Required() *Schema {
	cp := *s
	cp.required = true
	return &cp
}

func (s *Schema) check(string) error { return nil }
func (s *Schema) flattened() bool    { return s.flatten }

// aggregate flattens the inheritance chain into the compiler inputs: the
// order list (base entries first, most distant base leading, then own
// entries) plus name resolution maps where the most derived binding wins.
// Re-declared names stay duplicated in the order list; see DESIGN.md.
func (s *Schema) aggregate() (order []string, items map[string]Item, schemas map[string]*Schema) {
	items = map[string]Item{}
	schemas = map[string]*Schema{}
	s.aggregateInto(&order, items, schemas)
	return order, items, schemas
}

func (s *Schema) aggregateInto(order *[]string, items map[string]Item, schemas map[string]*Schema) {
	for _, b := range s.bases {
		b.aggregateInto(order, items, schemas)
	}
	for _, e := range s.entries {
		*order = append(*order, e.name)
		// Both maps may hold the same name across the chain; the compiler
		// resolves items ahead of schemas.
		switch n := e.node.(type) {
		case *Schema:
			schemas[e.name] = n
		case Item:
			items[e.name] = n
		}
	}
}

// SchemaBuilder assembles a Schema declaration. All declaration-time
// validation happens in Build, before any compile.
type SchemaBuilder struct {
	s   Schema
	err error
}

// NewSchema starts a schema declaration with the given name. Additional
// properties are disallowed unless AdditionalProperties(true) is called.
func NewSchema(name string) *SchemaBuilder {
	return &SchemaBuilder{s: Schema{name: name}}
}

// Title sets the document title.
func (b *SchemaBuilder) Title(t string) *SchemaBuilder {
	b.s.title = t
	return b
}

// Description sets the descriptive text. Multi-line raw strings are dedented
// at compile time.
func (b *SchemaBuilder) Description(d string) *SchemaBuilder {
	b.s.description = d
	return b
}

// AdditionalProperties controls whether compiled documents accept entries
// beyond the declared ones.
func (b *SchemaBuilder) AdditionalProperties(allow bool) *SchemaBuilder {
	b.s.allowAdditional = allow
	return b
}

// Extend inherits every entry of base, ahead of entries declared on this
// schema. Call order is inheritance distance: the first Extend contributes
// first. A base's own bases contribute before the base itself.
func (b *SchemaBuilder) Extend(base *Schema) *SchemaBuilder {
	if base == nil {
		b.fail(declschema.NewConfigurationError(b.s.name, "extend of nil schema"))
		return b
	}
	b.s.bases = append(b.s.bases, base)
	return b
}

// Field declares a named field item or combinator. A flattened combinator
// contributes its schema-level key instead of a property.
func (b *SchemaBuilder) Field(name string, it Item) *SchemaBuilder {
	if name == "" {
		b.fail(declschema.NewConfigurationError(b.s.name, "field with empty name"))
		return b
	}
	if it == nil {
		b.fail(declschema.NewConfigurationError(name, "nil item"))
		return b
	}
	b.s.entries = append(b.s.entries, entry{name: name, node: it})
	return b
}

// Embed declares a nested schema under name. Pass sub.Flatten() to splice
// the nested fields into this schema at the declaration site.
func (b *SchemaBuilder) Embed(name string, sub *Schema) *SchemaBuilder {
	if name == "" {
		b.fail(declschema.NewConfigurationError(b.s.name, "embed with empty name"))
		return b
	}
	if sub == nil {
		b.fail(declschema.NewConfigurationError(name, "nil schema"))
		return b
	}
	b.s.entries = append(b.s.entries, entry{name: name, node: sub})
	return b
}

func (b *SchemaBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the declaration and returns the immutable Schema. Every
// ConfigurationError a declaration can produce surfaces here, never from
// Serialize.
func (b *SchemaBuilder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.s.name == "" {
		return nil, declschema.NewConfigurationError("", "schema name must not be empty")
	}
	for _, e := range b.s.entries {
		if err := e.node.check(e.name); err != nil {
			return nil, err
		}
	}
	cp := b.s
	cp.bases = append([]*Schema(nil), b.s.bases...)
	cp.entries = append([]entry(nil), b.s.entries...)
	return &cp, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// schema declarations.
func (b *SchemaBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
