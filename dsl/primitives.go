package dsl

import (
	js "github.com/confkit/declschema/jsonschema"
)

// String declares a string-typed configuration field.
type String struct {
	Title       string
	Description string
	Default     *Default
	Enum        []any
	EnumNames   []string
	Required    bool

	Format    string
	Pattern   string
	MinLength *int
	MaxLength *int
}

var _ Item = (*String)(nil)

func (s *String) check(name string) error {
	return checkEnum(name, s.Enum, s.EnumNames)
}

func (s *String) flattened() bool  { return false }
func (s *String) isRequired() bool { return s.Required }

func (s *String) Serialize() (*js.Document, error) {
	return s.serializeWithFormat(s.Format)
}

func (s *String) serializeWithFormat(format string) (*js.Document, error) {
	doc := js.New()
	emitHead(doc, "string", s.Title, s.Description)
	if format != "" {
		doc.Set("format", format)
	}
	if s.Pattern != "" {
		doc.Set("pattern", s.Pattern)
	}
	if s.MinLength != nil {
		doc.Set("minLength", *s.MinLength)
	}
	if s.MaxLength != nil {
		doc.Set("maxLength", *s.MaxLength)
	}
	emitEnum(doc, s.Enum, s.EnumNames)
	emitDefault(doc, s.Default)
	return doc, nil
}

// bakedFormat resolves the format of a fixed-format string subtype: an
// explicit Format wins, the subtype value applies otherwise.
func (s *String) bakedFormat(fixed string) string {
	if s.Format != "" {
		return s.Format
	}
	return fixed
}

// Email is a string field with format "email" baked in.
type Email struct{ String }

func (e *Email) Serialize() (*js.Document, error) {
	return e.serializeWithFormat(e.bakedFormat("email"))
}

// IPv4 is a string field with format "ipv4" baked in.
type IPv4 struct{ String }

func (i *IPv4) Serialize() (*js.Document, error) {
	return i.serializeWithFormat(i.bakedFormat("ipv4"))
}

// IPv6 is a string field with format "ipv6" baked in.
type IPv6 struct{ String }

func (i *IPv6) Serialize() (*js.Document, error) {
	return i.serializeWithFormat(i.bakedFormat("ipv6"))
}

// Hostname is a string field with format "hostname" baked in.
type Hostname struct{ String }

func (h *Hostname) Serialize() (*js.Document, error) {
	return h.serializeWithFormat(h.bakedFormat("hostname"))
}

// DateTime is a string field with format "date-time" baked in.
type DateTime struct{ String }

func (d *DateTime) Serialize() (*js.Document, error) {
	return d.serializeWithFormat(d.bakedFormat("date-time"))
}

// URI is a string field with format "uri" baked in.
type URI struct{ String }

func (u *URI) Serialize() (*js.Document, error) {
	return u.serializeWithFormat(u.bakedFormat("uri"))
}

// Secret is a string field with format "secret" baked in, a hint for UI
// generators to mask the value.
type Secret struct{ String }

func (s *Secret) Serialize() (*js.Document, error) {
	return s.serializeWithFormat(s.bakedFormat("secret"))
}

// Number declares a floating-point configuration field.
type Number struct {
	Title       string
	Description string
	Default     *Default
	Enum        []any
	EnumNames   []string
	Required    bool

	MultipleOf       *float64
	Minimum          *float64
	ExclusiveMinimum bool
	Maximum          *float64
	ExclusiveMaximum bool
}

var _ Item = (*Number)(nil)

func (n *Number) check(name string) error {
	return checkEnum(name, n.Enum, n.EnumNames)
}

func (n *Number) flattened() bool  { return false }
func (n *Number) isRequired() bool { return n.Required }

func (n *Number) Serialize() (*js.Document, error) {
	doc := js.New()
	emitHead(doc, "number", n.Title, n.Description)
	emitNumericBounds(doc, floatBounds{
		multipleOf: n.MultipleOf, minimum: n.Minimum, maximum: n.Maximum,
		exclusiveMinimum: n.ExclusiveMinimum, exclusiveMaximum: n.ExclusiveMaximum,
	})
	emitEnum(doc, n.Enum, n.EnumNames)
	emitDefault(doc, n.Default)
	return doc, nil
}

// Integer declares an integer configuration field.
type Integer struct {
	Title       string
	Description string
	Default     *Default
	Enum        []any
	EnumNames   []string
	Required    bool

	MultipleOf       *int
	Minimum          *int
	ExclusiveMinimum bool
	Maximum          *int
	ExclusiveMaximum bool
}

var _ Item = (*Integer)(nil)

func (i *Integer) check(name string) error {
	return checkEnum(name, i.Enum, i.EnumNames)
}

func (i *Integer) flattened() bool  { return false }
func (i *Integer) isRequired() bool { return i.Required }

func (i *Integer) Serialize() (*js.Document, error) {
	doc := js.New()
	emitHead(doc, "integer", i.Title, i.Description)
	if i.MultipleOf != nil {
		doc.Set("multipleOf", *i.MultipleOf)
	}
	if i.Minimum != nil {
		doc.Set("minimum", *i.Minimum)
	}
	if i.ExclusiveMinimum {
		doc.Set("exclusiveMinimum", true)
	}
	if i.Maximum != nil {
		doc.Set("maximum", *i.Maximum)
	}
	if i.ExclusiveMaximum {
		doc.Set("exclusiveMaximum", true)
	}
	emitEnum(doc, i.Enum, i.EnumNames)
	emitDefault(doc, i.Default)
	return doc, nil
}

type floatBounds struct {
	multipleOf, minimum, maximum       *float64
	exclusiveMinimum, exclusiveMaximum bool
}

func emitNumericBounds(doc *js.Document, b floatBounds) {
	if b.multipleOf != nil {
		doc.Set("multipleOf", *b.multipleOf)
	}
	if b.minimum != nil {
		doc.Set("minimum", *b.minimum)
	}
	if b.exclusiveMinimum {
		doc.Set("exclusiveMinimum", true)
	}
	if b.maximum != nil {
		doc.Set("maximum", *b.maximum)
	}
	if b.exclusiveMaximum {
		doc.Set("exclusiveMaximum", true)
	}
}

// Boolean declares a boolean configuration field.
type Boolean struct {
	Title       string
	Description string
	Default     *Default
	Enum        []any
	EnumNames   []string
	Required    bool
}

var _ Item = (*Boolean)(nil)

func (b *Boolean) check(name string) error {
	return checkEnum(name, b.Enum, b.EnumNames)
}

func (b *Boolean) flattened() bool  { return false }
func (b *Boolean) isRequired() bool { return b.Required }

func (b *Boolean) Serialize() (*js.Document, error) {
	doc := js.New()
	emitHead(doc, "boolean", b.Title, b.Description)
	emitEnum(doc, b.Enum, b.EnumNames)
	emitDefault(doc, b.Default)
	return doc, nil
}

// NullField declares a null-typed field, useful inside combinators to allow
// an explicitly unset value.
type NullField struct {
	Title       string
	Description string
	Required    bool
}

var _ Item = (*NullField)(nil)

func (n *NullField) check(string) error { return nil }
func (n *NullField) flattened() bool    { return false }
func (n *NullField) isRequired() bool   { return n.Required }

func (n *NullField) Serialize() (*js.Document, error) {
	doc := js.New()
	emitHead(doc, "null", n.Title, n.Description)
	return doc, nil
}
