package dsl

import (
	"strings"

	declschema "github.com/confkit/declschema"
	js "github.com/confkit/declschema/jsonschema"
)

// Node is anything that may appear inside a schema declaration: a field
// item, a combinator node, or a nested *Schema. The interface is sealed so
// that only declarations built from this package reach the compiler.
type Node interface {
	// check runs declaration-time validation under the given binding name.
	check(name string) error
	// flattened reports whether the node splices into its parent instead of
	// contributing a named property.
	flattened() bool
}

// Item is a leaf or combinator node that serializes to its own fragment.
type Item interface {
	Node
	// Serialize renders the item as an ordered schema fragment.
	Serialize() (*js.Document, error)
	isRequired() bool
}

// Default wraps a declared default value so that "no default" (nil *Default),
// "explicit null" (Null()) and a concrete value (V(v)) stay distinguishable.
type Default struct {
	value any
}

// V declares a concrete default value.
func V(v any) *Default { return &Default{value: v} }

// Null declares an explicit null default.
func Null() *Default { return &Default{} }

// Value returns the wrapped value; nil for an explicit null.
func (d *Default) Value() any {
	if d == nil {
		return nil
	}
	return d.value
}

// Int returns a pointer for optional integer constraints in item literals.
func Int(v int) *int { return &v }

// Float returns a pointer for optional numeric constraints in item literals.
func Float(v float64) *float64 { return &v }

// serializeNode renders any child node to a standalone fragment. Nested
// schemas compile without $schema or id, matching their role as anonymous
// sub-documents inside combinators, array items and dict properties.
func serializeNode(n Node) (*js.Document, error) {
	switch t := n.(type) {
	case *Schema:
		return t.serialize("", false)
	case Item:
		return t.Serialize()
	}
	return nil, declschema.NewCompilationError("", "unserializable node %T", n)
}

// dedent strips the common leading whitespace of the non-blank lines and
// trims surrounding blank lines, so multi-line raw-string descriptions
// indented to match the declaration render clean.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	margin := -1
	for _, ln := range lines {
		trimmed := strings.TrimLeft(ln, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(ln) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin > 0 {
		for i, ln := range lines {
			if len(ln) >= margin {
				lines[i] = ln[margin:]
			} else {
				lines[i] = strings.TrimLeft(ln, " \t")
			}
		}
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// ---- shared fragment emission ----

func emitHead(doc *js.Document, typ, title, description string) {
	doc.Set("type", typ)
	if title != "" {
		doc.Set("title", title)
	}
	if d := dedent(description); d != "" {
		doc.Set("description", d)
	}
}

func emitDefault(doc *js.Document, d *Default) {
	if d != nil {
		doc.Set("default", d.Value())
	}
}

func emitEnum(doc *js.Document, enum []any, names []string) {
	if enum != nil {
		doc.Set("enum", append([]any{}, enum...))
	}
	if names != nil {
		doc.Set("enumNames", append([]string{}, names...))
	}
}

func checkEnum(name string, enum []any, names []string) error {
	if enum != nil && len(enum) == 0 {
		return declschema.NewConfigurationError(name, "enum must not be empty")
	}
	if names != nil && len(names) != len(enum) {
		return declschema.NewConfigurationError(name,
			"enumNames length %d does not match enum length %d", len(names), len(enum))
	}
	return nil
}
