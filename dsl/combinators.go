package dsl

import (
	declschema "github.com/confkit/declschema"
	js "github.com/confkit/declschema/jsonschema"
)

// Combinator is a oneOf/anyOf/allOf node wrapping an ordered, non-empty list
// of children. Declared flattened, it contributes its schema-level key to the
// enclosing document instead of a named property.
type Combinator struct {
	op       string
	children []Node
	flatten  bool
}

// OneOf declares a oneOf node over the given children.
func OneOf(children ...Node) *Combinator {
	return &Combinator{op: "oneOf", children: children}
}

// AnyOf declares an anyOf node over the given children.
func AnyOf(children ...Node) *Combinator {
	return &Combinator{op: "anyOf", children: children}
}

// AllOf declares an allOf node over the given children.
func AllOf(children ...Node) *Combinator {
	return &Combinator{op: "allOf", children: children}
}

// Flatten marks the combinator as contributing at schema level.
func (c *Combinator) Flatten() *Combinator {
	c.flatten = true
	return c
}

var _ Item = (*Combinator)(nil)

func (c *Combinator) check(name string) error {
	if len(c.children) == 0 {
		return declschema.NewConfigurationError(name, "%s must wrap at least one item or schema", c.op)
	}
	for i, ch := range c.children {
		if ch == nil {
			return declschema.NewConfigurationError(name, "%s child %d is nil", c.op, i)
		}
		if err := checkChild(name, ch); err != nil {
			return err
		}
	}
	return nil
}

func (c *Combinator) flattened() bool  { return c.flatten }
func (c *Combinator) isRequired() bool { return false }

func (c *Combinator) Serialize() (*js.Document, error) {
	out := make([]any, 0, len(c.children))
	for _, ch := range c.children {
		doc, err := serializeNode(ch)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return js.New().Set(c.op, out), nil
}

// NotNode negates exactly one child schema.
type NotNode struct {
	child   Node
	flatten bool
}

// Not declares a not node around child.
func Not(child Node) *NotNode {
	return &NotNode{child: child}
}

// Flatten marks the node as contributing at schema level.
func (n *NotNode) Flatten() *NotNode {
	n.flatten = true
	return n
}

var _ Item = (*NotNode)(nil)

func (n *NotNode) check(name string) error {
	if n.child == nil {
		return declschema.NewConfigurationError(name, "not must wrap exactly one item or schema")
	}
	return checkChild(name, n.child)
}

func (n *NotNode) flattened() bool  { return n.flatten }
func (n *NotNode) isRequired() bool { return false }

func (n *NotNode) Serialize() (*js.Document, error) {
	doc, err := serializeNode(n.child)
	if err != nil {
		return nil, err
	}
	return js.New().Set("not", doc), nil
}

// RequirementsNode is a requirement-set: a non-empty mix of field names and
// nodes whose resolved requirements apply together.
type RequirementsNode struct {
	reqs    []any
	flatten bool
}

// Requirements declares a requirement set. Each argument must be a field
// name (string) or a Node whose serialized form resolves the requirement.
func Requirements(reqs ...any) *RequirementsNode {
	return &RequirementsNode{reqs: reqs}
}

// Flatten marks the node as contributing at schema level.
func (r *RequirementsNode) Flatten() *RequirementsNode {
	r.flatten = true
	return r
}

var _ Item = (*RequirementsNode)(nil)

func (r *RequirementsNode) check(name string) error {
	if len(r.reqs) == 0 {
		return declschema.NewConfigurationError(name, "requirements must not be empty")
	}
	for i, req := range r.reqs {
		switch tv := req.(type) {
		case string:
			if tv == "" {
				return declschema.NewConfigurationError(name, "requirement %d is an empty name", i)
			}
		case Node:
			if err := checkChild(name, tv); err != nil {
				return err
			}
		default:
			return declschema.NewConfigurationError(name,
				"requirement %d must be a field name, item or schema, got %T", i, req)
		}
	}
	return nil
}

func (r *RequirementsNode) flattened() bool  { return r.flatten }
func (r *RequirementsNode) isRequired() bool { return false }

func (r *RequirementsNode) Serialize() (*js.Document, error) {
	out := make([]any, 0, len(r.reqs))
	for _, req := range r.reqs {
		switch tv := req.(type) {
		case string:
			out = append(out, tv)
		case Node:
			doc, err := serializeNode(tv)
			if err != nil {
				return nil, err
			}
			out = append(out, doc)
		default:
			return nil, declschema.NewCompilationError("", "unexpected requirement %T", req)
		}
	}
	return js.New().Set("required", out), nil
}
