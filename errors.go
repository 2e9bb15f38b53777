package declschema

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an internally inconsistent declaration: a
// descriptor or combinator whose own attributes cannot form a valid schema
// (mismatched enum/enum-names lengths, an array item with nothing to type its
// elements, a combinator with no children, a child of the wrong kind). It is
// raised once, when the invalid declaration is built, never during compile.
type ConfigurationError struct {
	Item   string // name or kind of the offending declaration
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Item == "" {
		return "declschema: " + e.Reason
	}
	return fmt.Sprintf("declschema: %s: %s", e.Item, e.Reason)
}

// NewConfigurationError builds a ConfigurationError for the named item.
func NewConfigurationError(item, format string, args ...any) error {
	return &ConfigurationError{Item: item, Reason: fmt.Sprintf(format, args...)}
}

// AsConfigurationError extracts a ConfigurationError using errors.As.
func AsConfigurationError(err error) (*ConfigurationError, bool) {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// CompilationError reports an internal invariant violation during Serialize,
// such as an order entry that resolves to neither a field nor a nested
// schema. Given a correctly built declaration it should not occur; it is a
// distinct kind so callers can tell "author error" apart from "internal bug".
type CompilationError struct {
	Schema string
	Reason string
}

func (e *CompilationError) Error() string {
	if e.Schema == "" {
		return "declschema: compile: " + e.Reason
	}
	return fmt.Sprintf("declschema: compile %s: %s", e.Schema, e.Reason)
}

// NewCompilationError builds a CompilationError for the named schema.
func NewCompilationError(schema, format string, args ...any) error {
	return &CompilationError{Schema: schema, Reason: fmt.Sprintf(format, args...)}
}

// AsCompilationError extracts a CompilationError using errors.As.
func AsCompilationError(err error) (*CompilationError, bool) {
	var ce *CompilationError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
