package declschema

// Package declschema provides:
//
// - A declarative model for configuration schemas: typed field items,
//   combinator nodes (oneOf/anyOf/allOf/not/requirements), and schema
//   aggregates with inheritance and flatten semantics
// - A compile step that projects a declaration into an ordered JSON Schema
//   draft-04 document carrying the x-ordering extension key
// - A stable error model split into declaration-time ConfigurationError and
//   compile-time CompilationError
//
// Design policy:
// - Keep only public error/contract types in the root package; the authoring
//   DSL lives under dsl/ and the compiled document under jsonschema/.
// - Declarations are immutable after Build; Serialize is a pure function and
//   safe to call concurrently.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	host, err := dsl.NewSchema("host").
//		Field("name", &dsl.String{Title: "Name", Required: true}).
//		Field("port", &dsl.Integer{Default: dsl.V(22)}).
//		Build()
//	doc, err := host.Serialize()
//	b, err := json.Marshal(doc) // ordered draft-04 document
