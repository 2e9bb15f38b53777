// Package dsl is the authoring surface for configuration schemas.
//
// A schema is declared as an ordered set of typed field items, nested
// schemas, and combinator nodes, then compiled into an ordered JSON Schema
// draft-04 document:
//
//	inner := dsl.NewSchema("inner").
//		Field("x", &dsl.Boolean{Required: true}).
//		MustBuild()
//
//	outer := dsl.NewSchema("outer").
//		Title("Outer").
//		Embed("inner", inner.Flatten()).
//		Field("y", &dsl.String{}).
//		MustBuild()
//
//	doc, err := outer.Serialize()
//
// Field items are plain structs; zero values mean "attribute absent" and are
// omitted from the compiled fragment. Defaults go through *Default so that an
// explicit null default stays distinguishable from no default at all.
// Declaration-time validation runs in Build and reports
// declschema.ConfigurationError; Serialize is pure and never raises author
// errors.
package dsl
