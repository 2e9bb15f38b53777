package dsl_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/confkit/declschema/dsl"
	js "github.com/confkit/declschema/jsonschema"
)

func mustJSON(t *testing.T, doc *js.Document) string {
	t.Helper()
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	return string(b)
}

func mustSerialize(t *testing.T, s *dsl.Schema) string {
	t.Helper()
	doc, err := s.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	return mustJSON(t, doc)
}

func TestSerialize_RequiredAndDefault(t *testing.T) {
	s := dsl.NewSchema("test").
		Field("a", &dsl.String{Required: true}).
		Field("b", &dsl.Integer{Default: dsl.V(5)}).
		MustBuild()

	got := mustSerialize(t, s)
	want := `{"$schema":"http://json-schema.org/draft-04/schema#",` +
		`"type":"object",` +
		`"properties":{"a":{"type":"string"},"b":{"type":"integer","default":5}},` +
		`"required":["a"],` +
		`"x-ordering":["a","b"],` +
		`"additionalProperties":false}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_Deterministic(t *testing.T) {
	s := dsl.NewSchema("test").
		Field("b", &dsl.Integer{Default: dsl.V(5)}).
		Field("a", &dsl.String{Required: true}).
		Embed("sub", dsl.NewSchema("sub").Field("x", &dsl.Boolean{}).MustBuild()).
		MustBuild()

	first := mustSerialize(t, s)
	for i := 0; i < 5; i++ {
		if got := mustSerialize(t, s); got != first {
			t.Fatalf("serialize not deterministic on run %d\nfirst=%s\n  got=%s", i, first, got)
		}
	}
}

func TestSerialize_FlattenedSchemaSplicesAtDeclarationSite(t *testing.T) {
	inner := dsl.NewSchema("inner").
		Field("x", &dsl.Boolean{Required: true}).
		MustBuild()
	outer := dsl.NewSchema("outer").
		Embed("inner", inner.Flatten()).
		Field("y", &dsl.String{}).
		MustBuild()

	got := mustSerialize(t, outer)
	want := `{"$schema":"http://json-schema.org/draft-04/schema#",` +
		`"type":"object",` +
		`"properties":{"x":{"type":"boolean"},"y":{"type":"string"}},` +
		`"required":["x"],` +
		`"x-ordering":["x","y"],` +
		`"additionalProperties":false}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_NestedSchemaGetsPathID(t *testing.T) {
	leaf := dsl.NewSchema("leaf").Field("v", &dsl.String{}).MustBuild()
	mid := dsl.NewSchema("mid").Embed("leaf", leaf).MustBuild()
	top := dsl.NewSchema("top").Embed("mid", mid).MustBuild()

	doc, err := top.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	props, _ := doc.Get("properties")
	midDoc := mustProp(t, props, "mid")
	if id, _ := midDoc.Get("id"); id != "#/mid" {
		t.Fatalf("mid id = %v, want #/mid", id)
	}
	midProps, _ := midDoc.Get("properties")
	leafDoc := mustProp(t, midProps, "leaf")
	if id, _ := leafDoc.Get("id"); id != "#/mid/leaf" {
		t.Fatalf("leaf id = %v, want #/mid/leaf", id)
	}
	if doc.Has("id") {
		t.Fatalf("top-level document must carry $schema, not id")
	}
}

func mustProp(t *testing.T, props any, name string) *js.Document {
	t.Helper()
	pd, ok := props.(*js.Document)
	if !ok {
		t.Fatalf("properties is %T, want *jsonschema.Document", props)
	}
	v, ok := pd.Get(name)
	if !ok {
		t.Fatalf("property %q missing", name)
	}
	doc, ok := v.(*js.Document)
	if !ok {
		t.Fatalf("property %q is %T", name, v)
	}
	return doc
}

func TestSerialize_FlattenedRequirementsInsideAnyOf(t *testing.T) {
	s := dsl.NewSchema("auth").
		Field("user", &dsl.String{}).
		Field("token", &dsl.String{}).
		Field("either", dsl.AnyOf(
			dsl.Requirements("user"),
			dsl.Requirements("token"),
		).Flatten()).
		MustBuild()

	got := mustSerialize(t, s)
	want := `{"$schema":"http://json-schema.org/draft-04/schema#",` +
		`"type":"object",` +
		`"properties":{"user":{"type":"string"},"token":{"type":"string"}},` +
		`"x-ordering":["user","token"],` +
		`"anyOf":[{"required":["user"]},{"required":["token"]}],` +
		`"additionalProperties":false}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_FlattenedCombinatorsGroupByKey(t *testing.T) {
	s := dsl.NewSchema("grouping").
		Field("user", &dsl.String{Required: true}).
		Field("token", &dsl.String{}).
		Field("needToken", dsl.Requirements("token").Flatten()).
		Field("alsoUser", dsl.Requirements("user").Flatten()).
		MustBuild()

	doc, err := s.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	req, ok := doc.Get("required")
	if !ok {
		t.Fatalf("required missing")
	}
	want := []any{"user", "token", "user"}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("required grouping mismatch (-want +got):\n%s", diff)
	}
	// flattened entries never reach properties or x-ordering
	ord, _ := doc.Get("x-ordering")
	if diff := cmp.Diff([]string{"user", "token"}, ord); diff != "" {
		t.Fatalf("ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_InheritanceOrdersBasesFirst(t *testing.T) {
	grandparent := dsl.NewSchema("grandparent").
		Field("g", &dsl.String{}).
		MustBuild()
	parent := dsl.NewSchema("parent").
		Extend(grandparent).
		Field("p", &dsl.String{}).
		MustBuild()
	child := dsl.NewSchema("child").
		Extend(parent).
		Field("c", &dsl.String{}).
		MustBuild()

	doc, err := child.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	ord, _ := doc.Get("x-ordering")
	if diff := cmp.Diff([]string{"g", "p", "c"}, ord); diff != "" {
		t.Fatalf("inherited ordering mismatch (-want +got):\n%s", diff)
	}
}

// Re-declaring an inherited name keeps both order entries while the derived
// descriptor wins resolution. Compatibility behavior, not a feature; see
// DESIGN.md before changing it.
func TestSerialize_OverrideKeepsBothOrderEntries(t *testing.T) {
	base := dsl.NewSchema("base").
		Field("name", &dsl.String{Title: "Base name"}).
		Field("extra", &dsl.Boolean{}).
		MustBuild()
	derived := dsl.NewSchema("derived").
		Extend(base).
		Field("name", &dsl.String{Title: "Derived name"}).
		MustBuild()

	doc, err := derived.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	ord, _ := doc.Get("x-ordering")
	if diff := cmp.Diff([]string{"name", "extra", "name"}, ord); diff != "" {
		t.Fatalf("duplicate ordering mismatch (-want +got):\n%s", diff)
	}
	props, _ := doc.Get("properties")
	nameDoc := mustProp(t, props, "name")
	if title, _ := nameDoc.Get("title"); title != "Derived name" {
		t.Fatalf("resolution must pick the derived descriptor, got title %v", title)
	}
}

func TestSerialize_AdditionalPropertiesOptIn(t *testing.T) {
	open := dsl.NewSchema("open").
		AdditionalProperties(true).
		Field("a", &dsl.String{}).
		MustBuild()

	doc, err := open.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	if ap, _ := doc.Get("additionalProperties"); ap != true {
		t.Fatalf("additionalProperties = %v, want true", ap)
	}

	closed := dsl.NewSchema("closed").Field("a", &dsl.String{}).MustBuild()
	doc, err = closed.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	if ap, _ := doc.Get("additionalProperties"); ap != false {
		t.Fatalf("additionalProperties = %v, want false", ap)
	}
}

func TestSerialize_TitleAndDedentedDescription(t *testing.T) {
	s := dsl.NewSchema("described").
		Title("Described").
		Description(`
			First line.

			Second block.
		`).
		Field("a", &dsl.String{}).
		MustBuild()

	doc, err := s.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	if title, _ := doc.Get("title"); title != "Described" {
		t.Fatalf("title = %v", title)
	}
	desc, _ := doc.Get("description")
	if desc != "First line.\n\nSecond block." {
		t.Fatalf("description not dedented: %q", desc)
	}
}

func TestDefaults_TopLevelAndOneNestedLevel(t *testing.T) {
	inner := dsl.NewSchema("inner").
		Field("retries", &dsl.Integer{Default: dsl.V(3)}).
		Field("note", &dsl.String{}).
		MustBuild()
	s := dsl.NewSchema("test").
		Field("a", &dsl.String{}).
		Field("b", &dsl.Integer{Default: dsl.V(5)}).
		Field("c", &dsl.String{Default: dsl.Null()}).
		Embed("inner", inner).
		MustBuild()

	defaults, err := s.Defaults()
	if err != nil {
		t.Fatalf("defaults err: %v", err)
	}
	if defaults.Has("a") {
		t.Fatalf("a declared no default but is present")
	}
	if v, ok := defaults.Get("b"); !ok || v != 5 {
		t.Fatalf("b default = %v (present=%v), want 5", v, ok)
	}
	// explicit null stays present, distinguishable from omission
	if v, ok := defaults.Get("c"); !ok || v != nil {
		t.Fatalf("c default = %v (present=%v), want explicit null", v, ok)
	}
	nested, ok := defaults.Get("inner")
	if !ok {
		t.Fatalf("inner defaults missing")
	}
	nd, ok := nested.(*js.Document)
	if !ok {
		t.Fatalf("inner defaults are %T", nested)
	}
	if v, _ := nd.Get("retries"); v != 3 {
		t.Fatalf("inner retries default = %v, want 3", v)
	}
	if nd.Has("note") {
		t.Fatalf("note declared no default but is present")
	}
}

func TestAsRequirements_NamesEveryProperty(t *testing.T) {
	s := dsl.NewSchema("test").
		Field("a", &dsl.String{Required: true}).
		Field("b", &dsl.Integer{}).
		MustBuild()

	reqs, err := s.AsRequirements()
	if err != nil {
		t.Fatalf("as requirements err: %v", err)
	}
	doc, err := reqs.Serialize()
	if err != nil {
		t.Fatalf("serialize err: %v", err)
	}
	got := mustJSON(t, doc)
	want := `{"required":["a","b"]}`
	if got != want {
		t.Fatalf("requirements mismatch\n got=%s\nwant=%s", got, want)
	}
}

func TestSerialize_ConcurrentCompiles(t *testing.T) {
	s := dsl.NewSchema("test").
		Field("a", &dsl.String{Required: true}).
		Embed("sub", dsl.NewSchema("sub").Field("x", &dsl.Boolean{}).MustBuild().Flatten()).
		MustBuild()
	want := mustSerialize(t, s)

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			doc, err := s.Serialize()
			if err != nil {
				done <- "err: " + err.Error()
				return
			}
			b, _ := json.Marshal(doc)
			done <- string(b)
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != want {
			t.Fatalf("concurrent serialize mismatch\n got=%s\nwant=%s", got, want)
		}
	}
}
