package view_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-graphview/pkg/fragment"
	"github.com/goliatone/go-graphview/pkg/graph"
	"github.com/goliatone/go-graphview/pkg/testsupport"
	"github.com/goliatone/go-graphview/pkg/view"
)

func itemLines(items []view.Item) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.Error != nil {
			lines = append(lines, "error")
			continue
		}
		lines = append(lines, fragment.PlainText(item.Fragments...))
	}
	return lines
}

func mustBlock(t *testing.T, page view.Page, kind view.BlockKind) view.Block {
	t.Helper()
	block, ok := page.Block(kind)
	if !ok {
		t.Fatalf("expected %s block in %v", kind, page.Kinds())
	}
	return block
}

func TestComposeEntity(t *testing.T) {
	page := view.Compose(testsupport.MustNode(t, testsupport.PersonAda))

	if page.Title != "Ada" || page.ID != "/person/ada" {
		t.Fatalf("unexpected header %q / %q", page.ID, page.Title)
	}
	if page.Subtitle == nil || page.Subtitle.Target.ID != "/type/person" || !page.Subtitle.Type.Empty() {
		t.Fatalf("unexpected subtitle %+v", page.Subtitle)
	}

	wantKinds := []view.BlockKind{view.BlockSameAs, view.BlockProperties, view.BlockRelationships}
	if diff := cmp.Diff(wantKinds, page.Kinds()); diff != "" {
		t.Fatalf("block order mismatch (-want +got):\n%s", diff)
	}

	sameAs := mustBlock(t, page, view.BlockSameAs)
	if diff := cmp.Diff([]string{"Ada Lovelace [Person]"}, itemLines(sameAs.Items)); diff != "" {
		t.Fatalf("same as mismatch (-want +got):\n%s", diff)
	}
	if sameAs.Items[0].Key != "/relation/s1" {
		t.Fatalf("same as items are keyed by relation, got %q", sameAs.Items[0].Key)
	}

	rels := mustBlock(t, page, view.BlockRelationships)
	wantLines := []string{
		"Ada [Person] knows Bob [Person] since 2020",
		"Acme [Organization] employs Ada [Person]",
	}
	if diff := cmp.Diff(wantLines, itemLines(rels.Items)); diff != "" {
		t.Fatalf("relationships mismatch (-want +got):\n%s", diff)
	}
	if !rels.Open {
		t.Fatalf("relationships block should start open")
	}

	props := mustBlock(t, page, view.BlockProperties)
	want := "{\n  \"field\": \"mathematics\",\n  \"born\": 1815\n}"
	if got := fragment.PlainText(props.Content...); got != want {
		t.Fatalf("properties mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestComposeIsolatesBrokenEdge(t *testing.T) {
	page := view.Compose(testsupport.MustNode(t, testsupport.PersonBob))

	wantKinds := []view.BlockKind{view.BlockProperties, view.BlockRelationships}
	if diff := cmp.Diff(wantKinds, page.Kinds()); diff != "" {
		t.Fatalf("same as must be hidden when empty (-want +got):\n%s", diff)
	}

	rels := mustBlock(t, page, view.BlockRelationships)
	wantLines := []string{
		"Ada [Person] knows Bob [Person] since 2020",
		"error",
		"Bob [Person] quotes Ada [Person]: <em>hi</em><script>alert(1)</script>",
	}
	if diff := cmp.Diff(wantLines, itemLines(rels.Items)); diff != "" {
		t.Fatalf("relationships mismatch (-want +got):\n%s", diff)
	}

	errs := page.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], view.ErrOrientation) {
		t.Fatalf("expected a single orientation error, got %v", errs)
	}

	last := rels.Items[2].Fragments
	raw, ok := last[len(last)-1].(fragment.Text)
	if !ok || !raw.Raw {
		t.Fatalf("raw placeholder should produce raw text, got %#v", last[len(last)-1])
	}
}

func TestComposeEmptyTypeShowsNone(t *testing.T) {
	page := view.Compose(testsupport.MustNode(t, testsupport.TypeEmpty))

	wantKinds := []view.BlockKind{view.BlockProperties, view.BlockSuperType, view.BlockSubTypes, view.BlockThings}
	if diff := cmp.Diff(wantKinds, page.Kinds()); diff != "" {
		t.Fatalf("block order mismatch (-want +got):\n%s", diff)
	}
	for _, kind := range []view.BlockKind{view.BlockSuperType, view.BlockSubTypes, view.BlockThings} {
		block := mustBlock(t, page, kind)
		if got := fragment.PlainText(block.Content...); got != view.NoneText || len(block.Items) != 0 {
			t.Fatalf("%s: expected %q, got %q with %d items", kind, view.NoneText, got, len(block.Items))
		}
	}
	if got := fragment.PlainText(mustBlock(t, page, view.BlockProperties).Content...); got != "{}" {
		t.Fatalf("empty properties should render {}, got %q", got)
	}
}

func TestComposeType(t *testing.T) {
	page := view.Compose(testsupport.MustNode(t, testsupport.TypePerson))

	if got := fragment.PlainText(mustBlock(t, page, view.BlockSuperType).Content...); got != "Thing [Type]" {
		t.Fatalf("unexpected super type %q", got)
	}
	if diff := cmp.Diff([]string{"Scientist [Type]"}, itemLines(mustBlock(t, page, view.BlockSubTypes).Items)); diff != "" {
		t.Fatalf("sub types mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Ada [Person]", "Bob [Person]"}, itemLines(mustBlock(t, page, view.BlockThings).Items)); diff != "" {
		t.Fatalf("things mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeRelation(t *testing.T) {
	page := view.Compose(testsupport.MustNode(t, testsupport.RelationR1))

	wantKinds := []view.BlockKind{view.BlockSummary, view.BlockProperties}
	if diff := cmp.Diff(wantKinds, page.Kinds()); diff != "" {
		t.Fatalf("block order mismatch (-want +got):\n%s", diff)
	}
	summary := mustBlock(t, page, view.BlockSummary)
	if got := fragment.PlainText(summary.Content...); got != "A relationship between Ada [Person] and Bob [Person]." {
		t.Fatalf("unexpected summary %q", got)
	}
	if page.Title != "/relation/r1" {
		t.Fatalf("nameless nodes fall back to id, got %q", page.Title)
	}
}

func TestComposeTypeAndEntity(t *testing.T) {
	ref := graph.Ref("/type/agent", "Agent", "/type/type", "Type")
	node := graph.MustNode(ref, "{}",
		graph.WithType(graph.TypeFacet{}),
		graph.WithEntity(graph.EntityFacet{
			SameAs: []graph.SameAs{{Endpoint: graph.Ref("/x/agent", "", "", "")}},
			Relations: []graph.RelationEdge{{
				Relation: graph.Identity{ID: "/relation/7"},
				Template: "{{a}} generalises {{b}}",
				A:        graph.TypedRef{Identity: graph.Identity{ID: "/type/agent"}},
				B:        graph.TypedRef{Identity: graph.Identity{ID: "/type/person"}},
				Other:    graph.Ref("/type/person", "Person", "/type/type", "Type"),
			}},
		}),
	)

	page := view.Compose(node)
	want := []view.BlockKind{
		view.BlockSameAs, view.BlockProperties, view.BlockRelationships,
		view.BlockSuperType, view.BlockSubTypes, view.BlockThings,
	}
	if diff := cmp.Diff(want, page.Kinds()); diff != "" {
		t.Fatalf("block order mismatch (-want +got):\n%s", diff)
	}
	if key := mustBlock(t, page, view.BlockSameAs).Items[0].Key; key != "/x/agent" {
		t.Fatalf("same as key should fall back to endpoint id, got %q", key)
	}
}

func TestComposeInvalidProperties(t *testing.T) {
	node := graph.MustNode(graph.Ref("/n", "N", "", ""), "{oops")
	page := view.Compose(node)

	props := mustBlock(t, page, view.BlockProperties)
	if props.Error == nil {
		t.Fatalf("expected properties error")
	}
	if got := fragment.PlainText(props.Content...); got != "{oops" {
		t.Fatalf("raw properties should be shown, got %q", got)
	}
	if page.Subtitle != nil {
		t.Fatalf("no subtitle without a declared type")
	}
}

func TestComposeIsIdempotent(t *testing.T) {
	for _, name := range []string{testsupport.PersonAda, testsupport.PersonBob, testsupport.TypePerson, testsupport.RelationR1} {
		first, err := json.Marshal(view.Compose(testsupport.MustNode(t, name)))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		second, err := json.Marshal(view.Compose(testsupport.MustNode(t, name)))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("%s: compose is not deterministic\n%s\n%s", name, first, second)
		}
	}
}

func TestPageLinks(t *testing.T) {
	page := view.Compose(testsupport.MustNode(t, testsupport.PersonAda))
	links := page.Links()
	if len(links) != 11 {
		t.Fatalf("expected 11 links, got %d: %+v", len(links), links)
	}
	want := []fragment.Link{
		{ID: "/type/person", Text: "Person"},
		{ID: "/wikidata/Q7259", Text: "Ada Lovelace"},
		{ID: "/type/person", Text: "Person"},
		{ID: "/person/ada", Text: "Ada"},
	}
	if diff := cmp.Diff(want, links[:4]); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeGolden(t *testing.T) {
	page := view.Compose(testsupport.MustNode(t, testsupport.PersonAda))
	got, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join("testdata", "person-ada.page.golden.json")
	if testsupport.WriteMaybeGolden(t, path, got) {
		return
	}
	want := testsupport.MustReadGolden(t, path)
	if diff := cmp.Diff(string(bytes.TrimSpace(want)), string(got)); diff != "" {
		t.Fatalf("page golden mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyPropertiesReprintsDecodedValue(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"numbers", `{"a":1.50,"c":1e2,"tiny":1e-7,"big":1e21,"neg":-0}`,
			"{\n  \"a\": 1.5,\n  \"c\": 100,\n  \"tiny\": 1e-7,\n  \"big\": 1e+21,\n  \"neg\": 0\n}"},
		{"last duplicate wins in first position", `{"a":1,"b":true,"a":2}`,
			"{\n  \"a\": 2,\n  \"b\": true\n}"},
		{"nested", `{"x":[1,{"y":null}],"e":{},"l":[]}`,
			"{\n  \"x\": [\n    1,\n    {\n      \"y\": null\n    }\n  ],\n  \"e\": {},\n  \"l\": []\n}"},
		{"markup kept verbatim", `{"s":"<b>&</b>"}`, "{\n  \"s\": \"<b>&</b>\"\n}"},
		{"scalar", ` "hi" `, `"hi"`},
		{"empty", "  ", "{}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := view.PrettyProperties(tc.raw)
			if err != nil {
				t.Fatalf("pretty properties: %v", err)
			}
			if got != tc.want {
				t.Fatalf("mismatch\nwant: %s\n got: %s", tc.want, got)
			}
		})
	}

	for _, raw := range []string{"{oops", `{"a":1} {"b":2}`, `[1,`} {
		if _, err := view.PrettyProperties(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
