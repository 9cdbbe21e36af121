package graph_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-graphview/pkg/graph"
	"github.com/goliatone/go-graphview/pkg/testsupport"
)

func TestDecodeClassifiesByFieldPresence(t *testing.T) {
	cases := []struct {
		fixture string
		want    graph.Capability
	}{
		{fixture: testsupport.PersonAda, want: graph.CapEntity},
		{fixture: testsupport.TypePerson, want: graph.CapType},
		{fixture: testsupport.TypeEmpty, want: graph.CapType},
		{fixture: testsupport.RelationR1, want: graph.CapRelation},
	}
	for _, tc := range cases {
		t.Run(tc.fixture, func(t *testing.T) {
			node := testsupport.MustNode(t, tc.fixture)
			if got := node.Capabilities(); got != tc.want {
				t.Fatalf("capabilities: want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDecodeEntity(t *testing.T) {
	node := testsupport.MustNode(t, testsupport.PersonAda)

	if node.Ref != graph.Ref("/person/ada", "Ada", "/type/person", "Person") {
		t.Fatalf("unexpected ref: %+v", node.Ref)
	}
	if node.Properties != `{"field": "mathematics", "born": 1815}` {
		t.Fatalf("properties should be kept verbatim, got %q", node.Properties)
	}

	entity, ok := node.AsEntity()
	if !ok {
		t.Fatalf("expected entity facet")
	}
	if _, ok := node.AsType(); ok {
		t.Fatalf("entity fixture must not carry the type facet")
	}
	if _, ok := node.AsRelation(); ok {
		t.Fatalf("entity fixture must not carry the relation facet")
	}

	wantSameAs := []graph.SameAs{{
		Relation: graph.Identity{ID: "/relation/s1"},
		Endpoint: graph.Ref("/wikidata/Q7259", "Ada Lovelace", "/type/person", "Person"),
	}}
	if diff := cmp.Diff(wantSameAs, entity.SameAs); diff != "" {
		t.Fatalf("same as mismatch (-want +got):\n%s", diff)
	}

	if len(entity.Relations) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(entity.Relations))
	}
	first := entity.Relations[0]
	want := graph.RelationEdge{
		Relation:     graph.Identity{ID: "/relation/r1"},
		RelationType: graph.TypedRef{Identity: graph.Identity{ID: "/relation/v1/knows"}},
		Template:     "{{a}} knows {{b}} since {{year}}",
		Properties:   `{"year": "2020"}`,
		A:            graph.TypedRef{Identity: graph.Identity{ID: "/person/ada"}},
		B:            graph.TypedRef{Identity: graph.Identity{ID: "/person/bob"}},
		Other:        graph.Ref("/person/bob", "Bob", "/type/person", "Person"),
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("relation mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeType(t *testing.T) {
	node := testsupport.MustNode(t, testsupport.TypePerson)
	facet, ok := node.AsType()
	if !ok {
		t.Fatalf("expected type facet")
	}
	if facet.SuperType == nil || facet.SuperType.ID != "/type/thing" {
		t.Fatalf("unexpected super type: %+v", facet.SuperType)
	}
	if len(facet.SubTypes) != 1 || facet.SubTypes[0].DisplayName() != "Scientist" {
		t.Fatalf("unexpected sub types: %+v", facet.SubTypes)
	}
	if len(facet.Instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(facet.Instances))
	}
}

func TestDecodeEmptyTypeKeepsCapability(t *testing.T) {
	node := testsupport.MustNode(t, testsupport.TypeEmpty)
	facet, ok := node.AsType()
	if !ok {
		t.Fatalf("null super type and empty lists still mark a type")
	}
	if facet.SuperType != nil || len(facet.SubTypes) != 0 || len(facet.Instances) != 0 {
		t.Fatalf("expected empty facet, got %+v", facet)
	}
	if node.Properties != "" {
		t.Fatalf("expected empty properties, got %q", node.Properties)
	}
}

func TestDecodeInlineProperties(t *testing.T) {
	node := testsupport.MustNode(t, testsupport.PersonBob)
	if node.Properties != `{"nickname": "<b>bobby</b>"}` {
		t.Fatalf("inline properties should keep their JSON text, got %q", node.Properties)
	}
}

func TestDecodeTypeAndEntityTogether(t *testing.T) {
	raw := []byte(`{
		"metadata": {"id": "/type/agent"},
		"type": {"metadata": {"id": "/type/type"}},
		"subTypes": {"list": []},
		"related": {"list": []}
	}`)
	node, err := graph.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	caps := node.Capabilities()
	if !caps.Has(graph.CapType | graph.CapEntity) {
		t.Fatalf("expected type and entity, got %s", caps)
	}
	if caps.String() != "type|entity" {
		t.Fatalf("unexpected capability string %q", caps.String())
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{
			name:    "relation with type data",
			payload: `{"metadata":{"id":"/r"},"a":{"metadata":{"id":"/x"}},"b":{"metadata":{"id":"/y"}},"things":{"list":[]}}`,
			want:    graph.ErrConflictingFacets,
		},
		{
			name:    "relation missing endpoint",
			payload: `{"metadata":{"id":"/r"},"a":{"metadata":{"id":"/x"}}}`,
			want:    graph.ErrIncompleteRelation,
		},
		{
			name:    "missing identity",
			payload: `{"metadata":{"name":"nameless"}}`,
			want:    graph.ErrMissingIdentity,
		},
		{
			name:    "null payload",
			payload: `null`,
			want:    graph.ErrMissingIdentity,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := graph.Decode([]byte(tc.payload))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := graph.Decode([]byte(`{`)); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestNewNodeValidation(t *testing.T) {
	ref := graph.Ref("/r", "", "/type/rel", "")
	_, err := graph.NewNode(ref, "", graph.WithRelation(graph.RelationFacet{
		A: graph.TypedRef{Identity: graph.Identity{ID: "/a"}},
		B: graph.TypedRef{Identity: graph.Identity{ID: "/b"}},
	}), graph.WithEntity(graph.EntityFacet{}))
	if !errors.Is(err, graph.ErrConflictingFacets) {
		t.Fatalf("expected conflicting facets, got %v", err)
	}

	node := graph.MustNode(ref, "{}")
	if node.Capabilities() != 0 || node.Capabilities().String() != "none" {
		t.Fatalf("bare node should carry no facets, got %s", node.Capabilities())
	}
}

func TestIdentityDisplayName(t *testing.T) {
	if got := (graph.Identity{ID: "/x"}).DisplayName(); got != "/x" {
		t.Fatalf("expected id fallback, got %q", got)
	}
	if got := (graph.Identity{ID: "/x", Name: "X"}).DisplayName(); got != "X" {
		t.Fatalf("expected name, got %q", got)
	}
}
