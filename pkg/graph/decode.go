package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type wireMetadata struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireTypeRef struct {
	Metadata wireMetadata `json:"metadata"`
	Template string       `json:"template"`
}

type wireRef struct {
	Metadata wireMetadata `json:"metadata"`
	Type     *wireTypeRef `json:"type"`
}

type wireRelation struct {
	Metadata   wireMetadata    `json:"metadata"`
	Type       *wireTypeRef    `json:"type"`
	Properties json.RawMessage `json:"properties"`
	A          *wireRef        `json:"a"`
	B          *wireRef        `json:"b"`
}

type wireRelated struct {
	Relation wireRelation `json:"relation"`
	Entity   wireRef      `json:"entity"`
}

type wireList[T any] struct {
	List []T `json:"list"`
}

// Decode classifies a `thing` payload into a Node. Facets are assigned by the
// presence of their fields: superType, subTypes or things mark a type; sameAs or
// related mark an entity; a or b mark a relation. A field that is present with
// a null value still counts as present.
func Decode(raw []byte) (Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Node{}, fmt.Errorf("graph: decode payload: %w", err)
	}
	if fields == nil {
		return Node{}, fmt.Errorf("graph: decode payload: %w", ErrMissingIdentity)
	}

	var base wireRef
	if err := decodeField(fields, "metadata", &base.Metadata); err != nil {
		return Node{}, err
	}
	if err := decodeField(fields, "type", &base.Type); err != nil {
		return Node{}, err
	}

	properties, err := rawText(fields["properties"])
	if err != nil {
		return Node{}, fmt.Errorf("graph: decode properties: %w", err)
	}

	var opts []NodeOption

	if has(fields, "superType", "subTypes", "things") {
		facet, err := decodeTypeFacet(fields)
		if err != nil {
			return Node{}, err
		}
		opts = append(opts, WithType(facet))
	}

	if has(fields, "sameAs", "related") {
		facet, err := decodeEntityFacet(fields)
		if err != nil {
			return Node{}, err
		}
		opts = append(opts, WithEntity(facet))
	}

	if has(fields, "a", "b") {
		var a, b *wireRef
		if err := decodeField(fields, "a", &a); err != nil {
			return Node{}, err
		}
		if err := decodeField(fields, "b", &b); err != nil {
			return Node{}, err
		}
		opts = append(opts, WithRelation(RelationFacet{A: a.typedRef(), B: b.typedRef()}))
	}

	return NewNode(base.typedRef(), properties, opts...)
}

func decodeTypeFacet(fields map[string]json.RawMessage) (TypeFacet, error) {
	var (
		facet    TypeFacet
		super    *wireRef
		subTypes wireList[wireRef]
		things   wireList[wireRef]
	)
	if err := decodeField(fields, "superType", &super); err != nil {
		return facet, err
	}
	if err := decodeField(fields, "subTypes", &subTypes); err != nil {
		return facet, err
	}
	if err := decodeField(fields, "things", &things); err != nil {
		return facet, err
	}

	if super != nil {
		ref := super.typedRef()
		facet.SuperType = &ref
	}
	facet.SubTypes = typedRefs(subTypes.List)
	facet.Instances = typedRefs(things.List)
	return facet, nil
}

func decodeEntityFacet(fields map[string]json.RawMessage) (EntityFacet, error) {
	var (
		facet   EntityFacet
		sameAs  wireList[wireRelated]
		related wireList[wireRelated]
	)
	if err := decodeField(fields, "sameAs", &sameAs); err != nil {
		return facet, err
	}
	if err := decodeField(fields, "related", &related); err != nil {
		return facet, err
	}

	for _, item := range sameAs.List {
		facet.SameAs = append(facet.SameAs, SameAs{
			Relation: item.Relation.Metadata.identity(),
			Endpoint: item.Entity.typedRef(),
		})
	}
	for _, item := range related.List {
		props, err := rawText(item.Relation.Properties)
		if err != nil {
			return facet, fmt.Errorf("graph: decode relation %q properties: %w", item.Relation.Metadata.ID, err)
		}
		edge := RelationEdge{
			Relation:   item.Relation.Metadata.identity(),
			Properties: props,
			A:          item.Relation.A.typedRef(),
			B:          item.Relation.B.typedRef(),
			Other:      item.Entity.typedRef(),
		}
		if t := item.Relation.Type; t != nil {
			edge.RelationType = TypedRef{Identity: t.Metadata.identity()}
			edge.Template = t.Template
		}
		facet.Relations = append(facet.Relations, edge)
	}
	return facet, nil
}

func decodeField(fields map[string]json.RawMessage, key string, target any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("graph: decode %s: %w", key, err)
	}
	return nil
}

func has(fields map[string]json.RawMessage, keys ...string) bool {
	for _, key := range keys {
		if _, ok := fields[key]; ok {
			return true
		}
	}
	return false
}

// rawText keeps properties as JSON text. The backend sends them as a
// JSON-encoded string; fixtures may inline the object instead.
func rawText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", err
		}
		return text, nil
	}
	return string(trimmed), nil
}

func (m wireMetadata) identity() Identity {
	return Identity{ID: m.ID, Name: m.Name}
}

func (r *wireRef) typedRef() TypedRef {
	if r == nil {
		return TypedRef{}
	}
	ref := TypedRef{Identity: r.Metadata.identity()}
	if r.Type != nil {
		ref.DeclaredType = r.Type.Metadata.identity()
	}
	return ref
}

func typedRefs(items []wireRef) []TypedRef {
	if len(items) == 0 {
		return nil
	}
	out := make([]TypedRef, 0, len(items))
	for i := range items {
		out = append(out, items[i].typedRef())
	}
	return out
}
