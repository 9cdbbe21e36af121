package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-graphview/pkg/fragment"
	"github.com/goliatone/go-graphview/pkg/graph"
	"github.com/goliatone/go-graphview/pkg/mustache"
)

var (
	// ErrOrientation reports an edge whose endpoints match neither side of the
	// focal node.
	ErrOrientation = errors.New("view: relation endpoints do not include the focal node")
	// ErrRelationProperties reports relation properties that are not a JSON
	// object.
	ErrRelationProperties = errors.New("view: relation properties must be a JSON object")
)

// Context keys that always resolve to endpoint labels.
const (
	KeyA = "a"
	KeyB = "b"
)

// Side identifies which endpoint of a relation the focal node occupies.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideB {
		return KeyB
	}
	return KeyA
}

// Label builds the rich label for a reference: a link to the node showing its
// display name plus a link to its declared type. The type link is left empty
// when the declared type is unknown.
func Label(ref graph.TypedRef) *fragment.Label {
	label := &fragment.Label{
		Target: fragment.Link{ID: ref.ID, Text: ref.DisplayName()},
	}
	if ref.DeclaredType.ID != "" {
		label.Type = fragment.Link{ID: ref.DeclaredType.ID, Text: ref.DeclaredType.DisplayName()}
	}
	return label
}

// Orientation reports which side of edge the focal node occupies. A is
// checked first so self relations resolve to SideA.
func Orientation(focal graph.Identity, edge graph.RelationEdge) (Side, error) {
	switch {
	case edge.A.ID == focal.ID:
		return SideA, nil
	case edge.B.ID == focal.ID:
		return SideB, nil
	default:
		return SideA, fmt.Errorf("%w: relation %q has endpoints %q and %q, focal %q",
			ErrOrientation, edge.Relation.ID, edge.A.ID, edge.B.ID, focal.ID)
	}
}

// BuildRelationship assembles the template context for one edge and returns it
// with the endpoint that is not the focal node. Relation properties become
// text values; the a and b keys are then overwritten with endpoint labels.
func BuildRelationship(focal graph.TypedRef, edge graph.RelationEdge) (mustache.Context, graph.TypedRef, error) {
	side, err := Orientation(focal.Identity, edge)
	if err != nil {
		return nil, graph.TypedRef{}, err
	}

	props, err := decodeRelationProperties(edge)
	if err != nil {
		return nil, graph.TypedRef{}, err
	}

	ctx := make(mustache.Context, len(props)+2)
	for key, value := range props {
		ctx[key] = fragment.FromValue(value)
	}

	focalLabel, otherLabel := Label(focal), Label(edge.Other)
	if side == SideA {
		ctx[KeyA], ctx[KeyB] = focalLabel, otherLabel
	} else {
		ctx[KeyA], ctx[KeyB] = otherLabel, focalLabel
	}
	return ctx, edge.Other, nil
}

func decodeRelationProperties(edge graph.RelationEdge) (map[string]any, error) {
	raw := bytes.TrimSpace([]byte(edge.Properties))
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: relation %q: %v", ErrRelationProperties, edge.Relation.ID, err)
	}
	props, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: relation %q holds %T", ErrRelationProperties, edge.Relation.ID, value)
	}
	return props, nil
}

// Item is one rendered list entry. Exactly one of Fragments or Error is set.
type Item struct {
	Key       string
	Fragments []fragment.Fragment
	Error     error
}

// MarshalJSON encodes the item with its error as a message.
func (i Item) MarshalJSON() ([]byte, error) {
	payload := struct {
		Key       string              `json:"key"`
		Fragments []fragment.Fragment `json:"fragments,omitempty"`
		Error     string              `json:"error,omitempty"`
	}{Key: i.Key, Fragments: i.Fragments}
	if i.Error != nil {
		payload.Error = i.Error.Error()
	}
	return json.Marshal(payload)
}

// RenderRelationship renders edge through its relation type template. The
// item is keyed by the relation identity.
func RenderRelationship(focal graph.TypedRef, edge graph.RelationEdge) (Item, error) {
	item := Item{Key: edgeKey(edge)}
	ctx, _, err := BuildRelationship(focal, edge)
	if err != nil {
		item.Error = err
		return item, err
	}
	item.Fragments = mustache.Render(mustache.Tokenize(edge.Template), ctx)
	return item, nil
}

// RenderRelationships renders every edge in order. A failing edge yields an
// item carrying its error; siblings are unaffected.
func RenderRelationships(focal graph.TypedRef, edges []graph.RelationEdge) []Item {
	items := make([]Item, 0, len(edges))
	for _, edge := range edges {
		item, _ := RenderRelationship(focal, edge)
		items = append(items, item)
	}
	return items
}

func edgeKey(edge graph.RelationEdge) string {
	if edge.Relation.ID != "" {
		return edge.Relation.ID
	}
	return edge.Other.ID
}
