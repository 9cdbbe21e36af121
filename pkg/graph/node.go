package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingIdentity is returned when a node has no id.
	ErrMissingIdentity = errors.New("graph: node identity is required")
	// ErrConflictingFacets is returned when a relation node also carries type
	// or entity data.
	ErrConflictingFacets = errors.New("graph: relation facet cannot be combined with type or entity facets")
	// ErrIncompleteRelation is returned when a relation lacks one endpoint.
	ErrIncompleteRelation = errors.New("graph: relation requires both endpoints")
)

// Capability is a bit set of the facets a node carries.
type Capability uint8

const (
	CapType Capability = 1 << iota
	CapEntity
	CapRelation
)

// Has reports whether every bit of other is set.
func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c.Has(CapType) {
		parts = append(parts, "type")
	}
	if c.Has(CapEntity) {
		parts = append(parts, "entity")
	}
	if c.Has(CapRelation) {
		parts = append(parts, "relation")
	}
	return strings.Join(parts, "|")
}

// Node is a fetched graph node: its reference, raw properties and whichever
// capability facets the payload carried. Facets are reachable only through the
// comma-ok accessors.
type Node struct {
	Ref TypedRef
	// Properties is the raw JSON text of the node's properties, possibly empty.
	Properties string

	typ      *TypeFacet
	entity   *EntityFacet
	relation *RelationFacet
}

// NodeOption attaches a facet to a node under construction.
type NodeOption func(*Node)

// WithType attaches the type facet.
func WithType(facet TypeFacet) NodeOption {
	return func(n *Node) {
		f := facet
		n.typ = &f
	}
}

// WithEntity attaches the entity facet.
func WithEntity(facet EntityFacet) NodeOption {
	return func(n *Node) {
		f := facet
		n.entity = &f
	}
}

// WithRelation attaches the relation facet.
func WithRelation(facet RelationFacet) NodeOption {
	return func(n *Node) {
		f := facet
		n.relation = &f
	}
}

// NewNode validates and assembles a node.
func NewNode(ref TypedRef, properties string, opts ...NodeOption) (Node, error) {
	node := Node{Ref: ref, Properties: properties}
	for _, opt := range opts {
		if opt != nil {
			opt(&node)
		}
	}

	if strings.TrimSpace(ref.ID) == "" {
		return Node{}, ErrMissingIdentity
	}
	if node.relation != nil {
		if node.typ != nil || node.entity != nil {
			return Node{}, fmt.Errorf("%w (node %q)", ErrConflictingFacets, ref.ID)
		}
		if node.relation.A.ID == "" || node.relation.B.ID == "" {
			return Node{}, fmt.Errorf("%w (node %q)", ErrIncompleteRelation, ref.ID)
		}
	}
	return node, nil
}

// MustNode is NewNode that panics on error. Intended for fixtures.
func MustNode(ref TypedRef, properties string, opts ...NodeOption) Node {
	node, err := NewNode(ref, properties, opts...)
	if err != nil {
		panic(err)
	}
	return node
}

// Capabilities reports which facets the node carries.
func (n Node) Capabilities() Capability {
	var c Capability
	if n.typ != nil {
		c |= CapType
	}
	if n.entity != nil {
		c |= CapEntity
	}
	if n.relation != nil {
		c |= CapRelation
	}
	return c
}

// AsType returns the type facet when present.
func (n Node) AsType() (TypeFacet, bool) {
	if n.typ == nil {
		return TypeFacet{}, false
	}
	return *n.typ, true
}

// AsEntity returns the entity facet when present.
func (n Node) AsEntity() (EntityFacet, bool) {
	if n.entity == nil {
		return EntityFacet{}, false
	}
	return *n.entity, true
}

// AsRelation returns the relation facet when present.
func (n Node) AsRelation() (RelationFacet, bool) {
	if n.relation == nil {
		return RelationFacet{}, false
	}
	return *n.relation, true
}
