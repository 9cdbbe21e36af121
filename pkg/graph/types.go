package graph

// Identity names a graph node. ID is globally unique and stable; Name is
// optional.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// DisplayName returns Name when set, otherwise the ID.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.ID
}

// TypedRef is a minimal reference to a node together with its declared type.
// Either side may be only partially hydrated (an ID with no name).
type TypedRef struct {
	Identity
	DeclaredType Identity `json:"type"`
}

// Ref builds a TypedRef from ids and names.
func Ref(id, name, typeID, typeName string) TypedRef {
	return TypedRef{
		Identity:     Identity{ID: id, Name: name},
		DeclaredType: Identity{ID: typeID, Name: typeName},
	}
}

// TypeFacet holds the hierarchy data of nodes that behave as types.
type TypeFacet struct {
	SuperType *TypedRef
	SubTypes  []TypedRef
	// Instances is bounded by the fetch limit.
	Instances []TypedRef
}

// SameAs is an equivalence edge to another node.
type SameAs struct {
	Relation Identity
	Endpoint TypedRef
}

// RelationEdge is one relation fetched relative to a focal node. A and B carry
// the relation's endpoints as recorded on the relation; Other is the hydrated
// endpoint that is not the focal node.
type RelationEdge struct {
	Relation     Identity
	RelationType TypedRef
	// Template is the relation type's mustache template.
	Template string
	// Properties is the raw JSON text of the relation's properties.
	Properties string
	A          TypedRef
	B          TypedRef
	Other      TypedRef
}

// EntityFacet holds equivalence and relation edges of entity nodes.
type EntityFacet struct {
	SameAs    []SameAs
	Relations []RelationEdge
}

// RelationFacet holds the two endpoints of a relation node.
type RelationFacet struct {
	A TypedRef
	B TypedRef
}
