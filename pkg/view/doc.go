// Package view turns graph nodes into renderer-independent pages.
//
// BuildRelationship orients an edge against the focal node and assembles the
// template context for it; RenderRelationship and RenderRelationships run the
// relation type template. Compose decides which blocks a node's facets call
// for. Failures stay local: an edge that cannot be built becomes an Item with
// Error set, and undecodable properties set the properties Block's Error.
package view
