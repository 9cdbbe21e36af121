// Package graph models fetched knowledge-graph nodes. A Node always carries
// its identity, declared type and raw properties; type, entity and relation
// data are optional facets assigned structurally by Decode and reachable only
// through the comma-ok accessors AsType, AsEntity and AsRelation.
package graph
