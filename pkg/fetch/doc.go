// Package fetch defines how node payloads are retrieved: the Source and
// Fetcher contracts, the embedded GraphQL query with its variables, and
// decoding of GraphQL response envelopes. Transport implementations live in
// internal/fetch and are constructed through the graphview package.
package fetch
