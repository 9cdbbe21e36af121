package fetch

import (
	_ "embed"
	"strings"
)

//go:embed query.graphql
var queryDocument string

// OperationName names the operation in the embedded query document.
const OperationName = "Thing"

// DefaultLimit caps every list the query requests.
const DefaultLimit = 100

// Query returns the GraphQL document that fetches a single thing with its
// facets.
func Query() string {
	return strings.TrimSpace(queryDocument)
}

// Request is the JSON body of a GraphQL operation.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Variables builds the variables for the thing query. Non-positive limits
// fall back to DefaultLimit.
func Variables(id string, limit int) map[string]any {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return map[string]any{"id": id, "limit": limit}
}

// NewRequest builds the thing query request for id.
func NewRequest(id string, limit int) Request {
	return Request{
		Query:         Query(),
		Variables:     Variables(id, limit),
		OperationName: OperationName,
	}
}
