package fetch

import (
	"context"
	"errors"

	"github.com/goliatone/go-graphview/pkg/graph"
)

var (
	// ErrNotFound is returned when the backend has no thing for the identity.
	ErrNotFound = errors.New("fetch: thing not found")
	// ErrMissingID is returned for an empty identity.
	ErrMissingID = errors.New("fetch: id is required")
)

// Source retrieves the bare `thing` JSON payload for a node identity.
// Implementations live under internal/fetch but satisfy this contract.
type Source interface {
	FetchRaw(ctx context.Context, id string) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, id string) ([]byte, error)

// FetchRaw calls f.
func (f SourceFunc) FetchRaw(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

// Fetcher retrieves a fully decoded node.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (graph.Node, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id string) (graph.Node, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, id string) (graph.Node, error) {
	return f(ctx, id)
}
