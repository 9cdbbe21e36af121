// Package graphview renders pages for the nodes of a knowledge graph. The
// root package offers short entry points over pkg/viewer for callers that
// just want a rendered page.
package graphview

import (
	"context"
	"errors"
	"fmt"
	"io"

	source "github.com/goliatone/go-graphview/internal/fetch"
	"github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/graph"
	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/view"
	"github.com/goliatone/go-graphview/pkg/viewer"
)

// Node is a decoded graph node.
type Node = graph.Node

// Page is the composed, renderer independent view of a node.
type Page = view.Page

// RenderOptions describes per-request link prefix, theme and state.
type RenderOptions = render.RenderOptions

// FetchCloser fetches nodes and releases the resources behind them.
type FetchCloser interface {
	fetch.Fetcher
	io.Closer
}

// NewViewer exposes the viewer constructor from the top-level module.
func NewViewer(options ...viewer.Option) *viewer.Viewer {
	return viewer.New(options...)
}

// OpenFetcher builds a fetcher over the source selected by options: a
// GraphQL endpoint, a websocket endpoint, a file system or a snapshot.
func OpenFetcher(options ...fetch.Option) (FetchCloser, error) {
	client, err := source.New(fetch.NewOptions(options...))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Render fetches id and renders its page with the named renderer. When the
// node cannot be loaded the error page is returned together with an error
// wrapping viewer.ErrFetch.
func Render(ctx context.Context, fetcher fetch.Fetcher, id, rendererName string, options ...viewer.Option) ([]byte, error) {
	if fetcher == nil {
		return nil, errors.New("graphview: fetcher is required")
	}
	v := viewer.New(append(options, viewer.WithFetcher(fetcher))...)
	out, err := v.Generate(ctx, viewer.Request{ID: id, Renderer: rendererName})
	return out.Body, err
}

// RenderNode composes and renders an already decoded node, bypassing the
// fetch stage.
func RenderNode(ctx context.Context, node Node, rendererName string, opts RenderOptions, options ...viewer.Option) ([]byte, error) {
	v := viewer.New(options...)
	registry := v.Registry()
	if registry == nil {
		return nil, errors.New("graphview: renderer registry is unavailable")
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, fmt.Errorf("graphview: renderer %q: %w", rendererName, err)
	}
	if opts.State == "" {
		opts.State = viewer.StateReady.String()
	}
	return renderer.Render(ctx, view.Compose(node), opts)
}

// Decode parses a node payload, accepting a bare payload or a GraphQL
// response envelope.
func Decode(payload []byte) (Node, error) {
	raw, err := fetch.Unwrap(payload)
	if err != nil {
		return Node{}, err
	}
	return graph.Decode(raw)
}
