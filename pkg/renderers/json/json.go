package json

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-graphview/pkg/fragment"
	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/view"
)

// Option configures the JSON renderer.
type Option func(*Renderer)

// WithIndent overrides the two-space indent. An empty indent emits compact
// JSON.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer encodes pages as JSON documents.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "json"
}

// ContentType reports the MIME type of Render output.
func (r *Renderer) ContentType() string {
	return "application/json"
}

type document struct {
	State string          `json:"state,omitempty"`
	Page  view.Page       `json:"page"`
	Links []fragment.Link `json:"links,omitempty"`
}

// Render encodes the page together with its navigable links. Link ids carry
// the configured prefix.
func (r *Renderer) Render(ctx context.Context, page view.Page, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("json: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := document{State: opts.State, Page: page}
	for _, link := range page.Links() {
		doc.Links = append(doc.Links, fragment.Link{ID: opts.Href(link.ID), Text: link.Text})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("json: encode page: %w", err)
	}
	return buf.Bytes(), nil
}
