package text

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-graphview/pkg/fragment"
	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/view"
)

const indent = "  "

// Option configures the text renderer.
type Option func(*Renderer)

// WithLinkTargets appends the resolved href after every label, e.g.
// "Ada </person/ada> [Person </type/person>]".
func WithLinkTargets(enabled bool) Option {
	return func(r *Renderer) {
		r.linkTargets = enabled
	}
}

// Renderer writes pages as an indented plain-text outline.
type Renderer struct {
	linkTargets bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "text"
}

// ContentType reports the MIME type of Render output.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes the title, the subtitle and every block separated by blank
// lines. Failed items are prefixed with "!".
func (r *Renderer) Render(ctx context.Context, page view.Page, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("text: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(page.Title)
	b.WriteString("\n")
	if page.Subtitle != nil {
		b.WriteString(r.fragments(opts, page.Subtitle))
		b.WriteString("\n")
	}

	for _, block := range page.Blocks {
		b.WriteString("\n")
		body := indent
		if block.Title != "" {
			b.WriteString(block.Title)
			b.WriteString("\n")
		} else {
			body = ""
		}

		if len(block.Content) > 0 {
			content := r.fragments(opts, block.Content...)
			for _, line := range strings.Split(content, "\n") {
				b.WriteString(body)
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
		for _, item := range block.Items {
			b.WriteString(body)
			if item.Error != nil {
				b.WriteString("! ")
				b.WriteString(item.Error.Error())
			} else {
				b.WriteString("- ")
				b.WriteString(r.fragments(opts, item.Fragments...))
			}
			b.WriteString("\n")
		}
		if block.Error != nil {
			b.WriteString(body)
			b.WriteString("! ")
			b.WriteString(block.Error.Error())
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}

func (r *Renderer) fragments(opts render.RenderOptions, frags ...fragment.Fragment) string {
	if !r.linkTargets {
		return fragment.PlainText(frags...)
	}
	var b strings.Builder
	r.writeTargets(&b, opts, frags)
	return b.String()
}

func (r *Renderer) writeTargets(b *strings.Builder, opts render.RenderOptions, frags []fragment.Fragment) {
	for _, frag := range frags {
		switch v := frag.(type) {
		case fragment.Text:
			b.WriteString(v.Value)
		case *fragment.Label:
			writeLink(b, opts, v.Target)
			if !v.Type.Empty() {
				b.WriteString(" [")
				writeLink(b, opts, v.Type)
				b.WriteString("]")
			}
		case fragment.Sequence:
			r.writeTargets(b, opts, v)
		}
	}
}

func writeLink(b *strings.Builder, opts render.RenderOptions, link fragment.Link) {
	b.WriteString(link.Text)
	b.WriteString(" <")
	b.WriteString(opts.Href(link.ID))
	b.WriteString(">")
}
