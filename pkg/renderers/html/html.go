package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-graphview/pkg/fragment"
	"github.com/goliatone/go-graphview/pkg/render"
	rendertemplate "github.com/goliatone/go-graphview/pkg/render/template"
	"github.com/goliatone/go-graphview/pkg/render/template/gotemplate"
	"github.com/goliatone/go-graphview/pkg/view"
)

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// "page.tmpl".
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer replaces the policy applied to raw `{{&name}}` substitutions.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithInlineStyles toggles embedding the bundled stylesheet when the theme
// provides none. Enabled by default.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// Renderer writes pages as standalone HTML documents. Escaped text is
// HTML-escaped by the template engine; raw text passes through the sanitizer
// first. Labels become a pair of anchors.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	policy     *bluemonday.Policy
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	r := &Renderer{templates: templates, policy: cfg.policy}
	if cfg.inlineStyles {
		r.stylesheet = defaultStylesheet()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the MIME type of Render output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the page template.
func (r *Renderer) Render(ctx context.Context, page view.Page, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("html renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}

	data := templateData{
		Page:       r.pageData(page, opts),
		Theme:      buildThemeData(opts),
		State:      opts.State,
		Stylesheet: r.stylesheet,
	}
	out, err := r.templates.RenderTemplate(PageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(out), nil
}

type templateData struct {
	Page       pageData  `json:"page"`
	Theme      themeData `json:"theme"`
	State      string    `json:"state,omitempty"`
	Stylesheet string    `json:"stylesheet,omitempty"`
}

type pageData struct {
	ID       string      `json:"id,omitempty"`
	Title    string      `json:"title"`
	Subtitle *linkData   `json:"subtitle,omitempty"`
	Blocks   []blockData `json:"blocks,omitempty"`
}

type blockData struct {
	Kind         string     `json:"kind"`
	Title        string     `json:"title,omitempty"`
	Open         bool       `json:"open,omitempty"`
	Preformatted bool       `json:"preformatted,omitempty"`
	List         bool       `json:"list,omitempty"`
	Lines        []lineData `json:"lines,omitempty"`
	Error        string     `json:"error,omitempty"`
}

type lineData struct {
	Key       string         `json:"key,omitempty"`
	Fragments []fragmentData `json:"fragments,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type fragmentData struct {
	Kind   string    `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Raw    bool      `json:"raw,omitempty"`
	HTML   string    `json:"html,omitempty"`
	Target *linkData `json:"target,omitempty"`
	Type   *linkData `json:"type,omitempty"`
}

type linkData struct {
	ID   string `json:"id"`
	Href string `json:"href"`
	Text string `json:"text"`
}

type themeData struct {
	Name       string            `json:"name,omitempty"`
	Variant    string            `json:"variant,omitempty"`
	Stylesheet string            `json:"stylesheet,omitempty"`
	CSSVars    map[string]string `json:"css_vars,omitempty"`
}

func (r *Renderer) pageData(page view.Page, opts render.RenderOptions) pageData {
	out := pageData{ID: page.ID, Title: page.Title}
	if page.Subtitle != nil && !page.Subtitle.Target.Empty() {
		out.Subtitle = newLink(page.Subtitle.Target, opts)
	}
	for _, block := range page.Blocks {
		data := blockData{
			Kind:         string(block.Kind),
			Title:        block.Title,
			Open:         block.Open,
			Preformatted: block.Preformatted,
			List:         len(block.Items) > 0,
		}
		if block.Error != nil {
			data.Error = block.Error.Error()
		}
		if data.List {
			for _, item := range block.Items {
				line := lineData{Key: item.Key, Fragments: r.fragments(item.Fragments, opts)}
				if item.Error != nil {
					line.Error = item.Error.Error()
				}
				data.Lines = append(data.Lines, line)
			}
		} else if len(block.Content) > 0 {
			data.Lines = []lineData{{Fragments: r.fragments(block.Content, opts)}}
		}
		out.Blocks = append(out.Blocks, data)
	}
	return out
}

// fragments flattens nested sequences into a single run.
func (r *Renderer) fragments(frags []fragment.Fragment, opts render.RenderOptions) []fragmentData {
	var out []fragmentData
	for _, frag := range frags {
		switch v := frag.(type) {
		case fragment.Text:
			data := fragmentData{Kind: string(fragment.KindText), Text: v.Value}
			if v.Raw {
				data.Raw = true
				data.HTML = r.policy.Sanitize(v.Value)
			}
			out = append(out, data)
		case *fragment.Label:
			if v == nil {
				continue
			}
			data := fragmentData{Kind: string(fragment.KindLabel), Target: newLink(v.Target, opts)}
			if !v.Type.Empty() {
				data.Type = newLink(v.Type, opts)
			}
			out = append(out, data)
		case fragment.Sequence:
			out = append(out, r.fragments(v, opts)...)
		}
	}
	return out
}

func newLink(link fragment.Link, opts render.RenderOptions) *linkData {
	return &linkData{ID: link.ID, Href: opts.Href(link.ID), Text: link.Text}
}

func buildThemeData(opts render.RenderOptions) themeData {
	cfg := opts.Theme
	if cfg == nil {
		return themeData{}
	}
	data := themeData{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		CSSVars: cfg.CSSVars,
	}
	if cfg.AssetURL != nil {
		data.Stylesheet = cfg.AssetURL("stylesheet")
	}
	return data
}
