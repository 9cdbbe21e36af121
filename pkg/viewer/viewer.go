package viewer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/renderers/html"
	jsonrenderer "github.com/goliatone/go-graphview/pkg/renderers/json"
	"github.com/goliatone/go-graphview/pkg/renderers/text"
	"github.com/goliatone/go-graphview/pkg/view"
)

const defaultRendererName = "html"

// ErrFetch wraps every failure to load the requested node. The underlying
// fetch error stays reachable through errors.Is and errors.As.
var ErrFetch = errors.New("viewer: fetch failed")

// Option customises the viewer configuration.
type Option func(*Viewer)

// WithFetcher injects the node fetcher.
func WithFetcher(fetcher fetch.Fetcher) Option {
	return func(v *Viewer) {
		v.fetcher = fetcher
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(v *Viewer) {
		v.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(v *Viewer) {
		v.defaultRenderer = name
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Viewer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithLinkPrefix sets the prefix applied to every link when a request does
// not carry its own.
func WithLinkPrefix(prefix string) Option {
	return func(v *Viewer) {
		v.linkPrefix = prefix
	}
}

// WithThemeSelector resolves themes for renderers that style their output.
// defaultTheme and defaultVariant apply when a request names none.
func WithThemeSelector(selector render.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(v *Viewer) {
		v.themeSelector = selector
		v.defaultTheme = defaultTheme
		v.defaultVariant = defaultVariant
	}
}

// Viewer coordinates fetch, controller, composition and rendering. Missing
// dependencies other than the fetcher are initialised with the built-in
// implementations (html, text and json renderers, html by default).
type Viewer struct {
	fetcher         fetch.Fetcher
	registry        *render.Registry
	defaultRenderer string
	linkPrefix      string
	logger          *zap.Logger
	themeSelector   render.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	initialiseErr   error
}

// New constructs a Viewer applying any provided options.
func New(options ...Option) *Viewer {
	v := &Viewer{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	v.applyDefaults()
	return v
}

// DefaultRegistry returns a registry holding the html, text and json
// renderers.
func DefaultRegistry(htmlOptions ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(htmlOptions...)
	if err != nil {
		return nil, fmt.Errorf("viewer: default html renderer: %w", err)
	}
	return render.NewRegistry(htmlRenderer, text.New(), jsonrenderer.New()), nil
}

func (v *Viewer) applyDefaults() {
	if v.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			v.initialiseErr = err
			return
		}
		v.registry = registry
	}
	if v.defaultRenderer == "" {
		v.defaultRenderer = defaultRendererName
	}
}

// Registry exposes the renderer registry.
func (v *Viewer) Registry() *render.Registry {
	return v.registry
}

// Request describes a single page render.
type Request struct {
	// ID is the identity of the focal node.
	ID string
	// Renderer names the renderer to use. Empty selects the default.
	Renderer string
	// Theme and Variant override the default theme selection.
	Theme   string
	Variant string
	// RenderOptions carries per-request link prefix or a resolved theme.
	RenderOptions render.RenderOptions
}

// Output is a rendered page.
type Output struct {
	Body        []byte
	ContentType string
	Renderer    string
	State       State
}

// Generate loads the node, composes its page and renders it. A failed load
// still renders the error placeholder: the returned Output is usable and
// the error wraps ErrFetch.
func (v *Viewer) Generate(ctx context.Context, req Request) (Output, error) {
	if ctx == nil {
		return Output{}, errors.New("viewer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if v.initialiseErr != nil {
		return Output{}, v.initialiseErr
	}

	renderer, err := v.rendererFor(req.Renderer)
	if err != nil {
		return Output{}, err
	}

	controller := NewController()
	loadErr := controller.Load(ctx, req.ID, v.fetcher)
	if loadErr != nil {
		v.logger.Warn("node load failed", zap.String("id", req.ID), zap.Error(loadErr))
	}

	opts := v.renderOptions(req)
	opts.State = controller.State().String()

	body, err := renderer.Render(ctx, controller.Page(), opts)
	if err != nil {
		return Output{}, fmt.Errorf("viewer: render output: %w", err)
	}

	out := Output{
		Body:        body,
		ContentType: renderer.ContentType(),
		Renderer:    renderer.Name(),
		State:       controller.State(),
	}
	if loadErr != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrFetch, req.ID, loadErr)
	}
	return out, nil
}

// Page loads and composes the page for id without rendering it. On failure
// it returns the error placeholder and an error wrapping ErrFetch.
func (v *Viewer) Page(ctx context.Context, id string) (view.Page, error) {
	controller := NewController()
	if err := controller.Load(ctx, id, v.fetcher); err != nil {
		return controller.Page(), fmt.Errorf("%w: %s: %w", ErrFetch, id, err)
	}
	return controller.Page(), nil
}

// RenderOptions returns the options renderers receive for req, with the
// default link prefix and theme applied.
func (v *Viewer) RenderOptions(req Request) render.RenderOptions {
	return v.renderOptions(req)
}

func (v *Viewer) renderOptions(req Request) render.RenderOptions {
	opts := req.RenderOptions
	if opts.LinkPrefix == "" {
		opts.LinkPrefix = v.linkPrefix
	}
	if opts.Theme == nil && v.themeSelector != nil {
		name, variant := req.Theme, req.Variant
		if name == "" {
			name = v.defaultTheme
		}
		if variant == "" {
			variant = v.defaultVariant
		}
		if name != "" {
			selection, err := v.themeSelector.Select(name, variant)
			if err == nil {
				opts.Theme, err = render.ThemeConfig(selection)
			}
			if err != nil {
				v.logger.Warn("theme unavailable", zap.String("theme", name), zap.String("variant", variant), zap.Error(err))
			}
		}
	}
	return opts
}

func (v *Viewer) rendererFor(name string) (render.Renderer, error) {
	if v.registry == nil {
		return nil, errors.New("viewer: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = v.defaultRenderer
	}

	renderer, err := v.registry.Get(target)
	if err == nil {
		return renderer, nil
	}
	if name != "" {
		return nil, fmt.Errorf("viewer: renderer %q: %w", name, err)
	}

	names := v.registry.List()
	if len(names) == 0 {
		return nil, errors.New("viewer: no renderers registered")
	}
	return v.registry.Get(names[0])
}
