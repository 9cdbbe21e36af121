package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-graphview/internal/config"
	source "github.com/goliatone/go-graphview/internal/fetch"
	"github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/renderers/html"
	"github.com/goliatone/go-graphview/pkg/renderers/tui"
	"github.com/goliatone/go-graphview/pkg/viewer"
)

// viewerSetup controls which renderers a command offers.
type viewerSetup struct {
	interactive bool
}

func (a *app) fetchOptions() fetch.Options {
	return fetch.NewOptions(a.cfg.FetchOptions(a.logger)...)
}

func (a *app) newViewer(setup viewerSetup) (*viewer.Viewer, error) {
	client, err := source.New(a.fetchOptions())
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client)

	registry, err := a.newRegistry(setup)
	if err != nil {
		return nil, err
	}

	defaultRenderer := a.cfg.Render.Renderer
	if !registry.Has(defaultRenderer) {
		defaultRenderer = "html"
	}

	options := []viewer.Option{
		viewer.WithFetcher(client),
		viewer.WithRegistry(registry),
		viewer.WithDefaultRenderer(defaultRenderer),
		viewer.WithLogger(a.logger),
		viewer.WithLinkPrefix(a.cfg.Server.LinkPrefix),
	}
	if a.cfg.Render.ThemeFile != "" {
		selector, name, err := loadTheme(a.cfg.Render)
		if err != nil {
			return nil, err
		}
		options = append(options, viewer.WithThemeSelector(selector, name, a.cfg.Render.Variant))
	}
	return viewer.New(options...), nil
}

func (a *app) newRegistry(setup viewerSetup) (*render.Registry, error) {
	var htmlOptions []html.Option
	if dir := a.cfg.Render.TemplatesDir; dir != "" {
		htmlOptions = append(htmlOptions, html.WithTemplatesDir(dir))
	}
	registry, err := viewer.DefaultRegistry(htmlOptions...)
	if err != nil {
		return nil, err
	}
	if setup.interactive {
		renderer, err := tui.New(a.tuiOptions()...)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (a *app) tuiOptions() []tui.Option {
	if a.prompt == nil {
		return nil
	}
	return []tui.Option{tui.WithPromptDriver(a.prompt)}
}

// loadTheme reads the manifest named by cfg. The configured theme name wins
// over the manifest's own.
func loadTheme(cfg config.RenderConfig) (render.ThemeSelector, string, error) {
	data, err := os.ReadFile(cfg.ThemeFile)
	if err != nil {
		return nil, "", fmt.Errorf("commands: read theme file: %w", err)
	}
	manifest, err := render.ParseManifest(data)
	if err != nil {
		return nil, "", err
	}
	name := strings.TrimSpace(cfg.Theme)
	if name == "" {
		name = manifest.Name
	}
	return render.NewManifestSelector(manifest), name, nil
}
