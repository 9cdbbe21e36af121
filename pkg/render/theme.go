package render

import (
	"errors"
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ThemeSelector resolves a theme name and variant into a selection.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// ErrUnknownTheme is returned by ManifestSelector for unregistered themes.
var ErrUnknownTheme = errors.New("render: unknown theme")

// ManifestSelector is an in-memory ThemeSelector over a fixed set of
// manifests, keyed by manifest name.
type ManifestSelector struct {
	manifests map[string]*theme.Manifest
}

// NewManifestSelector indexes manifests by name. Nil entries are skipped.
func NewManifestSelector(manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		s.manifests[manifest.Name] = manifest
	}
	return s
}

// Select returns the named manifest. Unknown variants fall back to the base
// manifest values when the config is built.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeConfig flattens a selection into the configuration renderers consume.
// Variant tokens, templates and assets override the manifest's; every token
// is also exposed as a `--name` CSS custom property.
func ThemeConfig(selection *theme.Selection) (*theme.RendererConfig, error) {
	if selection == nil || selection.Manifest == nil {
		return nil, errors.New("render: theme selection is empty")
	}
	manifest := selection.Manifest

	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	assets := manifest.Assets
	files := mergeStrings(manifest.Assets.Files, nil)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			assets.Prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	prefix := assets.Prefix
	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.Contains(file, "://") || prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

func mergeStrings(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

type manifestFile struct {
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
	Variants  map[string]struct {
		Tokens    map[string]string `yaml:"tokens"`
		Templates map[string]string `yaml:"templates"`
		Assets    assetsFile        `yaml:"assets"`
	} `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

// ParseManifest decodes a YAML (or JSON) theme manifest.
func ParseManifest(data []byte) (*theme.Manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("render: parse theme manifest: %w", err)
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, errors.New("render: theme manifest name is required")
	}

	manifest := &theme.Manifest{
		Name:      file.Name,
		Version:   file.Version,
		Tokens:    file.Tokens,
		Templates: file.Templates,
		Assets:    theme.Assets{Prefix: file.Assets.Prefix, Files: file.Assets.Files},
	}
	if len(file.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(file.Variants))
		for name, variant := range file.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}
