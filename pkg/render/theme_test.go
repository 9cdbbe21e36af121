package render

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"
)

const manifestYAML = `
name: acme
version: 1.0.0
tokens:
  brand: "#123456"
  surface: "#ffffff"
templates:
  page: themes/acme/page.tmpl
assets:
  prefix: /assets/themes/acme
  files:
    stylesheet: theme.css
variants:
  dark:
    tokens:
      surface: "#111111"
    assets:
      files:
        stylesheet: theme.dark.css
`

func TestThemeConfigMergesVariant(t *testing.T) {
	manifest, err := ParseManifest([]byte(manifestYAML))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	selector := NewManifestSelector(manifest)
	selection, err := selector.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	cfg, err := ThemeConfig(selection)
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["brand"] != "#123456" || cfg.Tokens["surface"] != "#111111" {
		t.Fatalf("tokens not merged: %v", cfg.Tokens)
	}
	if cfg.CSSVars["--surface"] != "#111111" {
		t.Fatalf("css vars not derived: %v", cfg.CSSVars)
	}
	if cfg.Partials["page"] != "themes/acme/page.tmpl" {
		t.Fatalf("partials not copied: %v", cfg.Partials)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown assets resolve empty, got %q", got)
	}
}

func TestThemeConfigUnknownVariantUsesBase(t *testing.T) {
	manifest := &theme.Manifest{Name: "plain", Tokens: map[string]string{"brand": "red"}}
	cfg, err := ThemeConfig(&theme.Selection{Theme: "plain", Variant: "nope", Manifest: manifest})
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}
	if cfg.CSSVars["--brand"] != "red" {
		t.Fatalf("expected base tokens, got %v", cfg.CSSVars)
	}
}

func TestThemeErrors(t *testing.T) {
	if _, err := ThemeConfig(nil); err == nil {
		t.Fatalf("expected error for nil selection")
	}
	if _, err := NewManifestSelector().Select("ghost", ""); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if _, err := ParseManifest([]byte("tokens: {}")); err == nil {
		t.Fatalf("expected missing name error")
	}
}
