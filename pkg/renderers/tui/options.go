package tui

import (
	"io"

	"github.com/goliatone/go-graphview/pkg/render"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Option configures the TUI renderer and browser.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput directs the default survey driver's informational output.
// Ignored when a custom driver is supplied.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		r.out = w
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithPageSize limits how many menu entries are visible at once.
func WithPageSize(size int) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.pageSize = size
		}
	}
}

// WithPageRenderer swaps the renderer used to print the page body. It
// defaults to the plain text renderer.
func WithPageRenderer(renderer render.Renderer) Option {
	return func(r *Renderer) {
		if renderer != nil {
			r.body = renderer
		}
	}
}
