// Package render defines the Renderer contract that turns a composed
// view.Page into bytes, the name-keyed Registry the viewer resolves renderers
// from, and the theme plumbing (ThemeSelector, ThemeConfig) that feeds
// go-theme configuration into renderers through RenderOptions.
package render
