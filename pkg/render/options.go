package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the composed page.
type RenderOptions struct {
	// LinkPrefix is prepended to node identities when building navigable
	// references (e.g. "/view" turns "/person/ada" into "/view/person/ada").
	LinkPrefix string
	// Theme carries the resolved theme selection. Renderers that style their
	// output read tokens and CSS variables from it; others ignore it.
	Theme *theme.RendererConfig
	// State names the controller state the page was produced in. Renderers
	// may use it to mark placeholder pages.
	State string
}

// Href joins the link prefix and a node identity.
func (o RenderOptions) Href(id string) string {
	prefix := strings.TrimRight(o.LinkPrefix, "/")
	if prefix == "" {
		return id
	}
	if !strings.HasPrefix(id, "/") {
		id = "/" + id
	}
	return prefix + id
}
