package graphview

import (
	"io/fs"

	"github.com/goliatone/go-graphview/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in html page template so callers can
// reuse or extend it without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the bundled stylesheet so Go applications can serve it.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(graphview.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
