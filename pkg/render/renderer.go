package render

import (
	"context"

	"github.com/goliatone/go-graphview/pkg/view"
)

// Renderer converts a composed page into a byte representation (HTML, text,
// JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page view.Page, options RenderOptions) ([]byte, error)
}
