package template

import (
	"io"
)

// TemplateRenderer is the seam byte-level renderers use to execute their
// page templates. Render accepts either a template name or inline template
// content; out writers receive the rendered result as well.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
