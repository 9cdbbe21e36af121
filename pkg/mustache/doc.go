// Package mustache implements the small placeholder language used by relation
// type templates: `{{name}}` and `{{&name}}` substitutions between literal
// text. Sections, partials and inverted blocks are not parsed; their delimiter
// content is echoed back unchanged when rendered.
//
// Rendering produces fragment values rather than a string so placeholders can
// resolve to navigable labels.
package mustache
