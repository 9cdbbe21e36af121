package mustache

import "github.com/goliatone/go-graphview/pkg/fragment"

// Context maps placeholder names to the fragments substituted for them.
type Context map[string]fragment.Fragment

// Render substitutes tokens against ctx and returns the output fragments in
// token order. Missing or nil values render as empty text. Text values are
// copied with Raw set for `{{&name}}` placeholders; labels and sequences are
// emitted as the very values held by ctx.
func Render(tokens []Token, ctx Context) []fragment.Fragment {
	out := make([]fragment.Fragment, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == TokenText {
			out = append(out, fragment.Text{Value: tok.Value})
			continue
		}
		if !tok.Valid() {
			out = append(out, fragment.Text{Value: tok.Source})
			continue
		}

		value, ok := ctx[tok.Value]
		if !ok || value == nil {
			out = append(out, fragment.Text{})
			continue
		}
		switch v := value.(type) {
		case fragment.Text:
			v.Raw = !tok.Escaped
			out = append(out, v)
		case *fragment.Label:
			if v == nil {
				out = append(out, fragment.Text{})
				continue
			}
			out = append(out, v)
		default:
			out = append(out, v)
		}
	}
	return out
}

// RenderString tokenizes template and renders it in one step.
func RenderString(template string, ctx Context) []fragment.Fragment {
	return Render(Tokenize(template), ctx)
}
