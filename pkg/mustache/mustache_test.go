package mustache

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-graphview/pkg/fragment"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name     string
		template string
		want     []Token
	}{
		{name: "empty", template: "", want: nil},
		{name: "text only", template: "plain", want: []Token{Text("plain")}},
		{
			name:     "escaped var",
			template: "a{{x}}b",
			want:     []Token{Text("a"), Var("x"), Text("b")},
		},
		{name: "raw var", template: "{{&raw}}", want: []Token{RawVar("raw")}},
		{
			name:     "whitespace trimmed",
			template: "{{ year }}",
			want:     []Token{{Kind: TokenVar, Value: "year", Escaped: true, Source: "{{ year }}"}},
		},
		{
			name:     "raw with spaces",
			template: "{{& html }}",
			want:     []Token{{Kind: TokenVar, Value: "html", Source: "{{& html }}"}},
		},
		{
			name:     "unterminated delimiter is literal",
			template: "a {{b",
			want:     []Token{Text("a {{b")},
		},
		{
			name:     "unterminated after var merges text",
			template: "{{a}} and {{b",
			want:     []Token{Var("a"), Text(" and {{b")},
		},
		{
			name:     "section kept as var",
			template: "{{#items}}x{{/items}}",
			want:     []Token{Var("#items"), Text("x"), Var("/items")},
		},
		{
			name:     "adjacent vars",
			template: "{{a}}{{b}}",
			want:     []Token{Var("a"), Var("b")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.template)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"{{a}} knows {{b}} since {{year}}",
		"{{{triple}}}",
		"}} {{ }} {{&}} {{",
		"{{#s}}{{^inv}}{{> partial}}{{/s}}",
		"héllo {{ wörld }}",
	}
	for _, input := range inputs {
		tokens := Tokenize(input)
		if got := Source(tokens); got != input {
			t.Fatalf("round trip mismatch for %q: got %q", input, got)
		}
		for i := 1; i < len(tokens); i++ {
			if tokens[i].Kind == TokenText && tokens[i-1].Kind == TokenText {
				t.Fatalf("adjacent text tokens in %q at %d", input, i)
			}
		}
	}
}

func TestTokenValid(t *testing.T) {
	valid := []string{"a", "year", "first_name", "relation-type", "x.y", "A1"}
	invalid := []string{"", "#section", "/section", "> partial", "^inv", "two words", "{x"}
	for _, name := range valid {
		if !Var(name).Valid() {
			t.Errorf("expected %q to be valid", name)
		}
	}
	for _, name := range invalid {
		if Var(name).Valid() {
			t.Errorf("expected %q to be invalid", name)
		}
	}
	if !Text("{{#x}}").Valid() {
		t.Errorf("text tokens are always valid")
	}
}

func TestRenderSubstitutesText(t *testing.T) {
	ctx := Context{"x": fragment.Text{Value: "5"}}

	if got := fragment.PlainText(RenderString("v={{x}}", ctx)...); got != "v=5" {
		t.Fatalf("expected v=5, got %q", got)
	}
	if got := fragment.PlainText(RenderString("v={{y}}", ctx)...); got != "v=" {
		t.Fatalf("expected v=, got %q", got)
	}
}

func TestRenderMarksRawText(t *testing.T) {
	ctx := Context{"html": fragment.Text{Value: "<b>x</b>"}}

	got := RenderString("{{html}}|{{&html}}", ctx)
	want := []fragment.Fragment{
		fragment.Text{Value: "<b>x</b>"},
		fragment.Text{Value: "|"},
		fragment.Text{Value: "<b>x</b>", Raw: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderKeepsRichValueIdentity(t *testing.T) {
	label := &fragment.Label{Target: fragment.Link{ID: "/ada", Text: "Ada"}}
	seq := fragment.Sequence{fragment.Text{Value: "nested"}}
	ctx := Context{"a": label, "s": seq}

	out := RenderString("{{a}} then {{&a}} and {{s}}", ctx)
	if len(out) != 5 {
		t.Fatalf("expected 5 fragments, got %d: %#v", len(out), out)
	}
	for _, idx := range []int{0, 2} {
		got, ok := out[idx].(*fragment.Label)
		if !ok {
			t.Fatalf("fragment %d: expected *Label, got %T", idx, out[idx])
		}
		if got != label {
			t.Fatalf("fragment %d: label identity not preserved", idx)
		}
	}
	if _, ok := out[4].(fragment.Sequence); !ok {
		t.Fatalf("expected sequence at 4, got %T", out[4])
	}
}

func TestRenderEchoesUnrecognisedDelimiters(t *testing.T) {
	ctx := Context{"#items": fragment.Text{Value: "should not appear"}}
	got := fragment.PlainText(RenderString("{{#items}}-{{ > p }}-{{}}", ctx)...)
	if got != "{{#items}}-{{ > p }}-{{}}" {
		t.Fatalf("expected verbatim echo, got %q", got)
	}
}

func TestRenderNilValueIsEmpty(t *testing.T) {
	var label *fragment.Label
	ctx := Context{"a": nil, "b": label}
	out := RenderString("x{{a}}{{b}}y", ctx)
	want := []fragment.Fragment{
		fragment.Text{Value: "x"},
		fragment.Text{},
		fragment.Text{},
		fragment.Text{Value: "y"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestNames(t *testing.T) {
	got := Names(Tokenize("{{a}} {{b}} {{a}} {{#x}} {{&c}}"))
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
