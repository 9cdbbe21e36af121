package render

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-graphview/pkg/view"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, view.Page, RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(stubRenderer{name: "text"}, stubRenderer{name: "HTML"})

	if diff := cmp.Diff([]string{"html", "text"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has(" Html ") {
		t.Fatalf("lookups should ignore case and whitespace")
	}
	if err := registry.Register(stubRenderer{name: "text"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}

	_, err := registry.Get("pdf")
	if !errors.Is(err, ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
}

func TestRenderOptionsHref(t *testing.T) {
	cases := []struct {
		prefix string
		id     string
		want   string
	}{
		{prefix: "", id: "/person/ada", want: "/person/ada"},
		{prefix: "/view/", id: "/person/ada", want: "/view/person/ada"},
		{prefix: "https://graph.example.com", id: "type/person", want: "https://graph.example.com/type/person"},
	}
	for _, tc := range cases {
		if got := (RenderOptions{LinkPrefix: tc.prefix}).Href(tc.id); got != tc.want {
			t.Errorf("Href(%q, %q) = %q, want %q", tc.prefix, tc.id, got, tc.want)
		}
	}
}
