package testsupport

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-graphview/pkg/graph"
)

//go:embed testdata/things/*.json
var thingFixtures embed.FS

// Fixture names shared by package tests.
const (
	// PersonAda is an entity with one same-as edge and two relations, one
	// oriented from each side.
	PersonAda = "person-ada"
	// PersonBob is an entity whose second relation matches neither endpoint and
	// whose third relation uses a raw placeholder.
	PersonBob = "person-bob"
	// TypePerson is a type with a super type, one sub type and two instances.
	TypePerson = "type-person"
	// TypeEmpty is a type with no super type, sub types or instances.
	TypeEmpty = "type-empty"
	// RelationR1 is a relation node.
	RelationR1 = "relation-r1"
)

// Things exposes the fixture payloads as `<name>.json` files.
func Things() fs.FS {
	sub, err := fs.Sub(thingFixtures, "testdata/things")
	if err != nil {
		panic(err)
	}
	return sub
}

// ThingIDs maps node identities to fixture names.
func ThingIDs() map[string]string {
	return map[string]string{
		"/person/ada":  PersonAda,
		"/person/bob":  PersonBob,
		"/type/person": TypePerson,
		"/type/empty":  TypeEmpty,
		"/relation/r1": RelationR1,
	}
}

// LoadThing returns the raw payload of a fixture.
func LoadThing(name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("testsupport: fixture name is required")
	}
	data, err := fs.ReadFile(Things(), strings.TrimSuffix(name, ".json")+".json")
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	return data, nil
}

// MustThing returns the raw payload of a fixture or fails the test.
func MustThing(t *testing.T, name string) []byte {
	t.Helper()

	data, err := LoadThing(name)
	if err != nil {
		t.Fatalf("load thing: %v", err)
	}
	return data
}

// MustNode decodes a fixture into a graph node or fails the test.
func MustNode(t *testing.T, name string) graph.Node {
	t.Helper()

	node, err := graph.Decode(MustThing(t, name))
	if err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return node
}

// Envelope wraps a bare payload in a GraphQL response envelope.
func Envelope(t *testing.T, name string) []byte {
	t.Helper()

	raw := MustThing(t, name)
	var buf bytes.Buffer
	buf.WriteString(`{"data":{"thing":`)
	buf.Write(raw)
	buf.WriteString(`}}`)
	return buf.Bytes()
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
