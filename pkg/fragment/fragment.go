package fragment

import (
	"encoding/json"
	"strings"
)

// Kind names the concrete variant behind a Fragment.
type Kind string

const (
	KindText     Kind = "text"
	KindLabel    Kind = "label"
	KindSequence Kind = "sequence"
)

// Fragment is one unit of rendered output. The set of implementations is closed:
// Text, *Label and Sequence.
type Fragment interface {
	Kind() Kind
	isFragment()
}

// Text is literal content. Raw marks content substituted through a raw
// placeholder; renderers may emit it without escaping after sanitizing.
type Text struct {
	Value string
	Raw   bool
}

func (Text) Kind() Kind   { return KindText }
func (Text) isFragment() {}

// MarshalJSON encodes the text with its kind discriminator.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Value string `json:"value"`
		Raw   bool   `json:"raw,omitempty"`
	}{Kind: KindText, Value: t.Value, Raw: t.Raw})
}

// Link is a navigable target: an opaque identity plus the text shown for it.
type Link struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Empty reports whether the link has no target.
func (l Link) Empty() bool {
	return l.ID == ""
}

// Label references a graph node by identity and annotates it with a second
// reference to the node's declared type. Type may be empty when the declared
// type is unknown.
type Label struct {
	Target Link
	Type   Link
}

func (*Label) Kind() Kind   { return KindLabel }
func (*Label) isFragment() {}

// Links returns the navigable targets of the label in display order.
func (l *Label) Links() []Link {
	if l == nil {
		return nil
	}
	links := make([]Link, 0, 2)
	if !l.Target.Empty() {
		links = append(links, l.Target)
	}
	if !l.Type.Empty() {
		links = append(links, l.Type)
	}
	return links
}

// MarshalJSON encodes the label with its kind discriminator.
func (l Label) MarshalJSON() ([]byte, error) {
	payload := struct {
		Kind   Kind  `json:"kind"`
		Target Link  `json:"target"`
		Type   *Link `json:"type,omitempty"`
	}{Kind: KindLabel, Target: l.Target}
	if !l.Type.Empty() {
		typ := l.Type
		payload.Type = &typ
	}
	return json.Marshal(payload)
}

// Sequence nests an ordered run of fragments inside a single value.
type Sequence []Fragment

func (Sequence) Kind() Kind   { return KindSequence }
func (Sequence) isFragment() {}

// MarshalJSON encodes the sequence with its kind discriminator.
func (s Sequence) MarshalJSON() ([]byte, error) {
	items := []Fragment(s)
	if items == nil {
		items = []Fragment{}
	}
	return json.Marshal(struct {
		Kind  Kind       `json:"kind"`
		Items []Fragment `json:"items"`
	}{Kind: KindSequence, Items: items})
}

// PlainText flattens fragments into a string. Labels render as
// "name [type]", or just "name" when the type is unknown.
func PlainText(fragments ...Fragment) string {
	var b strings.Builder
	writePlain(&b, fragments)
	return b.String()
}

func writePlain(b *strings.Builder, fragments []Fragment) {
	for _, frag := range fragments {
		switch v := frag.(type) {
		case Text:
			b.WriteString(v.Value)
		case *Label:
			if v == nil {
				continue
			}
			b.WriteString(v.Target.Text)
			if !v.Type.Empty() {
				b.WriteString(" [")
				b.WriteString(v.Type.Text)
				b.WriteString("]")
			}
		case Sequence:
			writePlain(b, v)
		}
	}
}

// Links walks fragments depth first and returns every navigable target in
// order of appearance.
func Links(fragments ...Fragment) []Link {
	var out []Link
	for _, frag := range fragments {
		switch v := frag.(type) {
		case *Label:
			out = append(out, v.Links()...)
		case Sequence:
			out = append(out, Links(v...)...)
		}
	}
	return out
}
