package view

import (
	"encoding/json"

	"github.com/goliatone/go-graphview/pkg/fragment"
)

// BlockKind names a page section.
type BlockKind string

const (
	BlockSameAs        BlockKind = "same_as"
	BlockSummary       BlockKind = "summary"
	BlockProperties    BlockKind = "properties"
	BlockRelationships BlockKind = "relationships"
	BlockSuperType     BlockKind = "super_type"
	BlockSubTypes      BlockKind = "sub_types"
	BlockThings        BlockKind = "things"
)

// NoneText is shown for empty hierarchy sections.
const NoneText = "None."

// Block is one section of a page. Content holds inline fragments (a sentence,
// a single label, pretty-printed JSON); Items holds list entries. Open mirrors
// whether the section starts expanded.
type Block struct {
	Kind         BlockKind
	Title        string
	Open         bool
	Preformatted bool
	Content      []fragment.Fragment
	Items        []Item
	Error        error
}

// MarshalJSON encodes the block with its error as a message.
func (b Block) MarshalJSON() ([]byte, error) {
	payload := struct {
		Kind         BlockKind           `json:"kind"`
		Title        string              `json:"title,omitempty"`
		Open         bool                `json:"open,omitempty"`
		Preformatted bool                `json:"preformatted,omitempty"`
		Content      []fragment.Fragment `json:"content,omitempty"`
		Items        []Item              `json:"items,omitempty"`
		Error        string              `json:"error,omitempty"`
	}{
		Kind:         b.Kind,
		Title:        b.Title,
		Open:         b.Open,
		Preformatted: b.Preformatted,
		Content:      b.Content,
		Items:        b.Items,
	}
	if b.Error != nil {
		payload.Error = b.Error.Error()
	}
	return json.Marshal(payload)
}

// Page is the composed view of a focal node.
type Page struct {
	ID       string          `json:"id,omitempty"`
	Title    string          `json:"title"`
	Subtitle *fragment.Label `json:"subtitle,omitempty"`
	Blocks   []Block         `json:"blocks,omitempty"`
}

// Block returns the first block of the given kind.
func (p Page) Block(kind BlockKind) (Block, bool) {
	for _, block := range p.Blocks {
		if block.Kind == kind {
			return block, true
		}
	}
	return Block{}, false
}

// Kinds lists block kinds in page order.
func (p Page) Kinds() []BlockKind {
	kinds := make([]BlockKind, 0, len(p.Blocks))
	for _, block := range p.Blocks {
		kinds = append(kinds, block.Kind)
	}
	return kinds
}

// Links returns every navigable target on the page in display order.
func (p Page) Links() []fragment.Link {
	var links []fragment.Link
	if p.Subtitle != nil {
		links = append(links, p.Subtitle.Links()...)
	}
	for _, block := range p.Blocks {
		links = append(links, fragment.Links(block.Content...)...)
		for _, item := range block.Items {
			links = append(links, fragment.Links(item.Fragments...)...)
		}
	}
	return links
}

// Errors collects block and item errors in page order.
func (p Page) Errors() []error {
	var errs []error
	for _, block := range p.Blocks {
		if block.Error != nil {
			errs = append(errs, block.Error)
		}
		for _, item := range block.Items {
			if item.Error != nil {
				errs = append(errs, item.Error)
			}
		}
	}
	return errs
}
