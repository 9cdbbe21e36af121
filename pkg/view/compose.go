package view

import (
	"github.com/goliatone/go-graphview/pkg/fragment"
	"github.com/goliatone/go-graphview/pkg/graph"
)

// Compose builds the page for a fully fetched node. Blocks appear in a fixed
// order: same as, summary, properties, relationships, then the type hierarchy.
func Compose(node graph.Node) Page {
	page := Page{
		ID:    node.Ref.ID,
		Title: node.Ref.DisplayName(),
	}
	if typ := node.Ref.DeclaredType; typ.ID != "" {
		page.Subtitle = &fragment.Label{Target: fragment.Link{ID: typ.ID, Text: typ.DisplayName()}}
	}

	entity, isEntity := node.AsEntity()
	hasRelations := isEntity && len(entity.Relations) > 0

	if hasRelations && len(entity.SameAs) > 0 {
		page.Blocks = append(page.Blocks, sameAsBlock(entity.SameAs))
	}
	if rel, ok := node.AsRelation(); ok {
		page.Blocks = append(page.Blocks, summaryBlock(rel))
	}

	page.Blocks = append(page.Blocks, propertiesBlock(node.Properties))

	if hasRelations {
		page.Blocks = append(page.Blocks, Block{
			Kind:  BlockRelationships,
			Title: "Relationships",
			Open:  true,
			Items: RenderRelationships(node.Ref, entity.Relations),
		})
	}

	if typ, ok := node.AsType(); ok {
		page.Blocks = append(page.Blocks, hierarchyBlocks(typ)...)
	}
	return page
}

func sameAsBlock(edges []graph.SameAs) Block {
	block := Block{Kind: BlockSameAs, Title: "Same as"}
	for _, edge := range edges {
		key := edge.Relation.ID
		if key == "" {
			key = edge.Endpoint.ID
		}
		block.Items = append(block.Items, Item{
			Key:       key,
			Fragments: []fragment.Fragment{Label(edge.Endpoint)},
		})
	}
	return block
}

func summaryBlock(rel graph.RelationFacet) Block {
	return Block{
		Kind: BlockSummary,
		Content: []fragment.Fragment{
			fragment.Text{Value: "A relationship between "},
			Label(rel.A),
			fragment.Text{Value: " and "},
			Label(rel.B),
			fragment.Text{Value: "."},
		},
	}
}

func propertiesBlock(raw string) Block {
	block := Block{Kind: BlockProperties, Title: "Properties", Open: true, Preformatted: true}
	pretty, err := PrettyProperties(raw)
	if err != nil {
		block.Error = err
		pretty = raw
	}
	block.Content = []fragment.Fragment{fragment.Text{Value: pretty}}
	return block
}

func hierarchyBlocks(typ graph.TypeFacet) []Block {
	super := Block{Kind: BlockSuperType, Title: "Super type"}
	if typ.SuperType != nil {
		super.Content = []fragment.Fragment{Label(*typ.SuperType)}
	} else {
		super.Content = none()
	}

	return []Block{
		super,
		refListBlock(BlockSubTypes, "Sub types", typ.SubTypes),
		refListBlock(BlockThings, "Things", typ.Instances),
	}
}

func refListBlock(kind BlockKind, title string, refs []graph.TypedRef) Block {
	block := Block{Kind: kind, Title: title}
	if len(refs) == 0 {
		block.Content = none()
		return block
	}
	for _, ref := range refs {
		block.Items = append(block.Items, Item{
			Key:       ref.ID,
			Fragments: []fragment.Fragment{Label(ref)},
		})
	}
	return block
}

func none() []fragment.Fragment {
	return []fragment.Fragment{fragment.Text{Value: NoneText}}
}
