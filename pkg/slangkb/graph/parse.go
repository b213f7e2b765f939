package graph

import "github.com/cognicore/slangkb/internal/rawjson"

// ParseRaw decodes a {nodes, links} document. Elements that are not objects
// are skipped; a document that cannot be decoded yields an empty graph.
func ParseRaw(data []byte) ([]RawNode, []RawLink) {
	doc, ok := rawjson.Parse(data)
	if !ok {
		return nil, nil
	}

	var nodes []RawNode
	for _, obj := range doc.Objects("nodes") {
		value, _ := obj.Float("value", "weight", "count")
		nodes = append(nodes, RawNode{
			ID:       obj.String("id", "name"),
			Value:    value,
			Category: obj.String("category", "group"),
		})
	}

	var links []RawLink
	for _, obj := range doc.Objects("links", "edges") {
		value, _ := obj.Float("value", "weight", "count")
		links = append(links, RawLink{
			Source: obj.String("source", "from"),
			Target: obj.String("target", "to"),
			Value:  value,
		})
	}
	return nodes, links
}
