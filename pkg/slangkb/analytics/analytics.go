package analytics

import (
	"sort"

	"github.com/cognicore/slangkb/pkg/slangkb/index"
	"github.com/cognicore/slangkb/pkg/slangkb/store"
)

const (
	// DefaultTopGames is how many games the distribution view keeps.
	DefaultTopGames = 8

	// DefaultWordCloudSize caps the word-cloud sample.
	DefaultWordCloudSize = 50
)

// CategoryNode is one node of the category tree. Leaf nodes carry the
// number of terms in their (l1, l2) bucket; parents carry the sum.
type CategoryNode struct {
	Name     string         `json:"name"`
	Value    int            `json:"value"`
	Children []CategoryNode `json:"children,omitempty"`
}

// CategoryTree emits one node per l1 with one child per non-empty l2.
// Nodes are sorted by name at both levels.
func CategoryTree(cats index.CategoryIndex) []CategoryNode {
	l1s := make([]string, 0, len(cats))
	for l1 := range cats {
		l1s = append(l1s, l1)
	}
	sort.Strings(l1s)

	var tree []CategoryNode
	for _, l1 := range l1s {
		byL2 := cats[l1]
		l2s := make([]string, 0, len(byL2))
		for l2, ids := range byL2 {
			if len(ids) > 0 {
				l2s = append(l2s, l2)
			}
		}
		if len(l2s) == 0 {
			continue
		}
		sort.Strings(l2s)

		node := CategoryNode{Name: l1}
		for _, l2 := range l2s {
			n := len(byL2[l2])
			node.Children = append(node.Children, CategoryNode{Name: l2, Value: n})
			node.Value += n
		}
		tree = append(tree, node)
	}
	return tree
}

// NameValue is a labelled count.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Indicator is one spoke of a radar chart.
type Indicator struct {
	Name string `json:"name"`
	Max  int    `json:"max"`
}

// GameDistribution is the top-game view.
type GameDistribution struct {
	Games      []NameValue `json:"games"`
	Indicators []Indicator `json:"indicators"`
}

// TopGames ranks games by term count (ties by name) and keeps the first
// limit. Every indicator's Max is the count of the largest game.
func TopGames(games index.GameIndex, limit int) GameDistribution {
	if limit <= 0 {
		limit = DefaultTopGames
	}

	ranked := make([]NameValue, 0, len(games))
	for name, ids := range games {
		if len(ids) == 0 {
			continue
		}
		ranked = append(ranked, NameValue{Name: name, Value: len(ids)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value == ranked[j].Value {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].Value > ranked[j].Value
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	dist := GameDistribution{
		Games:      ranked,
		Indicators: make([]Indicator, 0, len(ranked)),
	}
	if len(ranked) == 0 {
		return dist
	}
	peak := ranked[0].Value
	for _, g := range ranked {
		dist.Indicators = append(dist.Indicators, Indicator{Name: g.Name, Max: peak})
	}
	return dist
}

// WordWeight is one word-cloud entry.
type WordWeight struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"value"`
}

// WordCloud samples community terms (scraped or mixed) weighted by how many
// scraped rows mentioned them. Ties prefer terms seen in more games, then
// id order, so the sample is stable across calls.
func WordCloud(terms []store.Term, limit int) []WordWeight {
	if limit <= 0 {
		limit = DefaultWordCloudSize
	}

	type candidate struct {
		term  store.Term
		games int
	}
	var pool []candidate
	for _, t := range terms {
		if t.Source != store.SourceScraped && t.Source != store.SourceMixed {
			continue
		}
		pool = append(pool, candidate{term: t, games: len(t.Games)})
	}

	sort.Slice(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.term.Mentions != b.term.Mentions {
			return a.term.Mentions > b.term.Mentions
		}
		if a.games != b.games {
			return a.games > b.games
		}
		return a.term.ID < b.term.ID
	})
	if len(pool) > limit {
		pool = pool[:limit]
	}

	out := make([]WordWeight, 0, len(pool))
	for _, c := range pool {
		weight := c.term.Mentions
		if weight < 1 {
			weight = 1
		}
		out = append(out, WordWeight{ID: c.term.ID, Name: c.term.Term, Weight: weight})
	}
	return out
}
