package index

import (
	"sort"

	"github.com/cognicore/slangkb/pkg/slangkb/store"
)

// GameIndex maps a normalized game name to the ids of terms tagged with it.
// Terms without any game are listed under store.General.
type GameIndex map[string][]string

// CategoryIndex maps l1 → l2 → term ids.
type CategoryIndex map[string]map[string][]string

// Indices bundles both indices built from one store.
type Indices struct {
	Games      GameIndex
	Categories CategoryIndex
}

// Build registers every term once per game (or once under General) and once
// under its own (l1, l2). Ids within a key follow store order.
func Build(s *store.Store) Indices {
	games := make(GameIndex)
	cats := make(CategoryIndex)

	for _, t := range s.All() {
		if len(t.Games) == 0 {
			games[store.General] = appendUnique(games[store.General], t.ID)
		}
		for _, g := range t.Games {
			games[g] = appendUnique(games[g], t.ID)
		}

		byL2, ok := cats[t.Category.L1]
		if !ok {
			byL2 = make(map[string][]string)
			cats[t.Category.L1] = byL2
		}
		byL2[t.Category.L2] = appendUnique(byL2[t.Category.L2], t.ID)
	}

	return Indices{Games: games, Categories: cats}
}

// appendUnique guards against a term listing the same game twice. Store
// terms keep Games de-duplicated, so the check only ever looks at the tail.
func appendUnique(ids []string, id string) []string {
	if n := len(ids); n > 0 && ids[n-1] == id {
		return ids
	}
	return append(ids, id)
}

// Names returns the keys of the game index sorted by name.
func (g GameIndex) Names() []string {
	out := make([]string, 0, len(g))
	for name := range g {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of terms registered under game.
func (g GameIndex) Count(game string) int {
	return len(g[game])
}

// Clone returns a deep copy so callers cannot mutate the shared index.
func (g GameIndex) Clone() GameIndex {
	out := make(GameIndex, len(g))
	for k, ids := range g {
		out[k] = append([]string(nil), ids...)
	}
	return out
}

// Bucket returns the term ids stored under (l1, l2).
func (c CategoryIndex) Bucket(l1, l2 string) []string {
	return c[l1][l2]
}

// Clone returns a deep copy so callers cannot mutate the shared index.
func (c CategoryIndex) Clone() CategoryIndex {
	out := make(CategoryIndex, len(c))
	for l1, byL2 := range c {
		inner := make(map[string][]string, len(byL2))
		for l2, ids := range byL2 {
			inner[l2] = append([]string(nil), ids...)
		}
		out[l1] = inner
	}
	return out
}
