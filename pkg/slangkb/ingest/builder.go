package ingest

import (
	"sort"

	"github.com/cognicore/slangkb/pkg/slangkb/source"
	"github.com/cognicore/slangkb/pkg/slangkb/store"
)

// Defaults holds the category assigned when a dataset does not supply one.
type Defaults struct {
	TaxonomyL1 string         // taxonomy row without l1
	TaxonomyL2 string         // taxonomy row without l2
	Scraped    store.Category // term first seen in scraped data
	CatchAll   store.Category // term only present in the catch-all dataset
}

// DefaultCategories returns the built-in category defaults.
func DefaultCategories() Defaults {
	return Defaults{
		TaxonomyL1: "未分类",
		TaxonomyL2: store.General,
		Scraped:    store.Category{L1: "玩家社区黑话", L2: "其他"},
		CatchAll:   store.Category{L1: "未分类", L2: "未分类"},
	}
}

// Stats summarises one build.
type Stats struct {
	TaxonomyRows int `json:"taxonomyRows"`
	ScrapedRows  int `json:"scrapedRows"`
	CatchAllRows int `json:"catchAllRows"`
	SkippedRows  int `json:"skippedRows"` // rows without a usable id

	Seeded     int `json:"seeded"`     // terms created from taxonomy
	Discovered int `json:"discovered"` // terms created from scraped rows
	Merged     int `json:"merged"`     // scraped rows folded into an existing term
	Backfilled int `json:"backfilled"` // terms created from the catch-all dataset
	Terms      int `json:"terms"`
}

type origin int

const (
	fromTaxonomy origin = iota
	fromScraped
	fromCatchAll
)

type entry struct {
	term   store.Term
	origin origin
	games  map[string]struct{}
	tags   map[string]struct{}
}

// Builder merges the raw datasets into the canonical term store.
type Builder struct {
	games    *GameNormalizer
	defaults Defaults
}

// NewBuilder creates a builder. A nil normalizer uses DefaultGameRules.
func NewBuilder(games *GameNormalizer, defaults Defaults) *Builder {
	if games == nil {
		games = NewGameNormalizer(nil)
	}
	fallback := DefaultCategories()
	if defaults.TaxonomyL1 == "" {
		defaults.TaxonomyL1 = fallback.TaxonomyL1
	}
	if defaults.TaxonomyL2 == "" {
		defaults.TaxonomyL2 = fallback.TaxonomyL2
	}
	if defaults.Scraped.L1 == "" || defaults.Scraped.L2 == "" {
		defaults.Scraped = fallback.Scraped
	}
	if defaults.CatchAll.L1 == "" || defaults.CatchAll.L2 == "" {
		defaults.CatchAll = fallback.CatchAll
	}
	return &Builder{games: games, defaults: defaults}
}

// Build runs the three passes in order: seed from taxonomy, overlay scraped
// rows, backfill from the catch-all dataset. Later passes only add ids or
// extend games/tags; category and definition are fixed by the first pass
// that creates an id. Malformed rows are defaulted or skipped, never fatal.
func (b *Builder) Build(ds source.Datasets) (*store.Store, Stats) {
	stats := Stats{
		TaxonomyRows: len(ds.Taxonomy),
		ScrapedRows:  len(ds.Scraped),
		CatchAllRows: len(ds.CatchAll),
	}
	entries := make(map[string]*entry)
	var order []string

	create := func(e *entry) {
		entries[e.term.ID] = e
		order = append(order, e.term.ID)
	}

	// 1. Seed
	for _, row := range ds.Taxonomy {
		id := TermID(row.Title)
		if id == "" {
			stats.SkippedRows++
			continue
		}
		if _, ok := entries[id]; ok {
			continue
		}
		l1, l2 := row.L1, row.L2
		if TermID(l1) == "" {
			l1 = b.defaults.TaxonomyL1
		}
		if TermID(l2) == "" {
			l2 = b.defaults.TaxonomyL2
		}
		cat := store.Category{L1: DisplayTitle(l1), L2: DisplayTitle(l2)}
		e := newEntry(id, row.Title, row.Summary, cat, store.SourceEncyclopedia, fromTaxonomy)
		if l3 := DisplayTitle(row.L3); l3 != "" {
			e.term.Category.L3 = &l3
			e.addTag(l3)
		}
		e.addTags(row.Tags)
		create(e)
		stats.Seeded++
	}

	// 2. Overlay
	for _, row := range ds.Scraped {
		id := TermID(row.Term)
		if id == "" {
			stats.SkippedRows++
			continue
		}
		game := b.games.Normalize(row.Game)
		if e, ok := entries[id]; ok {
			e.games[game] = struct{}{}
			e.addTags(row.Tags)
			e.term.Mentions++
			if e.origin != fromScraped {
				e.term.Source = store.SourceMixed
			}
			stats.Merged++
			continue
		}
		e := newEntry(id, row.Term, row.Definition, b.defaults.Scraped, store.SourceScraped, fromScraped)
		e.games[game] = struct{}{}
		e.addTags(row.Tags)
		e.term.Mentions = 1
		create(e)
		stats.Discovered++
	}

	// 3. Backfill
	for _, row := range ds.CatchAll {
		id := TermID(row.Title)
		if id == "" {
			stats.SkippedRows++
			continue
		}
		if _, ok := entries[id]; ok {
			continue
		}
		create(newEntry(id, row.Title, row.Summary, b.defaults.CatchAll, store.SourceEncyclopedia, fromCatchAll))
		stats.Backfilled++
	}

	terms := make([]store.Term, 0, len(order))
	for _, id := range order {
		terms = append(terms, entries[id].finish())
	}
	stats.Terms = len(terms)
	return store.New(terms), stats
}

func newEntry(id, title, definition string, cat store.Category, src store.Source, o origin) *entry {
	display := DisplayTitle(title)
	if display == "" {
		display = id
	}
	if cat.L3 != nil {
		l3 := *cat.L3
		cat.L3 = &l3
	}
	return &entry{
		term: store.Term{
			ID:         id,
			Term:       display,
			Definition: FlattenText(definition),
			Category:   cat,
			Source:     src,
		},
		origin: o,
		games:  make(map[string]struct{}),
		tags:   make(map[string]struct{}),
	}
}

func (e *entry) addTag(tag string) {
	if tag = DisplayTitle(tag); tag != "" {
		e.tags[tag] = struct{}{}
	}
}

func (e *entry) addTags(tags []string) {
	for _, t := range tags {
		e.addTag(t)
	}
}

func (e *entry) finish() store.Term {
	t := e.term
	t.Games = sortedKeys(e.games)
	t.Tags = sortedKeys(e.tags)
	return t
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
