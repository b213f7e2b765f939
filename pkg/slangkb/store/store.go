package store

import "sort"

// General is the game name used for terms that are not tied to any game.
const General = "General"

// Source records which datasets contributed to a term.
type Source string

const (
	SourceEncyclopedia Source = "encyclopedia"
	SourceScraped      Source = "scraped"
	SourceMixed        Source = "mixed"
)

// Category is a taxonomy path. L3 is nil when no third level exists.
type Category struct {
	L1 string  `json:"l1"`
	L2 string  `json:"l2"`
	L3 *string `json:"l3"`
}

// Term is a canonical slang entry merged from one or more datasets.
type Term struct {
	ID         string   `json:"id"`
	Term       string   `json:"term"`
	Definition string   `json:"definition"`
	Category   Category `json:"category"`
	Games      []string `json:"games"`  // sorted, unique
	Source     Source   `json:"source"`
	Tags       []string `json:"tags"`     // sorted, unique
	Mentions   int      `json:"mentions"` // scraped rows that referenced the term
}

// HasGame reports whether the term is associated with game.
func (t Term) HasGame(game string) bool {
	i := sort.SearchStrings(t.Games, game)
	return i < len(t.Games) && t.Games[i] == game
}

// Store is an immutable, ordered collection of terms keyed by id.
// Order is the order in which ids were first created during ingestion.
type Store struct {
	order []string
	terms map[string]Term
}

// New creates a store from terms. When an id repeats, the first term wins.
func New(terms []Term) *Store {
	s := &Store{
		order: make([]string, 0, len(terms)),
		terms: make(map[string]Term, len(terms)),
	}
	for _, t := range terms {
		if t.ID == "" {
			continue
		}
		if _, ok := s.terms[t.ID]; ok {
			continue
		}
		s.order = append(s.order, t.ID)
		s.terms[t.ID] = copyTerm(t)
	}
	return s
}

// Get returns the term with the given id.
func (s *Store) Get(id string) (Term, bool) {
	t, ok := s.terms[id]
	if !ok {
		return Term{}, false
	}
	return copyTerm(t), true
}

// All returns every term in store order.
func (s *Store) All() []Term {
	out := make([]Term, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyTerm(s.terms[id]))
	}
	return out
}

// IDs returns the term ids in store order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of terms.
func (s *Store) Len() int { return len(s.order) }

func copyTerm(t Term) Term {
	copySlice := func(in []string) []string {
		out := make([]string, len(in))
		copy(out, in)
		return out
	}

	out := t
	out.Games = copySlice(t.Games)
	out.Tags = copySlice(t.Tags)
	if t.Category.L3 != nil {
		l3 := *t.Category.L3
		out.Category.L3 = &l3
	}
	return out
}
