package quiz

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
	"sync"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/slangkb/pkg/slangkb/internalerr"
	"github.com/cognicore/slangkb/pkg/slangkb/store"
)

// Rand is the random source used for target selection, distractor sampling
// and option shuffling. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                    { return mrand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { mrand.Shuffle(n, swap) }

// Options tune question generation.
type Options struct {
	Prompt             string // prefix of every question
	MinDefinitionRunes int    // definitions must be strictly longer than this
	ExcerptRunes       int    // definition runes quoted in the question
	OptionCount        int    // answer plus distractors
}

// DefaultOptions returns the standard quiz shape.
func DefaultOptions() Options {
	return Options{
		Prompt:             "Which term matches: ",
		MinDefinitionRunes: 10,
		ExcerptRunes:       50,
		OptionCount:        4,
	}
}

// Item is one multiple-choice question.
type Item struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer"`
	RelatedTermID string   `json:"relatedTermId"`
}

// Generator builds quiz banks from the term store.
type Generator struct {
	mu      sync.Mutex
	rng     Rand
	entropy *ulid.MonotonicEntropy
	opts    Options
}

// New creates a generator. A nil rng uses the math/rand/v2 global source;
// zero-valued options fall back to DefaultOptions.
func New(rng Rand, opts Options) *Generator {
	if rng == nil {
		rng = globalRand{}
	}
	def := DefaultOptions()
	if opts.Prompt == "" {
		opts.Prompt = def.Prompt
	}
	if opts.MinDefinitionRunes <= 0 {
		opts.MinDefinitionRunes = def.MinDefinitionRunes
	}
	if opts.ExcerptRunes <= 0 {
		opts.ExcerptRunes = def.ExcerptRunes
	}
	if opts.OptionCount <= 1 {
		opts.OptionCount = def.OptionCount
	}
	return &Generator{
		rng:     rng,
		entropy: ulid.Monotonic(rand.Reader, 0),
		opts:    opts,
	}
}

// Eligible returns the terms whose definition is long enough to quiz on.
func (g *Generator) Eligible(terms []store.Term) []store.Term {
	var out []store.Term
	for _, t := range terms {
		if utf8.RuneCountInString(t.Definition) > g.opts.MinDefinitionRunes {
			out = append(out, t)
		}
	}
	return out
}

// Generate produces count questions. Targets are drawn with replacement.
// It fails with internalerr.ErrInsufficientPool when the eligible terms hold
// fewer distinct term strings than OptionCount, since distractor sampling
// could never fill the option set.
func (g *Generator) Generate(terms []store.Term, count int) ([]Item, error) {
	if count <= 0 {
		return []Item{}, nil
	}

	pool := g.Eligible(terms)
	if distinct := distinctTerms(pool); distinct < g.opts.OptionCount {
		return nil, fmt.Errorf("%w: %d eligible, need %d", internalerr.ErrInsufficientPool, distinct, g.opts.OptionCount)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		target := pool[g.rng.IntN(len(pool))]

		options := []string{target.Term}
		seen := map[string]struct{}{target.Term: {}}
		for len(options) < g.opts.OptionCount {
			candidate := pool[g.rng.IntN(len(pool))].Term
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			options = append(options, candidate)
		}
		g.rng.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})

		items = append(items, Item{
			ID:            ulid.MustNew(ulid.Now(), g.entropy).String(),
			Question:      g.opts.Prompt + excerpt(target.Definition, g.opts.ExcerptRunes) + "…",
			Options:       options,
			Answer:        target.Term,
			RelatedTermID: target.ID,
		})
	}
	return items, nil
}

func distinctTerms(terms []store.Term) int {
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		seen[t.Term] = struct{}{}
	}
	return len(seen)
}

func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
