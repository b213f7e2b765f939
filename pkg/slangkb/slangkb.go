// Package slangkb is the slang term knowledge base engine. It reconciles
// the raw term datasets into one store, indexes it, and serves the
// analytical views, quiz banks and bounded graph/heatmap renderings read by
// the UI.
package slangkb

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/slangkb/pkg/slangkb/analytics"
	"github.com/cognicore/slangkb/pkg/slangkb/graph"
	"github.com/cognicore/slangkb/pkg/slangkb/heatmap"
	"github.com/cognicore/slangkb/pkg/slangkb/index"
	"github.com/cognicore/slangkb/pkg/slangkb/ingest"
	"github.com/cognicore/slangkb/pkg/slangkb/internalerr"
	"github.com/cognicore/slangkb/pkg/slangkb/quiz"
	"github.com/cognicore/slangkb/pkg/slangkb/source"
	"github.com/cognicore/slangkb/pkg/slangkb/store"
)

const defaultGraphCacheSize = 64

// Options configures an Engine.
type Options struct {
	Loader  source.Loader
	Builder *ingest.Builder // nil uses default game rules and categories

	Rand quiz.Rand // nil uses the math/rand/v2 global source
	Quiz quiz.Options

	Logger logrus.FieldLogger // nil discards

	GraphCacheSize int
	TopGames       int
	WordCloudSize  int

	// Closer is released by Engine.Close, e.g. the dataset database.
	Closer io.Closer
}

// KnowledgeBase is the immutable result of one build.
type KnowledgeBase struct {
	Store   *store.Store
	Indices index.Indices
	Stats   ingest.Stats
}

// ChartData bundles the analytical views.
type ChartData struct {
	CategoryTree []analytics.CategoryNode   `json:"categoryTree"`
	TopGames     analytics.GameDistribution `json:"topGames"`
	WordCloud    []analytics.WordWeight     `json:"wordCloud"`
}

type buildFuture struct {
	done chan struct{}
	kb   *KnowledgeBase
	err  error
}

// Engine serves read-only queries over a lazily built knowledge base.
type Engine struct {
	loader  source.Loader
	builder *ingest.Builder
	quiz    *quiz.Generator
	log     logrus.FieldLogger
	graphs  *graph.Cache
	closer  io.Closer

	topGames  int
	cloudSize int

	mu      sync.Mutex
	pending *buildFuture
}

// New creates an engine. Nothing is loaded until the first query.
func New(opts Options) (*Engine, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("%w: nil dataset loader", internalerr.ErrInvalidInput)
	}
	if opts.Builder == nil {
		opts.Builder = ingest.NewBuilder(nil, ingest.DefaultCategories())
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.GraphCacheSize <= 0 {
		opts.GraphCacheSize = defaultGraphCacheSize
	}
	if opts.TopGames <= 0 {
		opts.TopGames = analytics.DefaultTopGames
	}
	if opts.WordCloudSize <= 0 {
		opts.WordCloudSize = analytics.DefaultWordCloudSize
	}

	graphs, err := graph.NewCache(opts.GraphCacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		loader:    opts.Loader,
		builder:   opts.Builder,
		quiz:      quiz.New(opts.Rand, opts.Quiz),
		log:       opts.Logger,
		graphs:    graphs,
		closer:    opts.Closer,
		topGames:  opts.TopGames,
		cloudSize: opts.WordCloudSize,
	}, nil
}

// Close releases the configured Closer.
func (e *Engine) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// KnowledgeBase returns the built knowledge base, starting the build on
// first use. Concurrent callers share one in-flight build; ctx only bounds
// how long this caller waits. A failed build is not kept, so the next call
// retries.
func (e *Engine) KnowledgeBase(ctx context.Context) (*KnowledgeBase, error) {
	e.mu.Lock()
	f := e.pending
	if f == nil {
		f = &buildFuture{done: make(chan struct{})}
		e.pending = f
		go e.build(context.WithoutCancel(ctx), f)
	}
	e.mu.Unlock()

	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if f.err != nil {
		e.mu.Lock()
		if e.pending == f {
			e.pending = nil
		}
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, f.err)
	}
	return f.kb, nil
}

func (e *Engine) build(ctx context.Context, f *buildFuture) {
	defer close(f.done)
	start := time.Now()

	ds, err := e.loader.Load(ctx)
	if err != nil {
		e.log.WithError(err).Error("load datasets")
		f.err = fmt.Errorf("load datasets: %w", err)
		return
	}

	st, stats := e.builder.Build(ds)
	f.kb = &KnowledgeBase{
		Store:   st,
		Indices: index.Build(st),
		Stats:   stats,
	}

	if ds.Skipped > 0 || stats.SkippedRows > 0 {
		e.log.WithFields(logrus.Fields{
			"undecodable": ds.Skipped,
			"no_id":       stats.SkippedRows,
		}).Warn("skipped malformed dataset rows")
	}
	e.log.WithFields(logrus.Fields{
		"seeded":     stats.Seeded,
		"discovered": stats.Discovered,
		"merged":     stats.Merged,
		"backfilled": stats.Backfilled,
		"games":      len(f.kb.Indices.Games),
	}).Infof("knowledge base built: %s terms in %s",
		humanize.Comma(int64(stats.Terms)), time.Since(start).Round(time.Millisecond))
}

// Term returns the term with the given id.
func (e *Engine) Term(ctx context.Context, id string) (store.Term, bool, error) {
	kb, err := e.KnowledgeBase(ctx)
	if err != nil {
		return store.Term{}, false, err
	}
	t, ok := kb.Store.Get(id)
	return t, ok, nil
}

// Lookup is Term for callers that want a missing id reported as
// internalerr.ErrNotFound.
func (e *Engine) Lookup(ctx context.Context, id string) (store.Term, error) {
	t, ok, err := e.Term(ctx, id)
	if err != nil {
		return store.Term{}, err
	}
	if !ok {
		return store.Term{}, fmt.Errorf("term %q: %w", id, internalerr.ErrNotFound)
	}
	return t, nil
}

// Terms returns every term in build order.
func (e *Engine) Terms(ctx context.Context) ([]store.Term, error) {
	kb, err := e.KnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}
	return kb.Store.All(), nil
}

// GameIndex returns a copy of the game -> term ids index.
func (e *Engine) GameIndex(ctx context.Context) (index.GameIndex, error) {
	kb, err := e.KnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}
	return kb.Indices.Games.Clone(), nil
}

// CategoryIndex returns a copy of the l1 -> l2 -> term ids index.
func (e *Engine) CategoryIndex(ctx context.Context) (index.CategoryIndex, error) {
	kb, err := e.KnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}
	return kb.Indices.Categories.Clone(), nil
}

// ChartData derives the category tree, game distribution and word cloud.
func (e *Engine) ChartData(ctx context.Context) (ChartData, error) {
	kb, err := e.KnowledgeBase(ctx)
	if err != nil {
		return ChartData{}, err
	}
	return ChartData{
		CategoryTree: analytics.CategoryTree(kb.Indices.Categories),
		TopGames:     analytics.TopGames(kb.Indices.Games, e.topGames),
		WordCloud:    analytics.WordCloud(kb.Store.All(), e.cloudSize),
	}, nil
}

// QuizBank generates count multiple-choice questions. It fails with
// internalerr.ErrInsufficientPool when the store cannot supply enough
// distinct options.
func (e *Engine) QuizBank(ctx context.Context, count int) ([]quiz.Item, error) {
	kb, err := e.KnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}
	items, err := e.quiz.Generate(kb.Store.All(), count)
	if err != nil {
		e.log.WithError(err).WithField("count", count).Warn("quiz bank")
		return nil, err
	}
	return items, nil
}

// SparsifyGraph prunes a raw co-occurrence graph, memoizing results by
// content and cfg.
func (e *Engine) SparsifyGraph(nodes []graph.RawNode, links []graph.RawLink, cfg graph.Config) graph.Result {
	if len(nodes) == 0 && len(links) == 0 {
		return graph.Sparsify(nil, nil, cfg)
	}
	return e.graphs.Sparsify(graph.Fingerprint(nodes, links), nodes, links, cfg)
}

// ReduceHeatmap bounds a category matrix to maxTerms categories. A
// non-positive maxTerms keeps none of them once the matrix exceeds it.
func (e *Engine) ReduceHeatmap(categories []string, triples []heatmap.Triple, maxTerms int) heatmap.Result {
	return heatmap.Reduce(categories, triples, maxTerms)
}
