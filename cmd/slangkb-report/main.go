package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/slangkb/pkg/slangkb"
	"github.com/cognicore/slangkb/pkg/slangkb/config"
	"github.com/cognicore/slangkb/pkg/slangkb/graph"
	"github.com/cognicore/slangkb/pkg/slangkb/heatmap"
	"github.com/cognicore/slangkb/pkg/slangkb/ingest"
	"github.com/cognicore/slangkb/pkg/slangkb/quiz"
	"github.com/cognicore/slangkb/pkg/slangkb/store"
)

type report struct {
	Stats   ingest.Stats      `json:"stats"`
	Charts  slangkb.ChartData `json:"charts"`
	Term    *store.Term       `json:"term,omitempty"`
	Quiz    []quiz.Item       `json:"quiz,omitempty"`
	Graph   *graph.Result     `json:"graph,omitempty"`
	Heatmap *heatmap.Result   `json:"heatmap,omitempty"`
	Legend  *heatmap.Legend   `json:"heatmapLegend,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("slangkb-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "YAML config file (optional)")
		taxonomy    = fs.String("taxonomy", "", "Taxonomy dataset (overrides config)")
		scraped     = fs.String("scraped", "", "Scraped dataset (overrides config)")
		catchAll    = fs.String("catchall", "", "Catch-all dataset (overrides config)")
		sqlitePath  = fs.String("sqlite", "", "SQLite dataset database (overrides config)")
		termID      = fs.String("term", "", "Include the term with this id")
		quizCount   = fs.Int("quiz", 0, "Number of quiz questions to generate")
		seed        = fs.Uint64("seed", 0, "Quiz random seed (0 = random)")
		graphPath   = fs.String("graph", "", "Raw co-occurrence graph JSON to sparsify")
		perf        = fs.Bool("perf", false, "Use the perf graph budget")
		heatmapPath = fs.String("heatmap", "", "Raw heatmap JSON to reduce")
		maxTerms    = fs.Int("max-terms", 0, "Heatmap category limit (0 = config)")
		timeout     = fs.Duration("timeout", 30*time.Second, "Build timeout")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("load config: %v", err)
		return 1
	}
	log.SetLevel(cfg.Level())
	applyOverrides(cfg, *taxonomy, *scraped, *catchAll, *sqlitePath)

	var rng quiz.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	engine, err := slangkb.FromConfig(ctx, cfg, log, rng)
	if err != nil {
		log.Errorf("create engine: %v", err)
		return 1
	}
	defer engine.Close()

	kb, err := engine.KnowledgeBase(ctx)
	if err != nil {
		log.Errorf("build knowledge base: %v", err)
		return 1
	}
	charts, err := engine.ChartData(ctx)
	if err != nil {
		log.Errorf("chart data: %v", err)
		return 1
	}
	out := report{Stats: kb.Stats, Charts: charts}

	if *termID != "" {
		term, err := engine.Lookup(ctx, *termID)
		if err != nil {
			log.Errorf("lookup: %v", err)
			return 1
		}
		out.Term = &term
	}

	if *quizCount > 0 {
		items, err := engine.QuizBank(ctx, *quizCount)
		if err != nil {
			log.WithError(err).Warn("skipping quiz")
		} else {
			out.Quiz = items
		}
	}

	if *graphPath != "" {
		gcfg := cfg.Graph.Normal
		if *perf {
			gcfg = cfg.Graph.Perf
		}
		nodes, links := graph.ParseRaw(readOptional(log, *graphPath))
		res := engine.SparsifyGraph(nodes, links, gcfg)
		log.WithFields(logrus.Fields{"nodes": len(res.Nodes), "links": len(res.Links)}).Info("graph sparsified")
		out.Graph = &res
	}

	if *heatmapPath != "" {
		limit := *maxTerms
		if limit <= 0 {
			limit = cfg.Heatmap.MaxTerms
		}
		cats, triples := heatmap.ParseRaw(readOptional(log, *heatmapPath))
		res := engine.ReduceHeatmap(cats, triples, limit)
		lg := res.Legend()
		out.Heatmap = &res
		out.Legend = &lg
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Errorf("marshal report: %v", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return 0
}

func applyOverrides(cfg *config.Config, taxonomy, scraped, catchAll, sqlitePath string) {
	if taxonomy != "" {
		cfg.Datasets.Taxonomy = taxonomy
	}
	if scraped != "" {
		cfg.Datasets.Scraped = scraped
	}
	if catchAll != "" {
		cfg.Datasets.CatchAll = catchAll
	}
	if sqlitePath != "" {
		cfg.Datasets.SQLite = sqlitePath
	}
}

// readOptional returns nil when the file cannot be read; the parsers turn
// that into an empty rendering.
func readOptional(log logrus.FieldLogger, path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("raw data unavailable")
		return nil
	}
	return data
}
