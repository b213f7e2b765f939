// Package config loads the knowledge base configuration: a YAML file with
// SLANGKB_* environment overrides on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/slangkb/pkg/slangkb/graph"
	"github.com/cognicore/slangkb/pkg/slangkb/heatmap"
	"github.com/cognicore/slangkb/pkg/slangkb/ingest"
	"github.com/cognicore/slangkb/pkg/slangkb/internalerr"
	"github.com/cognicore/slangkb/pkg/slangkb/quiz"
	"github.com/cognicore/slangkb/pkg/slangkb/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SLANGKB_"

// Config is the full engine configuration.
type Config struct {
	Datasets   Datasets   `yaml:"datasets" envPrefix:"DATASET_"`
	Games      []GameRule `yaml:"games"`
	Categories Categories `yaml:"categories"`
	Quiz       Quiz       `yaml:"quiz" envPrefix:"QUIZ_"`
	Graph      Graph      `yaml:"graph" envPrefix:"GRAPH_"`
	Heatmap    Heatmap    `yaml:"heatmap" envPrefix:"HEATMAP_"`
	LogLevel   string     `yaml:"log_level" env:"LOG_LEVEL"`
}

// Datasets locates the raw inputs. When SQLite is set the JSON paths are
// ignored.
type Datasets struct {
	Taxonomy string `yaml:"taxonomy" env:"TAXONOMY"`
	Scraped  string `yaml:"scraped" env:"SCRAPED"`
	CatchAll string `yaml:"catchall" env:"CATCHALL"`
	SQLite   string `yaml:"sqlite" env:"SQLITE"`
}

// GameRule is one game alias rule.
type GameRule struct {
	Name  string   `yaml:"name"`
	Match []string `yaml:"match"`
}

// Category is an l1/l2 pair.
type Category struct {
	L1 string `yaml:"l1"`
	L2 string `yaml:"l2"`
}

// Categories holds the defaults assigned when a dataset omits a category.
type Categories struct {
	TaxonomyL1 string   `yaml:"taxonomy_l1"`
	TaxonomyL2 string   `yaml:"taxonomy_l2"`
	Scraped    Category `yaml:"scraped"`
	CatchAll   Category `yaml:"catchall"`
}

// Quiz tunes quiz generation.
type Quiz struct {
	Prompt             string `yaml:"prompt" env:"PROMPT"`
	MinDefinitionRunes int    `yaml:"min_definition_runes" env:"MIN_DEFINITION_RUNES"`
	ExcerptRunes       int    `yaml:"excerpt_runes" env:"EXCERPT_RUNES"`
	OptionCount        int    `yaml:"option_count" env:"OPTION_COUNT"`
}

// Graph holds the two rendering budgets and the result cache size.
type Graph struct {
	Normal    graph.Config `yaml:"normal"`
	Perf      graph.Config `yaml:"perf"`
	CacheSize int          `yaml:"cache_size" env:"CACHE_SIZE"`
}

// Heatmap bounds the reduced matrix.
type Heatmap struct {
	MaxTerms int `yaml:"max_terms" env:"MAX_TERMS"`
}

// Default returns a configuration with every value set.
func Default() Config {
	cats := ingest.DefaultCategories()
	q := quiz.DefaultOptions()
	games := make([]GameRule, len(ingest.DefaultGameRules))
	for i, r := range ingest.DefaultGameRules {
		games[i] = GameRule{Name: r.Name, Match: append([]string(nil), r.Match...)}
	}
	return Config{
		Games: games,
		Categories: Categories{
			TaxonomyL1: cats.TaxonomyL1,
			TaxonomyL2: cats.TaxonomyL2,
			Scraped:    Category{L1: cats.Scraped.L1, L2: cats.Scraped.L2},
			CatchAll:   Category{L1: cats.CatchAll.L1, L2: cats.CatchAll.L2},
		},
		Quiz: Quiz{
			Prompt:             q.Prompt,
			MinDefinitionRunes: q.MinDefinitionRunes,
			ExcerptRunes:       q.ExcerptRunes,
			OptionCount:        q.OptionCount,
		},
		Graph: Graph{
			Normal:    graph.DefaultConfig(),
			Perf:      graph.PerfConfig(),
			CacheSize: 64,
		},
		Heatmap:  Heatmap{MaxTerms: heatmap.DefaultMaxTerms},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over Default and applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Quiz.OptionCount < 2 {
		errs = append(errs, fmt.Errorf("quiz.option_count must be at least 2, got %d", c.Quiz.OptionCount))
	}
	if c.Graph.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("graph.cache_size must be positive, got %d", c.Graph.CacheSize))
	}
	if c.Heatmap.MaxTerms <= 0 {
		errs = append(errs, fmt.Errorf("heatmap.max_terms must be positive, got %d", c.Heatmap.MaxTerms))
	}
	for i, r := range c.Games {
		if r.Name == "" || len(r.Match) == 0 {
			errs = append(errs, fmt.Errorf("games[%d]: name and match are required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// GameRules converts the alias table for the ingest package.
func (c *Config) GameRules() []ingest.GameRule {
	rules := make([]ingest.GameRule, 0, len(c.Games))
	for _, r := range c.Games {
		rules = append(rules, ingest.GameRule{Name: r.Name, Match: r.Match})
	}
	return rules
}

// Defaults converts the category defaults for the ingest package.
func (c *Config) Defaults() ingest.Defaults {
	return ingest.Defaults{
		TaxonomyL1: c.Categories.TaxonomyL1,
		TaxonomyL2: c.Categories.TaxonomyL2,
		Scraped:    store.Category{L1: c.Categories.Scraped.L1, L2: c.Categories.Scraped.L2},
		CatchAll:   store.Category{L1: c.Categories.CatchAll.L1, L2: c.Categories.CatchAll.L2},
	}
}

// QuizOptions converts the quiz settings.
func (c *Config) QuizOptions() quiz.Options {
	return quiz.Options{
		Prompt:             c.Quiz.Prompt,
		MinDefinitionRunes: c.Quiz.MinDefinitionRunes,
		ExcerptRunes:       c.Quiz.ExcerptRunes,
		OptionCount:        c.Quiz.OptionCount,
	}
}
