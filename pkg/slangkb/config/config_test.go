package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/slangkb/pkg/slangkb/internalerr"
	"github.com/cognicore/slangkb/pkg/slangkb/source/jsonfile"
	"github.com/cognicore/slangkb/pkg/slangkb/source/sqlite"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Quiz.OptionCount != 4 {
		t.Errorf("expected default option count 4, got %d", cfg.Quiz.OptionCount)
	}
	if len(cfg.Games) == 0 {
		t.Error("expected default game rules")
	}
	if cfg.Graph.Normal.MaxNodes == 0 || !cfg.Graph.Perf.PerfMode {
		t.Errorf("unexpected graph defaults %+v", cfg.Graph)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "slangkb.yaml", `
datasets:
  taxonomy: data/taxonomy.json
  scraped: data/scraped.jsonl
games:
  - name: Genshin
    match: [genshin, "原神"]
quiz:
  prompt: "哪个词的意思是："
graph:
  normal:
    weight_threshold: 3
    max_nodes: 50
    max_edges: 80
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Datasets.Taxonomy != "data/taxonomy.json" || cfg.Datasets.CatchAll != "" {
		t.Errorf("unexpected datasets %+v", cfg.Datasets)
	}
	if len(cfg.Games) != 1 || cfg.Games[0].Name != "Genshin" {
		t.Errorf("expected game rules replaced, got %+v", cfg.Games)
	}
	if cfg.Quiz.Prompt != "哪个词的意思是：" || cfg.Quiz.ExcerptRunes != 50 {
		t.Errorf("unexpected quiz %+v", cfg.Quiz)
	}
	if cfg.Graph.Normal.MaxNodes != 50 || cfg.Graph.Normal.WeightThreshold != 3 {
		t.Errorf("unexpected graph %+v", cfg.Graph.Normal)
	}
	if cfg.Graph.Perf.MaxNodes == 0 {
		t.Error("perf budget should keep its default")
	}
	if cfg.Level().String() != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Level())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "slangkb.yaml", "heatmap:\n  max_terms: 10\n")
	t.Setenv("SLANGKB_HEATMAP_MAX_TERMS", "25")
	t.Setenv("SLANGKB_DATASET_SQLITE", "/tmp/slang.db")
	t.Setenv("SLANGKB_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Heatmap.MaxTerms != 25 {
		t.Errorf("env should override file, got %d", cfg.Heatmap.MaxTerms)
	}
	if cfg.Datasets.SQLite != "/tmp/slang.db" {
		t.Errorf("unexpected sqlite path %q", cfg.Datasets.SQLite)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("unexpected log level %q", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/slangkb.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "quiz: [unterminated")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"option count", func(c *Config) { c.Quiz.OptionCount = 1 }},
		{"cache size", func(c *Config) { c.Graph.CacheSize = 0 }},
		{"max terms", func(c *Config) { c.Heatmap.MaxTerms = -1 }},
		{"game rule", func(c *Config) { c.Games = append(c.Games, GameRule{Name: "x"}) }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Categories.Scraped = Category{L1: "Slang", L2: "Other"}

	if d := cfg.Defaults(); d.Scraped.L1 != "Slang" || d.CatchAll.L1 == "" {
		t.Errorf("unexpected defaults %+v", d)
	}
	if rules := cfg.GameRules(); len(rules) != len(cfg.Games) {
		t.Errorf("expected %d rules, got %d", len(cfg.Games), len(rules))
	}
	if q := cfg.QuizOptions(); q.OptionCount != 4 || q.Prompt == "" {
		t.Errorf("unexpected quiz options %+v", q)
	}
}

func TestComponentsJSON(t *testing.T) {
	cfg := Default()
	cfg.Datasets.Taxonomy = "taxonomy.json"

	comp, err := cfg.Components(context.Background())
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	defer comp.Close()

	loader, ok := comp.Source.(jsonfile.Loader)
	if !ok {
		t.Fatalf("expected JSON loader, got %T", comp.Source)
	}
	if loader.TaxonomyPath != "taxonomy.json" {
		t.Errorf("unexpected taxonomy path %q", loader.TaxonomyPath)
	}
	if comp.Builder == nil {
		t.Error("expected builder")
	}
}

func TestComponentsSQLite(t *testing.T) {
	cfg := Default()
	cfg.Datasets.SQLite = filepath.Join(t.TempDir(), "slang.db")
	cfg.Datasets.Taxonomy = "ignored.json"

	comp, err := cfg.Components(context.Background())
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	if _, ok := comp.Source.(*sqlite.Store); !ok {
		t.Fatalf("expected sqlite store, got %T", comp.Source)
	}
	ds, err := comp.Source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Taxonomy) != 0 {
		t.Errorf("fresh database should be empty, got %d rows", len(ds.Taxonomy))
	}
	if err := comp.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
