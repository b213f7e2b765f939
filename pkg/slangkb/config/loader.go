package config

import (
	"context"
	"fmt"

	"github.com/cognicore/slangkb/pkg/slangkb/ingest"
	"github.com/cognicore/slangkb/pkg/slangkb/source"
	"github.com/cognicore/slangkb/pkg/slangkb/source/jsonfile"
	"github.com/cognicore/slangkb/pkg/slangkb/source/sqlite"
)

// Components holds everything the engine is built from.
type Components struct {
	Source  source.Loader
	Builder *ingest.Builder

	closers []func() error
}

// Components opens the configured dataset source and constructs the
// builder. Close releases the source.
func (c *Config) Components(ctx context.Context) (*Components, error) {
	comp := &Components{
		Builder: ingest.NewBuilder(ingest.NewGameNormalizer(c.GameRules()), c.Defaults()),
	}

	if c.Datasets.SQLite != "" {
		db, err := sqlite.OpenSQLite(ctx, c.Datasets.SQLite)
		if err != nil {
			return nil, fmt.Errorf("open dataset db: %w", err)
		}
		comp.Source = db
		comp.closers = append(comp.closers, db.Close)
		return comp, nil
	}

	comp.Source = jsonfile.Loader{
		TaxonomyPath: c.Datasets.Taxonomy,
		ScrapedPath:  c.Datasets.Scraped,
		CatchAllPath: c.Datasets.CatchAll,
	}
	return comp, nil
}

// Close releases any resources opened by Components.
func (comp *Components) Close() error {
	var first error
	for _, fn := range comp.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	comp.closers = nil
	return first
}
