package jsonfile

import (
	"context"
	"fmt"

	"github.com/cognicore/slangkb/internal/rawjson"
	"github.com/cognicore/slangkb/pkg/slangkb/source"
)

// Loader reads the three datasets from JSON files. Each file may be a JSON
// array, an object wrapping an array, or JSONL. An empty path means the
// dataset is absent.
type Loader struct {
	TaxonomyPath string
	ScrapedPath  string
	CatchAllPath string
}

// Load implements source.Loader.
func (l Loader) Load(ctx context.Context) (source.Datasets, error) {
	var ds source.Datasets

	taxonomy, skipped, err := read(ctx, l.TaxonomyPath)
	if err != nil {
		return ds, fmt.Errorf("load taxonomy: %w", err)
	}
	ds.Skipped += skipped
	for _, obj := range taxonomy {
		ds.Taxonomy = append(ds.Taxonomy, source.TaxonomyFromObject(obj))
	}

	scraped, skipped, err := read(ctx, l.ScrapedPath)
	if err != nil {
		return ds, fmt.Errorf("load scraped: %w", err)
	}
	ds.Skipped += skipped
	for _, obj := range scraped {
		ds.Scraped = append(ds.Scraped, source.ScrapedFromObject(obj)...)
	}

	catchAll, skipped, err := read(ctx, l.CatchAllPath)
	if err != nil {
		return ds, fmt.Errorf("load catch-all: %w", err)
	}
	ds.Skipped += skipped
	for _, obj := range catchAll {
		ds.CatchAll = append(ds.CatchAll, source.CatchAllFromObject(obj))
	}

	return ds, nil
}

func read(ctx context.Context, path string) ([]rawjson.Object, int, error) {
	if path == "" {
		return nil, 0, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return rawjson.ReadFile(path)
}
