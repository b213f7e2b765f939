package source

import (
	"context"

	"github.com/cognicore/slangkb/internal/rawjson"
)

// TaxonomyRow is one record of the encyclopedia taxonomy dataset.
type TaxonomyRow struct {
	L1      string
	L2      string
	L3      string
	Title   string
	Summary string
	Tags    []string
}

// ScrapedRow is one (term, definition, game) record from community scraping.
// A term usually appears once per game it was seen in.
type ScrapedRow struct {
	Term       string
	Definition string
	Game       string
	Tags       []string
}

// CatchAllRow is an uncategorised (title, summary) record.
type CatchAllRow struct {
	Title   string
	Summary string
}

// Datasets bundles the three raw inputs of the term store builder.
type Datasets struct {
	Taxonomy []TaxonomyRow
	Scraped  []ScrapedRow
	CatchAll []CatchAllRow

	// Skipped counts records that could not be decoded at all.
	Skipped int
}

// Loader supplies the raw datasets. It is called once per knowledge base build.
type Loader interface {
	Load(ctx context.Context) (Datasets, error)
}

// Static is a Loader over datasets already held in memory.
type Static Datasets

// Load implements Loader.
func (s Static) Load(ctx context.Context) (Datasets, error) {
	return Datasets(s), nil
}

// TaxonomyFromObject maps a loosely shaped JSON object onto a TaxonomyRow.
// Unknown fields are ignored and missing or mistyped ones become empty.
func TaxonomyFromObject(obj rawjson.Object) TaxonomyRow {
	return TaxonomyRow{
		L1:      obj.String("l1", "L1", "category_l1", "level1"),
		L2:      obj.String("l2", "L2", "category_l2", "level2"),
		L3:      obj.String("l3", "L3", "category_l3", "level3"),
		Title:   obj.String("title", "name", "term", "word"),
		Summary: obj.String("summary", "definition", "description", "desc"),
		Tags:    obj.Strings("tags", "tag"),
	}
}

// ScrapedFromObject maps a loosely shaped JSON object onto scraped rows. A
// record carrying a "games" list instead of a single "game" expands into one
// row per game.
func ScrapedFromObject(obj rawjson.Object) []ScrapedRow {
	row := ScrapedRow{
		Term:       obj.String("term", "title", "name", "word"),
		Definition: obj.String("definition", "summary", "description", "desc", "meaning"),
		Game:       obj.String("game", "source_game"),
		Tags:       obj.Strings("tags", "tag"),
	}
	if row.Game != "" {
		return []ScrapedRow{row}
	}

	games := obj.Strings("games")
	if len(games) == 0 {
		return []ScrapedRow{row}
	}
	out := make([]ScrapedRow, 0, len(games))
	for _, g := range games {
		r := row
		r.Game = g
		out = append(out, r)
	}
	return out
}

// CatchAllFromObject maps a loosely shaped JSON object onto a CatchAllRow.
func CatchAllFromObject(obj rawjson.Object) CatchAllRow {
	return CatchAllRow{
		Title:   obj.String("title", "name", "term", "word"),
		Summary: obj.String("summary", "definition", "description", "desc"),
	}
}
