package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/slangkb/pkg/slangkb/source"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "datasets.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	ds := source.Datasets{
		Taxonomy: []source.TaxonomyRow{
			{L1: "机制", L2: "冷却", Title: "CD", Summary: "冷却时间", Tags: []string{"常用"}},
			{L1: "职业", L2: "坦克", L3: "主坦", Title: "MT", Summary: "主坦克"},
		},
		Scraped: []source.ScrapedRow{
			{Term: "CD", Definition: "cooldown", Game: "lol"},
			{Term: "YYDS", Definition: "永远的神"},
		},
		CatchAll: []source.CatchAllRow{
			{Title: "AFK", Summary: "away from keyboard"},
		},
	}

	if err := st.ReplaceDatasets(ctx, ds); err != nil {
		t.Fatalf("ReplaceDatasets: %v", err)
	}

	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got.Taxonomy) != 2 {
		t.Fatalf("expected 2 taxonomy rows, got %d", len(got.Taxonomy))
	}
	if got.Taxonomy[0].Title != "CD" || got.Taxonomy[1].Title != "MT" {
		t.Errorf("rows out of order: %+v", got.Taxonomy)
	}
	if got.Taxonomy[0].L3 != "" {
		t.Errorf("expected empty l3, got %q", got.Taxonomy[0].L3)
	}
	if got.Taxonomy[1].L3 != "主坦" {
		t.Errorf("expected l3 主坦, got %q", got.Taxonomy[1].L3)
	}
	if len(got.Taxonomy[0].Tags) != 1 || got.Taxonomy[0].Tags[0] != "常用" {
		t.Errorf("tags not round-tripped: %v", got.Taxonomy[0].Tags)
	}
	if len(got.Scraped) != 2 || got.Scraped[1].Game != "" {
		t.Errorf("unexpected scraped rows %+v", got.Scraped)
	}
	if len(got.CatchAll) != 1 || got.CatchAll[0].Title != "AFK" {
		t.Errorf("unexpected catch-all rows %+v", got.CatchAll)
	}
}

func TestSQLiteReplaceClearsOld(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "datasets.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	first := source.Datasets{CatchAll: []source.CatchAllRow{{Title: "old"}}}
	second := source.Datasets{CatchAll: []source.CatchAllRow{{Title: "new"}}}
	if err := st.ReplaceDatasets(ctx, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := st.ReplaceDatasets(ctx, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.CatchAll) != 1 || got.CatchAll[0].Title != "new" {
		t.Errorf("expected only new row, got %+v", got.CatchAll)
	}
}

func TestSQLiteEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty db: %v", err)
	}
	if len(got.Taxonomy)+len(got.Scraped)+len(got.CatchAll) != 0 {
		t.Errorf("expected no rows, got %+v", got)
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "datasets.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.ReplaceDatasets(ctx, source.Datasets{Scraped: []source.ScrapedRow{{Term: "GG", Game: "dota"}}}); err != nil {
		t.Fatalf("ReplaceDatasets: %v", err)
	}
	st.Close()

	reopened, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Scraped) != 1 || got.Scraped[0].Game != "dota" {
		t.Errorf("unexpected rows after reopen %+v", got.Scraped)
	}
}
