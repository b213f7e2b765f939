package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "modernc.org/sqlite"

	"github.com/cognicore/slangkb/pkg/slangkb/source"
)

// Store holds the raw datasets in a SQLite file. It implements source.Loader
// and is also the write target of the import tool.
type Store struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// dataset tables if they don't exist.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS taxonomy_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	l1 TEXT,
	l2 TEXT,
	l3 TEXT,
	title TEXT,
	summary TEXT,
	tags TEXT
);

CREATE TABLE IF NOT EXISTS scraped_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	term TEXT,
	definition TEXT,
	game TEXT,
	tags TEXT
);

CREATE TABLE IF NOT EXISTS catchall_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT,
	summary TEXT
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Load implements source.Loader. Rows come back in insertion order; NULL
// columns read as empty strings.
func (s *Store) Load(ctx context.Context) (source.Datasets, error) {
	var ds source.Datasets

	rows, err := s.db.QueryContext(ctx, `SELECT l1, l2, l3, title, summary, tags FROM taxonomy_rows ORDER BY id`)
	if err != nil {
		return ds, err
	}
	for rows.Next() {
		var l1, l2, l3, title, summary, tags sql.NullString
		if err := rows.Scan(&l1, &l2, &l3, &title, &summary, &tags); err != nil {
			rows.Close()
			return ds, err
		}
		ds.Taxonomy = append(ds.Taxonomy, source.TaxonomyRow{
			L1:      l1.String,
			L2:      l2.String,
			L3:      l3.String,
			Title:   title.String,
			Summary: summary.String,
			Tags:    decodeTags(tags.String),
		})
	}
	if err := closeRows(rows); err != nil {
		return ds, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT term, definition, game, tags FROM scraped_rows ORDER BY id`)
	if err != nil {
		return ds, err
	}
	for rows.Next() {
		var term, definition, game, tags sql.NullString
		if err := rows.Scan(&term, &definition, &game, &tags); err != nil {
			rows.Close()
			return ds, err
		}
		ds.Scraped = append(ds.Scraped, source.ScrapedRow{
			Term:       term.String,
			Definition: definition.String,
			Game:       game.String,
			Tags:       decodeTags(tags.String),
		})
	}
	if err := closeRows(rows); err != nil {
		return ds, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT title, summary FROM catchall_rows ORDER BY id`)
	if err != nil {
		return ds, err
	}
	for rows.Next() {
		var title, summary sql.NullString
		if err := rows.Scan(&title, &summary); err != nil {
			rows.Close()
			return ds, err
		}
		ds.CatchAll = append(ds.CatchAll, source.CatchAllRow{
			Title:   title.String,
			Summary: summary.String,
		})
	}
	if err := closeRows(rows); err != nil {
		return ds, err
	}

	return ds, nil
}

// ReplaceDatasets overwrites every dataset table with ds in one transaction.
func (s *Store) ReplaceDatasets(ctx context.Context, ds source.Datasets) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"taxonomy_rows", "scraped_rows", "catchall_rows"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	if err := insertTaxonomy(ctx, tx, ds.Taxonomy); err != nil {
		return err
	}
	if err := insertScraped(ctx, tx, ds.Scraped); err != nil {
		return err
	}
	if err := insertCatchAll(ctx, tx, ds.CatchAll); err != nil {
		return err
	}

	return tx.Commit()
}

func insertTaxonomy(ctx context.Context, tx *sql.Tx, rows []source.TaxonomyRow) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO taxonomy_rows (l1, l2, l3, title, summary, tags) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.L1, r.L2, nullable(r.L3), r.Title, r.Summary, encodeTags(r.Tags)); err != nil {
			return err
		}
	}
	return nil
}

func insertScraped(ctx context.Context, tx *sql.Tx, rows []source.ScrapedRow) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scraped_rows (term, definition, game, tags) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Term, r.Definition, nullable(r.Game), encodeTags(r.Tags)); err != nil {
			return err
		}
	}
	return nil
}

func insertCatchAll(ctx context.Context, tx *sql.Tx, rows []source.CatchAllRow) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO catchall_rows (title, summary) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Title, r.Summary); err != nil {
			return err
		}
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func encodeTags(tags []string) interface{} {
	if len(tags) == 0 {
		return nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return string(data)
}

func decodeTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}
