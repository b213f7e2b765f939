package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/slangkb/pkg/slangkb/source/sqlite"
)

func TestRunImport(t *testing.T) {
	dir := t.TempDir()
	taxonomy := filepath.Join(dir, "taxonomy.json")
	if err := os.WriteFile(taxonomy, []byte(`[{"l1":"机制","l2":"冷却","title":"CD","summary":"冷却时间"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(dir, "slang.db")

	var stderr bytes.Buffer
	if code := run([]string{"-db", dbPath, "-taxonomy", taxonomy}, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	db, err := sqlite.OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	ds, err := db.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Taxonomy) != 1 || ds.Taxonomy[0].Title != "CD" {
		t.Errorf("unexpected taxonomy rows %+v", ds.Taxonomy)
	}
}

func TestRunImportUsage(t *testing.T) {
	var stderr bytes.Buffer
	if code := run(nil, &stderr); code != 2 {
		t.Errorf("missing -db: exit code %d, want 2", code)
	}
	if code := run([]string{"-db", filepath.Join(t.TempDir(), "x.db")}, &stderr); code != 2 {
		t.Errorf("no datasets: exit code %d, want 2", code)
	}
	if code := run([]string{"-db", filepath.Join(t.TempDir(), "x.db"), "-taxonomy", filepath.Join(t.TempDir(), "missing.json")}, &stderr); code != 1 {
		t.Errorf("unreadable dataset: exit code %d, want 1", code)
	}
}
