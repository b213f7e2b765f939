package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/slangkb/pkg/slangkb/source/jsonfile"
	"github.com/cognicore/slangkb/pkg/slangkb/source/sqlite"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("slangkb-import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		dbPath   = fs.String("db", "", "SQLite database to write (required)")
		taxonomy = fs.String("taxonomy", "", "Taxonomy dataset JSON/JSONL")
		scraped  = fs.String("scraped", "", "Scraped dataset JSON/JSONL")
		catchAll = fs.String("catchall", "", "Catch-all dataset JSON/JSONL")
		verbose  = fs.Bool("v", false, "Debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *dbPath == "" {
		log.Error("--db required")
		return 2
	}
	if *taxonomy == "" && *scraped == "" && *catchAll == "" {
		log.Error("at least one of --taxonomy, --scraped, --catchall required")
		return 2
	}

	ctx := context.Background()
	loader := jsonfile.Loader{
		TaxonomyPath: *taxonomy,
		ScrapedPath:  *scraped,
		CatchAllPath: *catchAll,
	}
	ds, err := loader.Load(ctx)
	if err != nil {
		log.Errorf("load datasets: %v", err)
		return 1
	}

	db, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Errorf("open db: %v", err)
		return 1
	}
	defer db.Close()

	if err := db.ReplaceDatasets(ctx, ds); err != nil {
		log.Errorf("write datasets: %v", err)
		return 1
	}

	log.WithFields(logrus.Fields{
		"taxonomy": len(ds.Taxonomy),
		"scraped":  len(ds.Scraped),
		"catchall": len(ds.CatchAll),
		"skipped":  ds.Skipped,
	}).Infof("imported %s rows into %s",
		humanize.Comma(int64(len(ds.Taxonomy)+len(ds.Scraped)+len(ds.CatchAll))), *dbPath)
	return 0
}
