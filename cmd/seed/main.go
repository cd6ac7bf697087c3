// Package main provides a tool to load a catalog seed file into the store
// and search index without starting the server.
//
// Usage:
//
//	go run ./cmd/seed -seed ./seed.json -data ~/FounderShelf/data
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/foundershelf/foundershelf-server/internal/catalog"
	"github.com/foundershelf/foundershelf-server/internal/search"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

func main() {
	seedPath := flag.String("seed", "", "Path to the JSON seed file (required)")
	dataDir := flag.String("data", defaultDataDir(), "Data directory")
	skipIndex := flag.Bool("skip-index", false, "Skip search indexing")
	flag.Parse()

	if *seedPath == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -seed <file> [-data <dir>] [-skip-index]")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	st, err := store.New(filepath.Join(*dataDir, "db"), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	var idx *search.SearchIndex
	if !*skipIndex {
		idx, err = search.NewSearchIndex(search.Options{
			DataPath: filepath.Join(*dataDir, "search"),
			Logger:   logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "open search index: %v\n", err)
			os.Exit(1)
		}
		defer idx.Close()
	}

	importer := catalog.NewImporter(st, idx, logger)

	result, err := importer.ImportFile(context.Background(), *seedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d records in %s (created %d, updated %d, skipped %d)\n",
		result.Total, result.Duration, result.Created, result.Updated, result.Skipped)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, "FounderShelf", "data")
}
