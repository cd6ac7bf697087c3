// dbinspect opens the database read-only and prints a summary of its
// contents. Useful for poking at a data directory without starting
// the server.
package main

import (
	"encoding/json/v2"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/foundershelf/foundershelf-server/internal/domain"
)

func main() {
	dbPath := flag.String("db", defaultDBPath(), "Path to the database directory")
	verbose := flag.Bool("v", false, "Print individual book titles")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	if err := inspectBooks(db, *verbose); err != nil {
		log.Fatalf("Failed to inspect books: %v", err)
	}

	prefixes := []struct {
		label  string
		prefix string
	}{
		{"Profiles", "profile:"},
		{"Interactions", "interactions:"},
		{"Statuses", "statuses:"},
		{"History rows", "history:"},
	}
	for _, p := range prefixes {
		n, err := countPrefix(db, p.prefix)
		if err != nil {
			log.Fatalf("Failed to count %s: %v", p.label, err)
		}
		fmt.Printf("%s: %d\n", p.label, n)
	}
}

func inspectBooks(db *badger.DB, verbose bool) error {
	count := 0
	byStage := map[string]int{}

	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("book:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Skip secondary index keys
			if strings.HasPrefix(key, "book:idx:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return fmt.Errorf("unmarshal %s: %w", key, err)
				}
				count++
				for _, stage := range book.StageTags {
					byStage[stage]++
				}
				if verbose {
					fmt.Printf("  %s by %s (%s)\n", book.Title, book.Author, book.ID)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Books: %d\n", count)
	for stage, n := range byStage {
		fmt.Printf("  stage %s: %d\n", stage, n)
	}
	fmt.Println()
	return nil
}

func countPrefix(db *badger.DB, prefix string) (int, error) {
	count := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func defaultDBPath() string {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		return filepath.Join(dir, "db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data/db"
	}
	return filepath.Join(home, "FounderShelf", "data", "db")
}
