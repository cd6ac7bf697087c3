package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/normalize"
)

const bookPrefix = "book:"

var (
	// ErrBookNotFound is returned when a book does not exist.
	ErrBookNotFound = ErrNotFound.WithMessage("book not found")
	// ErrBookExists is returned when a book with the same ID or the same
	// title and author already exists.
	ErrBookExists = ErrAlreadyExists.WithMessage("book already exists")
)

// Book Operations

// CreateBook creates a new catalog book. A duplicate ID or a duplicate
// (title, author) pair is rejected.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := s.Books.Create(ctx, book.ID, book); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrBookExists
		}
		return fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
			slog.String("id", book.ID),
			slog.String("title", book.Title),
			slog.String("author", book.Author),
		)
	}

	// Index for search asynchronously
	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexBook(context.Background(), book); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to index book for search", "book_id", book.ID, "error", err)
				}
			}
		}()
	}

	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.Books.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// GetBookByTitleAuthor retrieves a book by its normalized title and author.
// This is the lookup history import uses to match external reading records
// to catalog books.
func (s *Store) GetBookByTitleAuthor(ctx context.Context, title, author string) (*domain.Book, error) {
	book, err := s.Books.GetByIndex(ctx, "title_author", normalize.TitleAuthorKey(title, author))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book by title/author: %w", err)
	}
	return book, nil
}

// UpdateBook updates an existing book.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	book.Touch()
	if err := s.Books.Update(ctx, book.ID, book); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrBookNotFound
		}
		if errors.Is(err, ErrAlreadyExists) {
			return ErrBookExists
		}
		return fmt.Errorf("update book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book updated", "id", book.ID, "title", book.Title)
	}

	// Reindex for search asynchronously
	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexBook(context.Background(), book); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to reindex book for search", "book_id", book.ID, "error", err)
				}
			}
		}()
	}

	return nil
}

// DeleteBook deletes a book. Idempotent.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if err := s.Books.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book deleted", "id", id)
	}

	// Remove from search index asynchronously
	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeleteBook(context.Background(), id); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to remove book from search index", "book_id", id, "error", err)
				}
			}
		}()
	}

	return nil
}

// BookExists checks if a book exists by ID.
func (s *Store) BookExists(ctx context.Context, id string) (bool, error) {
	return s.exists([]byte(bookPrefix + id))
}

// CountBooks returns the catalog size.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	return s.Books.Count(ctx)
}

// ListBooks returns one page of the catalog in key order.
func (s *Store) ListBooks(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Book], error) {
	params.Validate()

	var books []*domain.Book
	var hasMore bool

	prefix := []byte(bookPrefix)

	// Decode cursor to get starting key
	startKey, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = params.Limit + 1 // One extra to detect whether more pages exist.

		it := txn.NewIterator(opts)
		defer it.Close()

		// Start from cursor or beginning
		if startKey != "" {
			it.Seek([]byte(startKey))
			// Skip the cursor key itself (already returned last page)
			if it.Valid() && string(it.Item().Key()) == startKey {
				it.Next()
			}
		} else {
			it.Seek(prefix)
		}

		count := 0
		for ; it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())

			// Skip the entity's index keys, which share the prefix.
			if strings.HasPrefix(key[len(bookPrefix):], "idx:") {
				continue
			}

			if count == params.Limit {
				hasMore = true
				break
			}

			err := it.Item().Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return err
				}
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return err
			}

			count++
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	result := &PaginatedResult[*domain.Book]{
		Items:   books,
		HasMore: hasMore,
	}

	if hasMore && len(books) > 0 {
		result.NextCursor = EncodeCursor(bookPrefix + books[len(books)-1].ID)
	}

	return result, nil
}

// ListAllBooks returns the entire catalog (non-paginated). The ranking
// pipeline snapshots the catalog through this; for API listings use the
// paginated ListBooks instead.
func (s *Store) ListAllBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list all books: %w", err)
		}
		books = append(books, *book)
	}
	return books, nil
}
