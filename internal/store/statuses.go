package store

import (
	"context"
	"encoding/json/v2"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/foundershelf/foundershelf-server/internal/domain"
)

const statusPrefix = "statuses:"

// ErrBookStatusNotFound is returned when a book status is not found.
var ErrBookStatusNotFound = ErrNotFound.WithMessage("book status not found")

// GetBookStatus retrieves a user's status for a book.
func (s *Store) GetBookStatus(ctx context.Context, userID, bookID string) (*domain.BookStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var st domain.BookStatus
	err := s.get([]byte(statusPrefix+domain.BookStatusID(userID, bookID)), &st)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBookStatusNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// UpsertBookStatus creates or replaces a user's status for a book.
// A book holds at most one status per user; setting a new one replaces it.
func (s *Store) UpsertBookStatus(ctx context.Context, st *domain.BookStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set([]byte(statusPrefix+domain.BookStatusID(st.UserID, st.BookID)), st)
}

// DeleteBookStatus removes a user's status for a book. Idempotent.
func (s *Store) DeleteBookStatus(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(statusPrefix + domain.BookStatusID(userID, bookID)))
}

// ListBookStatuses retrieves all of a user's book statuses.
func (s *Store) ListBookStatuses(ctx context.Context, userID string) ([]domain.BookStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := statusPrefix + userID + ":status:"
	var results []domain.BookStatus

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var st domain.BookStatus
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &st)
			})
			if err != nil {
				return err
			}
			results = append(results, st)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}
