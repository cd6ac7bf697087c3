package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/foundershelf/foundershelf-server/internal/domain"
)

const historyPrefix = "history:"

// AppendHistory writes a batch of imported reading-history rows for a user.
// Rows are append-only; re-imports add a new batch rather than replacing
// old rows. Uses a WriteBatch since imports commonly carry hundreds of rows.
func (s *Store) AppendHistory(ctx context.Context, entries []domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range entries {
		e := &entries[i]
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}

		key := []byte(historyPrefix + e.UserID + ":" + e.ID)
		if err := wb.Set(key, data); err != nil {
			return fmt.Errorf("batch set history entry: %w", err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush history batch: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "history batch written",
			slog.String("user_id", entries[0].UserID),
			slog.String("batch_id", entries[0].BatchID),
			slog.Int("entries", len(entries)),
		)
	}
	return nil
}

// ListHistory retrieves all imported reading-history rows for a user.
func (s *Store) ListHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := historyPrefix + userID + ":"
	var results []domain.HistoryEntry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var e domain.HistoryEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return err
			}
			results = append(results, e)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteHistory removes all of a user's imported history rows. Used when a
// user wants a clean re-import.
func (s *Store) DeleteHistory(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := []byte(historyPrefix + userID + ":")

	// Collect keys first; badger forbids writes during iteration.
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect history keys: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("batch delete history entry: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush history delete: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("history cleared", "user_id", userID, "entries", len(keys))
	}
	return nil
}
