package store

import (
	"context"
	"encoding/json/v2"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/foundershelf/foundershelf-server/internal/domain"
)

const interactionPrefix = "interactions:"

// ErrInteractionNotFound is returned when an interaction is not found.
var ErrInteractionNotFound = ErrNotFound.WithMessage("interaction not found")

// GetInteraction retrieves a user's interaction with a book.
func (s *Store) GetInteraction(ctx context.Context, userID, bookID string) (*domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var in domain.Interaction
	err := s.get([]byte(interactionPrefix+domain.InteractionID(userID, bookID)), &in)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrInteractionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// UpsertInteraction creates or replaces a user's interaction with a book.
// At most one interaction exists per (user, book); the latest write wins.
func (s *Store) UpsertInteraction(ctx context.Context, in *domain.Interaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set([]byte(interactionPrefix+domain.InteractionID(in.UserID, in.BookID)), in)
}

// DeleteInteraction removes a user's interaction with a book. Idempotent;
// clearing an interaction also lifts a not-interested block.
func (s *Store) DeleteInteraction(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(interactionPrefix + domain.InteractionID(userID, bookID)))
}

// ListInteractions retrieves all of a user's interactions.
func (s *Store) ListInteractions(ctx context.Context, userID string) ([]domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Prefix: interactions:userID:interaction: (matching InteractionID format)
	prefix := interactionPrefix + userID + ":interaction:"
	var results []domain.Interaction

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var in domain.Interaction
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &in)
			})
			if err != nil {
				return err
			}
			results = append(results, in)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}
