package domain

import "time"

// Shelf names recognized by the history scorer. Imports may carry other
// shelf values; those rows are stored but contribute no signal.
const (
	ShelfRead       = "read"
	ShelfToRead     = "to-read"
	ShelfWantToRead = "want-to-read"
)

// HistoryEntry is one row of reading history imported from another app
// (Goodreads-style export). Matched to a catalog Book by case-insensitive
// (title, author) equality; unmatched rows are inert but kept so a later
// catalog addition can pick them up on re-rank.
type HistoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BatchID   string    `json:"batch_id"` // Import run this row arrived in
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Shelf     string    `json:"shelf,omitempty"`
	Rating    int       `json:"rating,omitempty"` // 1-5; zero means unrated
	CreatedAt time.Time `json:"created_at"`
}

// Rated reports whether the entry carries a rating.
func (h *HistoryEntry) Rated() bool {
	return h.Rating > 0
}
