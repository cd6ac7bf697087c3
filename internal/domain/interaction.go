package domain

import "time"

// InteractionState is a user's direct reaction to a book.
// The four states are mutually exclusive; at most one interaction exists per
// (user, book) pair and the latest write wins.
type InteractionState string

const (
	// InteractionLiked means the user read the book and rated it positively.
	InteractionLiked InteractionState = "liked"
	// InteractionDisliked means the user read the book and rated it negatively.
	InteractionDisliked InteractionState = "disliked"
	// InteractionInterested means the user wants to read the book.
	InteractionInterested InteractionState = "interested"
	// InteractionNotInterested permanently removes the book from the user's
	// recommendations. Hard block: the book is never scored again.
	InteractionNotInterested InteractionState = "not-interested"
)

// Valid returns true if the state is a recognized value.
func (s InteractionState) Valid() bool {
	switch s {
	case InteractionLiked, InteractionDisliked, InteractionInterested, InteractionNotInterested:
		return true
	default:
		return false
	}
}

// Interaction records a user's reaction to a book.
type Interaction struct {
	UserID    string           `json:"user_id"`
	BookID    string           `json:"book_id"`
	State     InteractionState `json:"state"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// InteractionID generates the composite key: "userID:interaction:bookID".
func InteractionID(userID, bookID string) string {
	return userID + ":interaction:" + bookID
}

// Touch updates the UpdatedAt timestamp. Called on state changes so
// last-write-wins is visible in the record.
func (i *Interaction) Touch() {
	i.UpdatedAt = time.Now()
}

// NewInteraction creates an interaction for a (user, book) pair.
func NewInteraction(userID, bookID string, state InteractionState) *Interaction {
	now := time.Now()
	return &Interaction{
		UserID:    userID,
		BookID:    bookID,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
