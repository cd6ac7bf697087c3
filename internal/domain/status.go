package domain

import "time"

// Book status values. Statuses are a lightweight UI overlay on top of
// interactions; a user can have both. Two values are hard blocks, two are
// soft positive signals, the rest are bookkeeping only.
const (
	StatusInterested     = "interested"
	StatusReading        = "reading"
	StatusFinished       = "finished"
	StatusLikedAfterRead = "liked-after-reading"
	StatusDislikedAfter  = "disliked-after-reading"
	StatusNotForMe       = "not-for-me"
)

// BookStatus is the latest lightweight (user, book) status.
type BookStatus struct {
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookStatusID generates the composite key: "userID:status:bookID".
func BookStatusID(userID, bookID string) string {
	return userID + ":status:" + bookID
}

// NewBookStatus creates a status record for a (user, book) pair.
func NewBookStatus(userID, bookID, status string) *BookStatus {
	return &BookStatus{
		UserID:    userID,
		BookID:    bookID,
		Status:    status,
		UpdatedAt: time.Now(),
	}
}
