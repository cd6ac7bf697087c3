package recommend

import (
	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/normalize"
)

// BlockReason says why a book is unconditionally excluded from results.
type BlockReason string

const (
	// BlockNotInterested comes from a not-interested interaction.
	BlockNotInterested BlockReason = "not-interested"
	// BlockNotForMe comes from a not-for-me status.
	BlockNotForMe BlockReason = "not-for-me"
	// BlockDislikedStatus comes from a disliked-after-reading status.
	BlockDislikedStatus BlockReason = "disliked-after-reading"
)

// StatusEffect is the closed set of outcomes a status string can have on
// scoring: a hard block, a score adjustment, or nothing (nil). Each status
// is resolved exactly once per candidate, before any scoring happens.
type StatusEffect interface {
	isStatusEffect()
}

// HardBlock removes the book from the candidate pool entirely.
type HardBlock struct {
	Reason BlockReason
}

// Adjustment nudges the book's signal score.
type Adjustment struct {
	Delta float64
}

func (HardBlock) isStatusEffect()  {}
func (Adjustment) isStatusEffect() {}

// SignalResult is the output of the signal pass: additive per-book scores
// and the hard-block set. Blocked books never appear in Scores.
type SignalResult struct {
	Scores  map[string]float64
	Blocked map[string]BlockReason
}

// IsBlocked reports whether a book is hard-blocked.
func (r SignalResult) IsBlocked(bookID string) bool {
	_, ok := r.Blocked[bookID]
	return ok
}

// SignalScorer turns direct interactions, imported history, and statuses
// into per-book additive scores. Accumulation is commutative: input order
// never changes the result.
type SignalScorer struct {
	weights WeightTable
}

// NewSignalScorer creates a scorer with the given weight table.
func NewSignalScorer(w WeightTable) *SignalScorer {
	return &SignalScorer{weights: w}
}

// StatusEffect resolves a status string to its scoring outcome. Returns nil
// for statuses that are bookkeeping only.
func (s *SignalScorer) StatusEffect(status string) StatusEffect {
	switch status {
	case domain.StatusNotForMe:
		return HardBlock{Reason: BlockNotForMe}
	case domain.StatusDislikedAfter:
		return HardBlock{Reason: BlockDislikedStatus}
	case domain.StatusInterested:
		return Adjustment{Delta: s.weights.StatusInterestedNudge}
	case domain.StatusLikedAfterRead:
		return Adjustment{Delta: s.weights.StatusLikedNudge}
	default:
		return nil
	}
}

// Score runs the signal pass over a snapshot. The hard-block set is computed
// first, from interactions and statuses together, so no blocked book ever
// accumulates a score.
func (s *SignalScorer) Score(snap *Snapshot) SignalResult {
	res := SignalResult{
		Scores:  make(map[string]float64),
		Blocked: make(map[string]BlockReason),
	}

	// Resolve every status once. Blocks are collected before scoring;
	// adjustments are held back until we know the book survived.
	nudges := make(map[string]float64)
	for _, st := range snap.Statuses {
		switch eff := s.StatusEffect(st.Status).(type) {
		case HardBlock:
			res.Blocked[st.BookID] = eff.Reason
		case Adjustment:
			nudges[st.BookID] += eff.Delta
		}
	}
	for _, in := range snap.Interactions {
		if in.State == domain.InteractionNotInterested {
			res.Blocked[in.BookID] = BlockNotInterested
		}
	}

	// Interaction weights.
	for _, in := range snap.Interactions {
		if res.IsBlocked(in.BookID) {
			continue
		}
		switch in.State {
		case domain.InteractionLiked:
			res.Scores[in.BookID] += s.weights.InteractionLiked
		case domain.InteractionInterested:
			res.Scores[in.BookID] += s.weights.InteractionInterested
		case domain.InteractionDisliked:
			res.Scores[in.BookID] += s.weights.InteractionDisliked
		}
	}

	// History weights, for rows that match a catalog book.
	lookup := make(map[string]string, len(snap.Books))
	for i := range snap.Books {
		b := &snap.Books[i]
		lookup[normalize.TitleAuthorKey(b.Title, b.Author)] = b.ID
	}
	for _, h := range snap.History {
		bookID, ok := lookup[normalize.TitleAuthorKey(h.Title, h.Author)]
		if !ok || res.IsBlocked(bookID) {
			continue
		}
		if w, ok := s.historyWeight(h); ok {
			res.Scores[bookID] += w
		}
	}

	// Status nudges last, only for surviving books.
	for bookID, delta := range nudges {
		if res.IsBlocked(bookID) {
			continue
		}
		res.Scores[bookID] += delta
	}

	return res
}

// historyWeight maps one history row to its score contribution.
func (s *SignalScorer) historyWeight(h domain.HistoryEntry) (float64, bool) {
	switch h.Shelf {
	case domain.ShelfRead:
		switch {
		case h.Rating >= 4:
			return s.weights.HistoryReadHighRating, true
		case h.Rating == 3:
			return s.weights.HistoryReadMidRating, true
		case h.Rating > 0:
			return s.weights.HistoryReadLowRating, true
		default:
			return s.weights.HistoryReadUnrated, true
		}
	case domain.ShelfToRead, domain.ShelfWantToRead:
		return s.weights.HistoryToRead, true
	default:
		return 0, false
	}
}
