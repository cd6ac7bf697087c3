package recommend

import (
	"errors"
	"math"
	"slices"
	"strings"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/logger"
)

// ErrInsufficientSignal is the control signal raised when personalized
// scoring cannot produce a usable ranking: the pool is empty, everything is
// blocked, or no book earned a positive score. Callers are expected to
// catch it with errors.Is and run the fallback path; it is never surfaced
// to end users as an error.
var ErrInsufficientSignal = errors.New("insufficient signal for personalized ranking")

// State is a pipeline phase. States advance strictly forward; the only
// branch is into StateInsufficientSignal from StateScored.
type State string

const (
	StateLoaded             State = "loaded"
	StateScored             State = "scored"
	StateReranked           State = "reranked"
	StatePartitioned        State = "partitioned"
	StateExplained          State = "explained"
	StateDone               State = "done"
	StateInsufficientSignal State = "insufficient_signal"
)

// DefaultLimit is the result count used when the caller does not specify one.
const DefaultLimit = 10

// Options control one ranking call.
type Options struct {
	// Limit caps the result list. Zero means DefaultLimit.
	Limit int
	// Debug includes the factor breakdown and matched insights per result.
	Debug bool
}

// Result is the outcome of a ranking call.
type Result struct {
	Results []domain.RankedResult
	State   State
}

// CurationHints are the catalog-level buckets the fallback path scores
// against when no personal signal exists.
type CurationHints struct {
	Stage string
	Model string
}

// scoredBook is the pipeline's working record for one candidate.
type scoredBook struct {
	Book     *domain.Book
	Score    float64
	Factors  domain.ScoreFactors
	Matched  []domain.Insight
	Dominant *domain.Insight
}

// Engine runs the ranking pipeline. It holds no mutable state between
// calls: every Rank is a pure function of its snapshot, so concurrent calls
// need no locks.
type Engine struct {
	weights   WeightTable
	insights  *InsightBuilder
	signals   *SignalScorer
	fit       *FitScorer
	diversity *DiversityReranker
	canon     *CanonPartitioner
	explain   *ExplanationGenerator
	log       *logger.Logger
}

// NewEngine creates an engine with the given weight table.
func NewEngine(w WeightTable, log *logger.Logger) *Engine {
	return &Engine{
		weights:   w,
		insights:  NewInsightBuilder(w),
		signals:   NewSignalScorer(w),
		fit:       NewFitScorer(w),
		diversity: NewDiversityReranker(w),
		canon:     NewCanonPartitioner(w),
		explain:   NewExplanationGenerator(),
		log:       log,
	}
}

// Rank runs the full personalized pipeline over a snapshot:
// signal scoring, fit scoring, insight matching, diversity reranking, canon
// partitioning, and explanation. Returns ErrInsufficientSignal when the
// snapshot cannot support a personalized ranking.
func (e *Engine) Rank(snap *Snapshot, opts Options) (*Result, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	state := StateLoaded
	e.log.Debug("pipeline state",
		"state", state,
		"books", len(snap.Books),
		"interactions", len(snap.Interactions),
		"history", len(snap.History))

	signals := e.signals.Score(snap)
	insights := e.insights.Build(snap.Profile)

	// Blocked books are subtracted from the pool before any scoring; a
	// blocked book reaching a scorer would be a defect, not a runtime case.
	pool := make([]scoredBook, 0, len(snap.Books))
	usable := false
	for i := range snap.Books {
		book := &snap.Books[i]
		if signals.IsBlocked(book.ID) {
			continue
		}
		fitScore, factors := e.fit.Score(snap.Profile, book)
		matched, matchTotal := MatchInsights(insights, book)
		total := signals.Scores[book.ID] + fitScore + matchTotal
		if total > 0 {
			usable = true
		}
		pool = append(pool, scoredBook{
			Book:     book,
			Score:    total,
			Factors:  factors,
			Matched:  matched,
			Dominant: DominantInsight(matched),
		})
	}
	state = StateScored
	e.log.Debug("pipeline state", "state", state, "pool", len(pool), "blocked", len(signals.Blocked))

	if len(pool) == 0 || !usable {
		state = StateInsufficientSignal
		e.log.Debug("pipeline state", "state", state)
		return nil, ErrInsufficientSignal
	}

	pool = e.diversity.Rerank(pool)
	state = StateReranked
	e.log.Debug("pipeline state", "state", state)

	segment := SegmentNone
	if snap.Profile != nil {
		segment = e.weights.ClassifySegment(snap.Profile.BusinessModel())
	}
	pool = e.canon.Partition(pool, segment, limit)
	state = StatePartitioned
	e.log.Debug("pipeline state", "state", state, "segment", segment, "limit", limit)

	results := e.assemble(snap.Profile, pool, segment, opts.Debug)
	state = StateExplained
	e.log.Debug("pipeline state", "state", state, "results", len(results))

	state = StateDone
	return &Result{Results: results, State: state}, nil
}

// RankFallback is the non-personalized path the caller runs after
// ErrInsufficientSignal. Only the fit scorer runs, against catalog-level
// curation hints; when no hints apply every score is zero and the ordering
// degrades to recency. Hard blocks still hold. Never fails: an empty
// catalog yields an empty result.
func (e *Engine) RankFallback(snap *Snapshot, hints CurationHints, opts Options) *Result {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	view := AdHocProfile{BusinessStage: hints.Stage, Model: hints.Model}
	blocked := e.signals.Score(snap).Blocked

	pool := make([]scoredBook, 0, len(snap.Books))
	for i := range snap.Books {
		book := &snap.Books[i]
		if _, ok := blocked[book.ID]; ok {
			continue
		}
		fitScore, factors := e.fit.Score(view, book)
		pool = append(pool, scoredBook{Book: book, Score: fitScore, Factors: factors})
	}

	// Score first, then recency. With no curation hints all scores are
	// zero and this is a pure recency ordering.
	slices.SortFunc(pool, func(a, b scoredBook) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		case a.Book.CreatedAt.After(b.Book.CreatedAt):
			return -1
		case a.Book.CreatedAt.Before(b.Book.CreatedAt):
			return 1
		default:
			return strings.Compare(a.Book.ID, b.Book.ID)
		}
	})

	segment := e.weights.ClassifySegment(hints.Model)
	pool = e.canon.Partition(pool, segment, limit)

	e.log.Debug("fallback ranking",
		"stage_hint", hints.Stage,
		"model_hint", hints.Model,
		"results", len(pool))

	return &Result{Results: e.assemble(view, pool, segment, opts.Debug), State: StateDone}
}

// assemble rounds scores, attaches explanations and chips, and strips the
// debug-only breakdown unless asked for.
func (e *Engine) assemble(view ProfileView, pool []scoredBook, segment Segment, debug bool) []domain.RankedResult {
	results := make([]domain.RankedResult, 0, len(pool))
	for _, sb := range pool {
		prose, chips := e.explain.Explain(view, sb, segment)
		r := domain.RankedResult{
			BookID:      sb.Book.ID,
			Score:       round2(sb.Score),
			Explanation: prose,
			Chips:       chips,
		}
		if debug {
			r.Factors = sb.Factors
			r.MatchedInsights = sb.Matched
			r.DominantInsight = sb.Dominant
		}
		results = append(results, r)
	}
	return results
}

// sortByScore orders by score descending with book ID as the tiebreak, the
// canonical pre-penalty ordering.
func sortByScore(list []scoredBook) {
	slices.SortFunc(list, func(a, b scoredBook) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return strings.Compare(a.Book.ID, b.Book.ID)
		}
	})
}

// round2 rounds to two decimal places for presentation.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
