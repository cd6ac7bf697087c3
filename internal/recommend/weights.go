// Package recommend implements the scoring and ranking pipeline: profile
// insights, interaction and history signals, catalog fit, diversity
// reranking, canon partitioning, and explanation generation. The pipeline is
// a pure transformation over an immutable snapshot; persistence and transport
// live elsewhere.
package recommend

import (
	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/normalize"
)

// Segment is the recognized business-model segment of a user, used for canon
// partitioning and domain-bias bonuses.
type Segment string

const (
	// SegmentNone means the model string was absent or not recognized.
	SegmentNone Segment = ""
	// SegmentService covers agencies, consultancies, and other client-work businesses.
	SegmentService Segment = "service"
	// SegmentSaaS covers software product and subscription businesses.
	SegmentSaaS Segment = "saas"
)

// CanonTag returns the catalog sentinel tag marking canon membership for the
// segment, or "" for SegmentNone.
func (s Segment) CanonTag() string {
	switch s {
	case SegmentService:
		return domain.ServicesCanonTag
	case SegmentSaaS:
		return domain.SaaSCanonTag
	default:
		return ""
	}
}

// WeightTable holds every constant the pipeline scores with. One immutable
// value is injected into the engine at construction; tests build variants
// instead of patching globals.
type WeightTable struct {
	// Insight derivation weights, by profile field.
	InsightStage     float64
	InsightModel     float64
	InsightFocusArea float64
	InsightChallenge float64

	// Direct interaction weights.
	InteractionLiked      float64
	InteractionInterested float64
	InteractionDisliked   float64

	// Imported history weights, applied to rows matched by (title, author).
	HistoryReadHighRating float64 // shelf "read", rating >= 4
	HistoryReadMidRating  float64 // shelf "read", rating == 3
	HistoryReadLowRating  float64 // shelf "read", 0 < rating < 3
	HistoryReadUnrated    float64 // shelf "read", no rating
	HistoryToRead         float64 // shelf "to-read" / "want-to-read"

	// Soft status nudges. Hard-block statuses carry no weight; they remove
	// the book from the pool before scoring.
	StatusInterestedNudge float64
	StatusLikedNudge      float64

	// Fit weights.
	StageMatch        float64 // declared stage in stage tags
	RevenueStageMatch float64 // revenue-implied stage in stage tags
	ModelThemeMatch   float64 // business model string in theme tags
	CanonBonus        float64 // canon-tagged book for a recognized segment
	AreasMatch        float64 // any focus area in functional tags, once
	ChallengeTheme    float64 // challenge text inside a theme tag, once

	// Insight-field match weights (factors record the raw 1.0 match).
	PromiseWeight   float64
	FrameworkWeight float64
	OutcomeWeight   float64

	// Ranking controls.
	DiversityPenaltyStep float64 // per repeat of a dominant insight key
	CanonShare           float64 // niche share of the final list, 0..1

	// Fixed membership sets and lookups. Treated as read-only.
	ServiceLikeModels   map[string]bool
	SaaSLikeModels      map[string]bool
	ServiceAdjacency    map[string]float64 // theme tag -> bonus, service segment
	SaaSAdjacency       map[string]float64 // theme tag -> bonus, saas segment
	RevenueImpliedStage map[string]string  // revenue range -> stage
}

// DefaultWeights returns the production weight table.
func DefaultWeights() WeightTable {
	return WeightTable{
		InsightStage:     1.2,
		InsightModel:     1.0,
		InsightFocusArea: 0.8,
		InsightChallenge: 1.1,

		InteractionLiked:      5.0,
		InteractionInterested: 3.0,
		InteractionDisliked:   -4.0,

		HistoryReadHighRating: 4.0,
		HistoryReadMidRating:  2.0,
		HistoryReadLowRating:  -3.0,
		HistoryReadUnrated:    1.0,
		HistoryToRead:         2.0,

		StatusInterestedNudge: 1.0,
		StatusLikedNudge:      1.5,

		StageMatch:        3.0,
		RevenueStageMatch: 0.35,
		ModelThemeMatch:   2.0,
		CanonBonus:        6.0,
		AreasMatch:        1.5,
		ChallengeTheme:    1.5,

		PromiseWeight:   1.2,
		FrameworkWeight: 0.6,
		OutcomeWeight:   0.6,

		DiversityPenaltyStep: 0.15,
		CanonShare:           0.7,

		ServiceLikeModels: map[string]bool{
			"service":      true,
			"services":     true,
			"agency":       true,
			"consulting":   true,
			"consultancy":  true,
			"freelance":    true,
			"done-for-you": true,
		},
		SaaSLikeModels: map[string]bool{
			"saas":         true,
			"software":     true,
			"subscription": true,
			"app":          true,
			"platform":     true,
		},
		ServiceAdjacency: map[string]float64{
			"sales":              1.5,
			"client-acquisition": 1.5,
			"pricing":            1.0,
			"positioning":        1.0,
		},
		SaaSAdjacency: map[string]float64{
			"growth":    1.5,
			"product":   1.5,
			"metrics":   1.0,
			"retention": 1.0,
		},
		RevenueImpliedStage: map[string]string{
			domain.RevenuePreRevenue: domain.StageIdea,
			domain.RevenueUnder1K:    domain.StageLaunch,
			domain.Revenue1KTo10K:    domain.StageEarlyRevenue,
			domain.Revenue10KTo50K:   domain.StageGrowth,
			domain.Revenue50KPlus:    domain.StageScale,
		},
	}
}

// ClassifySegment maps a free-text business model to a recognized segment.
func (w WeightTable) ClassifySegment(model string) Segment {
	key := normalize.Key(model)
	if key == "" {
		return SegmentNone
	}
	if w.ServiceLikeModels[key] {
		return SegmentService
	}
	if w.SaaSLikeModels[key] {
		return SegmentSaaS
	}
	return SegmentNone
}

// AdjacencyBonuses returns the domain-adjacent tag bonuses for a segment.
func (w WeightTable) AdjacencyBonuses(s Segment) map[string]float64 {
	switch s {
	case SegmentService:
		return w.ServiceAdjacency
	case SegmentSaaS:
		return w.SaaSAdjacency
	default:
		return nil
	}
}

// ImpliedStage returns the stage a revenue range implies, or "".
func (w WeightTable) ImpliedStage(revenueRange string) string {
	return w.RevenueImpliedStage[revenueRange]
}
