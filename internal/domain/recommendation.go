package domain

// Insight namespaces. An insight key is "<namespace>:<normalized-value>".
const (
	InsightBusinessStage = "business_stage"
	InsightBusinessModel = "business_model"
	InsightFocusArea     = "focus_area"
	InsightBottleneck    = "bottleneck"
)

// Insight is a weighted preference tag derived from a profile at request
// time. Never persisted; rebuilt fresh on every ranking call.
type Insight struct {
	Key    string  `json:"key"` // "<namespace>:<value>", e.g. "focus_area:marketing"
	Weight float64 `json:"weight"`
	Reason string  `json:"reason"` // Human-readable why, feeds explanations
}

// ScoreFactors is the per-book fit breakdown. Exists for transparency and
// explanation generation; all fields default to zero.
type ScoreFactors struct {
	StageFit         float64 `json:"stage_fit"`
	ChallengeFit     float64 `json:"challenge_fit"`
	BusinessModelFit float64 `json:"business_model_fit"`
	AreasFit         float64 `json:"areas_fit"`
	PromiseMatch     float64 `json:"promise_match"`
	FrameworkMatch   float64 `json:"framework_match"`
	OutcomeMatch     float64 `json:"outcome_match"`
}

// RankedResult is one entry in a recommendation response. Produced per
// ranking call and never persisted by the pipeline (the API layer logs a
// summary separately).
type RankedResult struct {
	BookID          string       `json:"book_id"`
	Score           float64      `json:"score"` // Rounded to 2 decimals
	Factors         ScoreFactors `json:"factors,omitzero"`
	MatchedInsights []Insight    `json:"matched_insights,omitempty"`
	DominantInsight *Insight     `json:"dominant_insight,omitempty"`
	Explanation     string       `json:"explanation"`
	Chips           []string     `json:"chips,omitempty"`
}
