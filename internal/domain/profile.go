package domain

import (
	"slices"
	"time"
)

// Business stages a founder can declare. Catalog stage tags use the same values.
const (
	StageIdea         = "idea"
	StageLaunch       = "launch"
	StageEarlyRevenue = "early-revenue"
	StageGrowth       = "growth"
	StageScale        = "scale"
)

// Stages lists the recognized business stages in progression order.
func Stages() []string {
	return []string{StageIdea, StageLaunch, StageEarlyRevenue, StageGrowth, StageScale}
}

// KnownStage reports whether s is one of the recognized business stages.
func KnownStage(s string) bool {
	return slices.Contains(Stages(), s)
}

// Revenue ranges a founder can declare. Used by scoring to imply a stage
// when the declared stage is missing or stale.
const (
	RevenuePreRevenue = "pre-revenue"
	RevenueUnder1K    = "under-1k"
	Revenue1KTo10K    = "1k-10k"
	Revenue10KTo50K   = "10k-50k"
	Revenue50KPlus    = "50k-plus"
)

// Profile is a founder's stated business context, the raw material for
// insight derivation. One per user; may be absent entirely (cold start).
type Profile struct {
	UserID           string    `json:"user_id"`
	Stage            string    `json:"stage,omitempty"`             // One of Stages()
	BusinessModel    string    `json:"business_model,omitempty"`    // Free text: "agency", "saas", ...
	BiggestChallenge string    `json:"biggest_challenge,omitempty"` // Free text: "sales", "churn", ...
	FocusAreas       []string  `json:"focus_areas,omitempty"`       // Functional areas the founder works on
	RevenueRange     string    `json:"revenue_range,omitempty"`
	Vision           string    `json:"vision,omitempty"` // Forward-looking goals and blockers, free text
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProfile creates an empty profile for a user.
func NewProfile(userID string) *Profile {
	now := time.Now()
	return &Profile{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (p *Profile) Touch() {
	p.UpdatedAt = time.Now()
}
