package recommend

import (
	"testing"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullProfileView() ProfileView {
	return ViewProfile(&domain.Profile{
		UserID:           "user-1",
		Stage:            "Early Revenue",
		BusinessModel:    "Agency",
		BiggestChallenge: "Client Acquisition",
		FocusAreas:       []string{"Marketing", "hiring"},
		RevenueRange:     domain.Revenue1KTo10K,
		Vision:           "become the go-to shop in our niche",
	})
}

func TestInsightBuilder_FullProfile(t *testing.T) {
	b := NewInsightBuilder(DefaultWeights())

	insights := b.Build(fullProfileView())
	require.Len(t, insights, 5)

	// Fixed derivation order: stage, model, focus areas, challenge.
	assert.Equal(t, "business_stage:early-revenue", insights[0].Key)
	assert.Equal(t, 1.2, insights[0].Weight)
	assert.Equal(t, "you're at the Early Revenue stage", insights[0].Reason)

	assert.Equal(t, "business_model:agency", insights[1].Key)
	assert.Equal(t, 1.0, insights[1].Weight)

	assert.Equal(t, "focus_area:marketing", insights[2].Key)
	assert.Equal(t, 0.8, insights[2].Weight)
	assert.Equal(t, "focus_area:hiring", insights[3].Key)
	assert.Equal(t, 0.8, insights[3].Weight)

	assert.Equal(t, "bottleneck:client-acquisition", insights[4].Key)
	assert.Equal(t, 1.1, insights[4].Weight)
	assert.Equal(t, "your biggest bottleneck is Client Acquisition", insights[4].Reason)
}

func TestInsightBuilder_KeyNormalization(t *testing.T) {
	b := NewInsightBuilder(DefaultWeights())

	insights := b.Build(AdHocProfile{
		BusinessStage: "  Early_Revenue  ",
		Model:         "Done For You",
	})
	require.Len(t, insights, 2)
	assert.Equal(t, "business_stage:early-revenue", insights[0].Key)
	assert.Equal(t, "business_model:done-for-you", insights[1].Key)
}

func TestInsightBuilder_SkipsEmptyFields(t *testing.T) {
	b := NewInsightBuilder(DefaultWeights())

	insights := b.Build(AdHocProfile{
		Model: "saas",
		Areas: []string{"", "product"},
	})
	require.Len(t, insights, 2)
	assert.Equal(t, "business_model:saas", insights[0].Key)
	assert.Equal(t, "focus_area:product", insights[1].Key)
}

func TestInsightBuilder_NilView(t *testing.T) {
	b := NewInsightBuilder(DefaultWeights())

	assert.Nil(t, b.Build(nil))
	assert.Nil(t, b.Build(ViewProfile(nil)))
}

func TestInsightBuilder_EmptyProfile(t *testing.T) {
	b := NewInsightBuilder(DefaultWeights())

	assert.Empty(t, b.Build(AdHocProfile{}))
}

// Rebuilding from the same profile must yield an identical list; the
// ranking pipeline depends on this for determinism.
func TestInsightBuilder_Deterministic(t *testing.T) {
	b := NewInsightBuilder(DefaultWeights())
	view := fullProfileView()

	first := b.Build(view)
	second := b.Build(view)
	assert.Equal(t, first, second)
}
