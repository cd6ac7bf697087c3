package recommend

import (
	"fmt"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/normalize"
)

// InsightBuilder derives weighted preference tags from a profile. This is a
// soft-signal layer: it cannot fail, and an empty result is a valid state
// (cold start, blank profile).
type InsightBuilder struct {
	weights WeightTable
}

// NewInsightBuilder creates a builder with the given weight table.
func NewInsightBuilder(w WeightTable) *InsightBuilder {
	return &InsightBuilder{weights: w}
}

// Build derives the insight list for a profile. Fields are visited in a
// fixed order so the same profile always yields the same list. A nil view
// yields no insights.
func (b *InsightBuilder) Build(view ProfileView) []domain.Insight {
	if view == nil {
		return nil
	}

	var insights []domain.Insight

	if stage := view.Stage(); stage != "" {
		insights = append(insights, domain.Insight{
			Key:    domain.InsightBusinessStage + ":" + normalize.Key(stage),
			Weight: b.weights.InsightStage,
			Reason: fmt.Sprintf("you're at the %s stage", stage),
		})
	}

	if model := view.BusinessModel(); model != "" {
		insights = append(insights, domain.Insight{
			Key:    domain.InsightBusinessModel + ":" + normalize.Key(model),
			Weight: b.weights.InsightModel,
			Reason: fmt.Sprintf("you run a %s business", model),
		})
	}

	for _, area := range view.FocusAreas() {
		if area == "" {
			continue
		}
		insights = append(insights, domain.Insight{
			Key:    domain.InsightFocusArea + ":" + normalize.Key(area),
			Weight: b.weights.InsightFocusArea,
			Reason: fmt.Sprintf("you're focused on %s", area),
		})
	}

	if challenge := view.Challenge(); challenge != "" {
		insights = append(insights, domain.Insight{
			Key:    domain.InsightBottleneck + ":" + normalize.Key(challenge),
			Weight: b.weights.InsightChallenge,
			Reason: fmt.Sprintf("your biggest bottleneck is %s", challenge),
		})
	}

	return insights
}
