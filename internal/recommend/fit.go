package recommend

import (
	"strings"

	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/normalize"
)

// FitScorer scores how well a single book fits a profile: stage, business
// model, focus areas, challenge, and the insight-field matches against
// promise, frameworks, and outcomes. All rules are additive and independent;
// a book collects every bonus that applies.
type FitScorer struct {
	weights WeightTable
}

// NewFitScorer creates a scorer with the given weight table.
func NewFitScorer(w WeightTable) *FitScorer {
	return &FitScorer{weights: w}
}

// Score returns the fit contribution and factor breakdown for one book.
// A nil view contributes nothing.
func (f *FitScorer) Score(view ProfileView, book *domain.Book) (float64, domain.ScoreFactors) {
	var factors domain.ScoreFactors
	if view == nil {
		return 0, factors
	}

	score := 0.0
	w := f.weights

	// Declared stage, plus the smaller revenue-implied bonus. The two
	// combine additively when both hit the same book.
	if stage := normalize.Key(view.Stage()); stage != "" && book.HasStageTag(stage) {
		score += w.StageMatch
		factors.StageFit += w.StageMatch
	}
	if implied := w.ImpliedStage(view.RevenueRange()); implied != "" && book.HasStageTag(implied) {
		score += w.RevenueStageMatch
		factors.StageFit += w.RevenueStageMatch
	}

	// Business model: direct theme-tag hit, then the segment bias. Canon
	// books get a bonus large enough to dominate ranking for recognized
	// segments, and a short list of adjacent tags gets smaller boosts.
	model := normalize.Key(view.BusinessModel())
	if model != "" && book.HasThemeTag(model) {
		score += w.ModelThemeMatch
		factors.BusinessModelFit += w.ModelThemeMatch
	}
	if segment := f.weights.ClassifySegment(view.BusinessModel()); segment != SegmentNone {
		if book.HasThemeTag(segment.CanonTag()) {
			score += w.CanonBonus
			factors.BusinessModelFit += w.CanonBonus
		}
		for _, tag := range book.ThemeTags {
			if bonus, ok := w.AdjacencyBonuses(segment)[tag]; ok {
				score += bonus
				factors.BusinessModelFit += bonus
			}
		}
	}

	// Focus areas: one bonus no matter how many areas overlap.
	for _, area := range view.FocusAreas() {
		if key := normalize.Key(area); key != "" && book.HasFunctionalTag(key) {
			score += w.AreasMatch
			factors.AreasFit = w.AreasMatch
			break
		}
	}

	// Challenge inside a theme tag, first match wins.
	if challenge := normalize.Key(view.Challenge()); challenge != "" {
		for _, tag := range book.ThemeTags {
			if strings.Contains(tag, challenge) {
				score += w.ChallengeTheme
				factors.ChallengeFit = w.ChallengeTheme
				break
			}
		}
	}

	// Insight-field matches. Factors record the raw 1.0 hit; the score gets
	// the weighted value.
	challenge := strings.ToLower(strings.TrimSpace(view.Challenge()))
	if challenge != "" && strings.Contains(strings.ToLower(book.Promise), challenge) {
		factors.PromiseMatch = 1.0
		score += w.PromiseWeight
	}
	rawModel := strings.ToLower(strings.TrimSpace(view.BusinessModel()))
	if rawModel != "" {
		for _, fw := range book.Frameworks {
			if strings.Contains(strings.ToLower(fw), rawModel) {
				factors.FrameworkMatch = 1.0
				score += w.FrameworkWeight
				break
			}
		}
	}
	vision := strings.ToLower(view.Vision())
	if vision != "" {
		for _, outcome := range book.Outcomes {
			if outcome != "" && strings.Contains(vision, strings.ToLower(outcome)) {
				factors.OutcomeMatch = 1.0
				score += w.OutcomeWeight
				break
			}
		}
	}

	return score, factors
}
