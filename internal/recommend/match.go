package recommend

import (
	"github.com/foundershelf/foundershelf-server/internal/domain"
	"github.com/foundershelf/foundershelf-server/internal/normalize"
)

// projectTags maps a book's tags into insight key space. Stage tags become
// business_stage keys, functional tags become focus_area keys, theme tags
// become bottleneck keys. Business-model insights have no projection, so
// they only ever contribute through the fit scorer.
func projectTags(book *domain.Book) map[string]struct{} {
	keys := make(map[string]struct{}, len(book.StageTags)+len(book.FunctionalTags)+len(book.ThemeTags))
	for _, t := range book.StageTags {
		keys[domain.InsightBusinessStage+":"+normalize.Key(t)] = struct{}{}
	}
	for _, t := range book.FunctionalTags {
		keys[domain.InsightFocusArea+":"+normalize.Key(t)] = struct{}{}
	}
	for _, t := range book.ThemeTags {
		keys[domain.InsightBottleneck+":"+normalize.Key(t)] = struct{}{}
	}
	return keys
}

// MatchInsights checks every user insight against a book's projected tag
// set. Each exact key match contributes the insight's weight. The returned
// slice preserves builder order, which keeps the whole pass deterministic.
func MatchInsights(insights []domain.Insight, book *domain.Book) (matched []domain.Insight, total float64) {
	if len(insights) == 0 {
		return nil, 0
	}
	keys := projectTags(book)
	for _, ins := range insights {
		if _, ok := keys[ins.Key]; ok {
			matched = append(matched, ins)
			total += ins.Weight
		}
	}
	return matched, total
}

// DominantInsight picks the highest-weight matched insight, used for
// diversity control and as the lead of the explanation. Earlier insights win
// ties, so the result is stable for a given profile.
func DominantInsight(matched []domain.Insight) *domain.Insight {
	if len(matched) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(matched); i++ {
		if matched[i].Weight > matched[best].Weight {
			best = i
		}
	}
	d := matched[best]
	return &d
}
