package recommend

import "slices"

// DiversityReranker keeps one theme from monopolizing the list. The best
// scoring book for each dominant insight key stays untouched; every repeat
// of that key pays a growing penalty.
type DiversityReranker struct {
	weights WeightTable
}

// NewDiversityReranker creates a reranker with the given weight table.
func NewDiversityReranker(w WeightTable) *DiversityReranker {
	return &DiversityReranker{weights: w}
}

// Rerank walks the list in score order and applies the repeat penalty:
// the k-th repeat of a dominant insight key loses step*k points, floored at
// zero. Books without a dominant insight are never penalized. The final
// sort is stable, so order only changes where a penalty causes a real
// inversion.
func (d *DiversityReranker) Rerank(list []scoredBook) []scoredBook {
	sortByScore(list)

	seen := make(map[string]int)
	for i := range list {
		if list[i].Dominant == nil {
			continue
		}
		key := list[i].Dominant.Key
		repeats := seen[key]
		if repeats > 0 {
			list[i].Score -= d.weights.DiversityPenaltyStep * float64(repeats)
			if list[i].Score < 0 {
				list[i].Score = 0
			}
		}
		seen[key] = repeats + 1
	}

	slices.SortStableFunc(list, func(a, b scoredBook) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return list
}
