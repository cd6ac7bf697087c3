package recommend

import "math"

// CanonPartitioner reserves the bulk of the final list for the curated canon
// of a recognized business-model segment, backfilling from the general pool.
// Users without a recognized segment get a plain top-N cut.
type CanonPartitioner struct {
	weights WeightTable
}

// NewCanonPartitioner creates a partitioner with the given weight table.
func NewCanonPartitioner(w WeightTable) *CanonPartitioner {
	return &CanonPartitioner{weights: w}
}

// Partition selects up to limit books from a list the caller has already
// ranked. For a recognized segment, floor(limit * share) slots go to the
// canon pool and the rest to the general pool; when either pool runs dry
// the remaining slots are backfilled from whatever is left, best rank
// first. Relative order of the input is preserved, so canon and general
// picks stay interleaved by rank.
func (c *CanonPartitioner) Partition(list []scoredBook, segment Segment, limit int) []scoredBook {
	if limit <= 0 || len(list) == 0 {
		return nil
	}

	if segment == SegmentNone {
		if len(list) > limit {
			return list[:limit]
		}
		return list
	}

	canonTag := segment.CanonTag()
	nicheQuota := int(math.Floor(float64(limit) * c.weights.CanonShare))
	generalQuota := limit - nicheQuota

	picked := make([]bool, len(list))
	count, nicheCount, generalCount := 0, 0, 0
	for i := range list {
		if list[i].Book.HasThemeTag(canonTag) {
			if nicheCount < nicheQuota {
				picked[i] = true
				nicheCount++
				count++
			}
		} else if generalCount < generalQuota {
			picked[i] = true
			generalCount++
			count++
		}
	}

	// One pool came up short: hand its unused slots to the best remaining
	// books regardless of pool.
	for i := range list {
		if count >= limit {
			break
		}
		if !picked[i] {
			picked[i] = true
			count++
		}
	}

	out := make([]scoredBook, 0, count)
	for i := range list {
		if picked[i] {
			out = append(out, list[i])
		}
	}
	return out
}
