package recommend

import (
	"fmt"
	"strings"

	"github.com/foundershelf/foundershelf-server/internal/normalize"
)

// maxExplanationLen bounds the prose explanation, ellipsis included.
const maxExplanationLen = 240

// maxChips bounds the number of signal chips per result.
const maxChips = 3

// ExplanationGenerator turns a scored book into a short human-readable
// justification: one or two sentences of prose plus up to three signal
// chips.
type ExplanationGenerator struct{}

// NewExplanationGenerator creates a generator.
func NewExplanationGenerator() *ExplanationGenerator {
	return &ExplanationGenerator{}
}

// Explain produces the prose and chips for one ranked book.
func (g *ExplanationGenerator) Explain(view ProfileView, sb scoredBook, segment Segment) (string, []string) {
	return g.prose(view, sb), g.chips(view, sb, segment)
}

// prose builds the explanation in strict priority order: dominant insight,
// then stated challenge, then stage, then the bare promise, then a generic
// line. The book's promise text rides along as the second sentence whenever
// a lead exists.
func (g *ExplanationGenerator) prose(view ProfileView, sb scoredBook) string {
	promise := strings.TrimSpace(sb.Book.Promise)

	var lead string
	switch {
	case sb.Dominant != nil:
		lead = fmt.Sprintf("Recommended because %s.", sb.Dominant.Reason)
	case view != nil && strings.TrimSpace(view.Challenge()) != "":
		lead = fmt.Sprintf("Picked for your current challenge: %s.", strings.TrimSpace(view.Challenge()))
	case view != nil && strings.TrimSpace(view.Stage()) != "":
		lead = fmt.Sprintf("A practical fit for the %s stage.", strings.TrimSpace(view.Stage()))
	}

	var text string
	switch {
	case lead != "" && promise != "":
		text = lead + " " + promise
	case lead != "":
		text = lead
	case promise != "":
		text = promise
	default:
		text = "A reader favorite across the catalog, worth a look."
	}

	return truncateWords(text, maxExplanationLen)
}

// chips selects up to three short signal labels in fixed priority order:
// canon membership, stage match, functional-area overlap, challenge topic.
func (g *ExplanationGenerator) chips(view ProfileView, sb scoredBook, segment Segment) []string {
	var chips []string
	seen := make(map[string]bool)
	add := func(c string) {
		if c == "" || seen[c] || len(chips) >= maxChips {
			return
		}
		chips = append(chips, c)
		seen[c] = true
	}

	if segment == SegmentService && sb.Book.IsServicesCanon() {
		add("Services canon")
	} else if segment == SegmentSaaS && sb.Book.IsSaaSCanon() {
		add("SaaS canon")
	}

	if view == nil {
		return chips
	}

	if stage := normalize.Key(view.Stage()); stage != "" && sb.Book.HasStageTag(stage) {
		add(stage + " stage")
	}

	var areaHits []string
	for _, area := range view.FocusAreas() {
		if key := normalize.Key(area); key != "" && sb.Book.HasFunctionalTag(key) {
			areaHits = append(areaHits, key)
			if len(areaHits) == 2 {
				break
			}
		}
	}
	if len(areaHits) > 0 {
		add(strings.Join(areaHits, " + "))
	}

	if challenge := normalize.Key(view.Challenge()); challenge != "" {
		for _, tag := range sb.Book.ThemeTags {
			if strings.Contains(tag, challenge) {
				add("tackles " + challenge)
				break
			}
		}
	}

	return chips
}

// truncateWords cuts s to at most max bytes without splitting a word,
// appending an ellipsis when anything was dropped.
func truncateWords(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max-3]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}
