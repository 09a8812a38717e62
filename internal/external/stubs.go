package external

import (
	"context"
	"fmt"
	"strings"

	"slopescout/internal/types"
)

// StubInsightsGenerator is a deterministic InsightsGenerator used when no
// insight provider is configured. It builds a blurb from the best-scoring
// day so the endpoint degrades gracefully instead of erroring.
type StubInsightsGenerator struct{}

// NewStubInsightsGenerator returns a generator that never calls the network.
func NewStubInsightsGenerator() *StubInsightsGenerator {
	return &StubInsightsGenerator{}
}

// ResortInsight summarizes the best day on record without a model call.
func (s *StubInsightsGenerator) ResortInsight(_ context.Context, resort ResortIdentity, dates []string, conditions []types.Ridability, _ string) (string, error) {
	if len(conditions) == 0 {
		return fmt.Sprintf("%s conditions data is not available for these dates yet.", resort.Name), nil
	}

	bestIdx := 0
	for i, cond := range conditions {
		if cond.Score > conditions[bestIdx].Score {
			bestIdx = i
		}
	}
	best := conditions[bestIdx]

	var b strings.Builder
	fmt.Fprintf(&b, "%s is looking %s overall", resort.Name, strings.ToLower(string(best.Label)))
	if bestIdx < len(dates) {
		fmt.Fprintf(&b, ", with %s shaping up as the strongest day at %d/100", dates[bestIdx], best.Score)
	}
	b.WriteString(".")
	if len(best.Reasons) > 0 {
		fmt.Fprintf(&b, " %s.", best.Reasons[0])
	}
	return b.String(), nil
}
