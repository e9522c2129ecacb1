// Package suggest turns merge-candidate clusters into user-reviewable
// suggestions. Suggestions are pure values recomputed on demand; nothing
// here touches the backing store.
package suggest

import (
	"fmt"
	"time"

	"github.com/atelieapp/unify/internal/cluster"
	"github.com/atelieapp/unify/internal/similarity"
	"github.com/atelieapp/unify/internal/types"
)

// Generate clusters the records at the given threshold and wraps each
// cluster into a pending suggestion. The aggregate confidence comes from
// the mean of the candidates' composite scores, unrounded, so a borderline
// cluster is not promoted into a higher bucket by integer rounding.
//
// Suggestion ids are unique within the run only (positional counter plus
// the generation timestamp). Regenerating always produces fresh ids:
// suggestions have no identity across runs.
func Generate(records []*types.Record, field string, threshold int) []types.Suggestion {
	clusters := cluster.Build(records, field, threshold)
	if len(clusters) == 0 {
		return nil
	}

	now := time.Now()
	suggestions := make([]types.Suggestion, 0, len(clusters))

	for i, c := range clusters {
		suggestions = append(suggestions, types.Suggestion{
			ID:          fmt.Sprintf("suggestion_%d_%d", i, now.UnixMilli()),
			Cluster:     c,
			Field:       field,
			Confidence:  similarity.MeanConfidence(meanScore(c.Metrics)),
			GeneratedAt: now,
			Status:      types.SuggestionPending,
		})
	}

	return suggestions
}

// Stats counts suggestions per confidence bucket for one generation run.
type Stats struct {
	Total  int `json:"total"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Tally summarizes a suggestion list by aggregate confidence.
func Tally(suggestions []types.Suggestion) Stats {
	stats := Stats{Total: len(suggestions)}
	for _, s := range suggestions {
		switch s.Confidence {
		case types.ConfidenceHigh:
			stats.High++
		case types.ConfidenceMedium:
			stats.Medium++
		case types.ConfidenceLow:
			stats.Low++
		}
	}
	return stats
}

func meanScore(metrics []types.SimilarityMetrics) float64 {
	if len(metrics) == 0 {
		return 0
	}
	sum := 0
	for _, m := range metrics {
		sum += m.Score
	}
	return float64(sum) / float64(len(metrics))
}
