// Package cluster partitions record lists into merge-candidate groups using
// pairwise composite similarity scores.
//
// The pass is greedy and order-sensitive: records are visited in list order,
// and a record similar to two different unprocessed principals joins
// whichever one is reached first. That is not necessarily its best match,
// but it keeps results deterministic for a fixed input order and matches
// what reviewers see between runs. Cost is O(n²) field comparisons, fine for
// the tens-to-hundreds of entries an appointment book accumulates.
package cluster

import (
	"github.com/atelieapp/unify/internal/similarity"
	"github.com/atelieapp/unify/internal/types"
)

// Build partitions records into clusters of near-duplicates. Each cluster
// holds the first-encountered record as principal and every later unused
// record whose composite score against it meets the threshold. Records
// without a match are omitted. Each record lands in at most one cluster.
//
// Total: an empty list, a threshold outside [0, 100], or an unknown field
// yields no clusters rather than an error.
func Build(records []*types.Record, field string, threshold int) []types.Cluster {
	if len(records) == 0 || field == "" || threshold < 0 || threshold > 100 {
		return nil
	}

	used := make([]bool, len(records))
	var clusters []types.Cluster

	for i := range records {
		if used[i] {
			continue
		}

		var candidates []*types.Record
		var metrics []types.SimilarityMetrics

		for j := i + 1; j < len(records); j++ {
			if used[j] {
				continue
			}

			m := similarity.CompositeMetrics(records[i].Field(field), records[j].Field(field))
			if m.Score >= threshold {
				candidates = append(candidates, records[j])
				metrics = append(metrics, m)
				used[j] = true
			}
		}

		if len(candidates) > 0 {
			used[i] = true
			clusters = append(clusters, types.Cluster{
				Principal:  records[i],
				Candidates: candidates,
				Metrics:    metrics,
			})
		}
	}

	return clusters
}
