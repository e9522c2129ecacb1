package cluster

import (
	"sort"

	"github.com/atelieapp/unify/internal/similarity"
	"github.com/atelieapp/unify/internal/types"
)

// Match pairs a record with its similarity metrics against a search term.
type Match struct {
	Record  *types.Record           `json:"record"`
	Value   string                  `json:"value"`
	Metrics types.SimilarityMetrics `json:"metrics"`
}

// FindSimilar scores a term against every record's comparison field and
// returns the matches at or above the threshold, best first. Records with a
// blank comparison field are skipped. Used to warn before creating an entry
// that likely already exists.
func FindSimilar(term string, records []*types.Record, field string, threshold int) []Match {
	if term == "" || len(records) == 0 || field == "" {
		return nil
	}

	var matches []Match
	for _, rec := range records {
		value := rec.Field(field)
		if value == "" {
			continue
		}

		m := similarity.CompositeMetrics(term, value)
		if m.Score >= threshold {
			matches = append(matches, Match{Record: rec, Value: value, Metrics: m})
		}
	}

	// Stable so equal scores keep list order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Metrics.Score > matches[j].Metrics.Score
	})

	return matches
}
