package similarity

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/atelieapp/unify/internal/types"
)

// Weighting of the composite score: the raw (case-folded) similarity
// dominates, the accent/punctuation-insensitive similarity corrects for
// typos that normalization absorbs.
const (
	basicWeight      = 0.7
	normalizedWeight = 0.3

	// equivalenceThreshold is the normalized-similarity floor for treating
	// two values as the same entry
	equivalenceThreshold = 85.0
)

// Confidence bucket boundaries for composite scores.
const (
	highConfidenceMin   = 85
	mediumConfidenceMin = 70
)

// Distance returns the Levenshtein edit distance between the case-folded,
// trimmed inputs. Insertions, deletions, and substitutions all cost one.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(fold(a), fold(b))
}

// Percent computes the edit-distance similarity percentage between two
// values, rounded to two decimal places. Either input empty scores 0; two
// values whose folded forms are both empty score 100. Symmetric, bounded
// in [0, 100], and Percent(x, x) == 100.
func Percent(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	fa, fb := fold(a), fold(b)
	maxLen := utf8.RuneCountInString(fa)
	if n := utf8.RuneCountInString(fb); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(fa, fb)
	return round2(float64(maxLen-dist) / float64(maxLen) * 100)
}

// IsEquivalent reports whether two values collapse to the same entry after
// normalization, either exactly or within the equivalence threshold.
func IsEquivalent(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na == nb || Percent(na, nb) >= equivalenceThreshold
}

// CompositeScore blends the raw and normalized similarity percentages into
// the integer merge-candidacy signal.
func CompositeScore(a, b string) int {
	basic := Percent(a, b)
	normalized := Percent(Normalize(a), Normalize(b))
	return int(math.Round(basic*basicWeight + normalized*normalizedWeight))
}

// ConfidenceFor buckets a composite score into high/medium/low.
func ConfidenceFor(score int) types.Confidence {
	return confidenceFor(float64(score))
}

func confidenceFor(score float64) types.Confidence {
	switch {
	case score >= highConfidenceMin:
		return types.ConfidenceHigh
	case score >= mediumConfidenceMin:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

// MeanConfidence buckets an unrounded mean of composite scores. Used for a
// suggestion's aggregate confidence so that e.g. a mean of 84.9 stays medium.
func MeanConfidence(mean float64) types.Confidence {
	return confidenceFor(mean)
}

// CompositeMetrics bundles every pairwise measurement for one comparison.
// Pure and total: malformed or empty text degrades to low similarity.
func CompositeMetrics(a, b string) types.SimilarityMetrics {
	basic := Percent(a, b)
	normalized := Percent(Normalize(a), Normalize(b))
	score := int(math.Round(basic*basicWeight + normalized*normalizedWeight))

	return types.SimilarityMetrics{
		Score:       score,
		Exact:       a == b,
		Levenshtein: basic,
		Normalized:  normalized,
		Equivalent:  IsEquivalent(a, b),
		Confidence:  ConfidenceFor(score),
	}
}

// fold case-folds and trims a value without full normalization. The raw
// similarity measure must stay sensitive to accents and punctuation.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
