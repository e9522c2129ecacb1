package suggest

import (
	"testing"

	"github.com/atelieapp/unify/internal/types"
)

func rec(id, name string) *types.Record {
	return &types.Record{ID: id, Fields: map[string]any{"name": name}}
}

func TestGenerateWrapsClusters(t *testing.T) {
	records := []*types.Record{
		rec("1", "Consulta"),
		rec("2", "consulta"),
		rec("3", "CONSULTA"),
		rec("4", "Festa de Criança"),
	}

	suggestions := Generate(records, "name", 70)

	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	s := suggestions[0]
	if s.Status != types.SuggestionPending {
		t.Errorf("status = %s, want pending", s.Status)
	}
	if s.Field != "name" {
		t.Errorf("field = %s, want name", s.Field)
	}
	if s.Confidence != types.ConfidenceHigh {
		t.Errorf("confidence = %s, want high for case-only variants", s.Confidence)
	}
	if len(s.Cluster.Candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(s.Cluster.Candidates))
	}
	if s.GeneratedAt.IsZero() {
		t.Error("generated_at must be set")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("suggestion should validate: %v", err)
	}
}

func TestGenerateUniqueIDsWithinRun(t *testing.T) {
	records := []*types.Record{
		rec("1", "Corte"),
		rec("2", "corte"),
		rec("3", "Escova"),
		rec("4", "escova"),
	}

	suggestions := Generate(records, "name", 75)

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].ID == suggestions[1].ID {
		t.Errorf("suggestion ids must differ within a run: %s", suggestions[0].ID)
	}
}

func TestGenerateEmptyResults(t *testing.T) {
	if got := Generate(nil, "name", 70); got != nil {
		t.Error("nil records should yield nil")
	}
	if got := Generate([]*types.Record{rec("1", "Consulta")}, "name", 70); got != nil {
		t.Error("a single record has nothing to pair with")
	}
	if got := Generate([]*types.Record{rec("1", "a"), rec("2", "a")}, "name", 101); got != nil {
		t.Error("out-of-range threshold should yield nil")
	}
}

func TestGenerateAggregateConfidenceFromMean(t *testing.T) {
	// "Ana Lima" scores 100 against itself and lower against the typo, so
	// the aggregate bucket reflects the mean, not the best candidate.
	records := []*types.Record{
		rec("1", "Ana Lima"),
		rec("2", "Ana Lima"),
		rec("3", "Anna Limaa"),
	}

	suggestions := Generate(records, "name", 70)

	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	s := suggestions[0]
	if len(s.Cluster.Metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(s.Cluster.Metrics))
	}
	sum := 0
	for _, m := range s.Cluster.Metrics {
		sum += m.Score
	}
	mean := float64(sum) / 2
	switch {
	case mean >= 85 && s.Confidence != types.ConfidenceHigh:
		t.Errorf("mean %.2f should be high, got %s", mean, s.Confidence)
	case mean >= 70 && mean < 85 && s.Confidence != types.ConfidenceMedium:
		t.Errorf("mean %.2f should be medium, got %s", mean, s.Confidence)
	}
}

func TestTally(t *testing.T) {
	suggestions := []types.Suggestion{
		{Confidence: types.ConfidenceHigh},
		{Confidence: types.ConfidenceHigh},
		{Confidence: types.ConfidenceMedium},
		{Confidence: types.ConfidenceLow},
	}

	stats := Tally(suggestions)

	if stats.Total != 4 || stats.High != 2 || stats.Medium != 1 || stats.Low != 1 {
		t.Errorf("stats = %+v, want total 4 / high 2 / medium 1 / low 1", stats)
	}
}
