package cluster

import (
	"testing"

	"github.com/atelieapp/unify/internal/types"
)

func rec(id, name string) *types.Record {
	return &types.Record{ID: id, Fields: map[string]any{"name": name}}
}

func TestBuildGroupsNearDuplicates(t *testing.T) {
	records := []*types.Record{
		rec("1", "João Silva"),
		rec("2", "João da Silva"),
		rec("3", "Maria Santos"),
	}

	clusters := Build(records, "name", 70)

	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if c.Principal.ID != "1" {
		t.Errorf("principal = %s, want 1", c.Principal.ID)
	}
	if len(c.Candidates) != 1 || c.Candidates[0].ID != "2" {
		t.Fatalf("expected candidate [2], got %v", ids(c.Candidates))
	}
	if len(c.Metrics) != 1 {
		t.Fatalf("expected 1 metrics entry, got %d", len(c.Metrics))
	}
	if c.Metrics[0].Score < 70 {
		t.Errorf("candidate score %d below threshold", c.Metrics[0].Score)
	}
}

func TestBuildCaseVariantsFormOneCluster(t *testing.T) {
	records := []*types.Record{
		rec("a", "Consulta"),
		rec("b", "consulta"),
		rec("c", "CONSULTA"),
	}

	clusters := Build(records, "name", 70)

	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if c.Principal.ID != "a" {
		t.Errorf("principal = %s, want a", c.Principal.ID)
	}
	if got := ids(c.Candidates); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("candidates = %v, want [b c]", got)
	}
}

func TestBuildExactDuplicatesAtMaxThreshold(t *testing.T) {
	records := []*types.Record{
		rec("1", "Exame"),
		rec("2", "Exame"),
	}

	clusters := Build(records, "name", 100)

	if len(clusters) != 1 {
		t.Fatalf("exact duplicates must cluster at threshold 100, got %d clusters", len(clusters))
	}
	if clusters[0].Metrics[0].Score != 100 {
		t.Errorf("score = %d, want 100", clusters[0].Metrics[0].Score)
	}
}

func TestBuildFirstEncounteredWins(t *testing.T) {
	// "Ana Lima" matches both principals; the greedy pass assigns it to the
	// first one reached in list order, regardless of which fits better.
	records := []*types.Record{
		rec("1", "Ana Limma"),
		rec("2", "Ana Lima"),
		rec("3", "Ana Lima"),
	}

	clusters := Build(records, "name", 70)

	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Principal.ID != "1" {
		t.Errorf("principal = %s, want first-encountered record 1", clusters[0].Principal.ID)
	}
	if got := ids(clusters[0].Candidates); len(got) != 2 {
		t.Errorf("candidates = %v, want both later records", got)
	}
}

func TestBuildDeterministicForFixedOrder(t *testing.T) {
	records := []*types.Record{
		rec("1", "Corte"),
		rec("2", "corte"),
		rec("3", "Coloração"),
		rec("4", "coloracao"),
	}

	first := Build(records, "name", 75)
	second := Build(records, "name", 75)

	if len(first) != len(second) {
		t.Fatalf("cluster counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Principal.ID != second[i].Principal.ID {
			t.Errorf("cluster %d principal differs between runs", i)
		}
	}
}

func TestBuildRecordInAtMostOneCluster(t *testing.T) {
	records := []*types.Record{
		rec("1", "Manicure"),
		rec("2", "manicure"),
		rec("3", "Manicure "),
		rec("4", "Pedicure"),
		rec("5", "pedicure"),
	}

	clusters := Build(records, "name", 75)

	seen := make(map[string]int)
	for _, c := range clusters {
		seen[c.Principal.ID]++
		for _, cand := range c.Candidates {
			seen[cand.ID]++
		}
	}
	for id, count := range seen {
		if count > 1 {
			t.Errorf("record %s appears in %d clusters", id, count)
		}
	}
}

func TestBuildEdgeCases(t *testing.T) {
	records := []*types.Record{rec("1", "Consulta"), rec("2", "consulta")}

	if got := Build(nil, "name", 70); got != nil {
		t.Errorf("nil records should yield nil, got %v", got)
	}
	if got := Build(records, "", 70); got != nil {
		t.Errorf("empty field should yield nil, got %v", got)
	}
	if got := Build(records, "name", -1); got != nil {
		t.Errorf("negative threshold should yield nil, got %v", got)
	}
	if got := Build(records, "name", 101); got != nil {
		t.Errorf("threshold above 100 should yield nil, got %v", got)
	}

	// Records with no duplicate are omitted entirely
	lonely := []*types.Record{rec("1", "Consulta"), rec("2", "Festa")}
	if got := Build(lonely, "name", 70); len(got) != 0 {
		t.Errorf("expected no clusters for dissimilar records, got %d", len(got))
	}
}

func TestBuildBlankFieldsDoNotCluster(t *testing.T) {
	// Blank comparison fields score 0 against everything including each
	// other, so they never generate merge noise at a positive threshold.
	records := []*types.Record{rec("1", ""), rec("2", ""), rec("3", "Consulta")}

	if got := Build(records, "name", 70); len(got) != 0 {
		t.Errorf("blank fields must not cluster, got %d clusters", len(got))
	}
}

func ids(records []*types.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
