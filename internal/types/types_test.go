package types

import (
	"testing"
	"time"
)

func TestRecordField(t *testing.T) {
	rec := &Record{ID: "r1", Fields: map[string]any{
		"name":  "Maria Silva",
		"visits": float64(3),
	}}

	if got := rec.Field("name"); got != "Maria Silva" {
		t.Errorf("Field(name) = %q, want %q", got, "Maria Silva")
	}
	if got := rec.Field("missing"); got != "" {
		t.Errorf("Field(missing) = %q, want empty", got)
	}
	// Non-string values degrade to empty rather than panic
	if got := rec.Field("visits"); got != "" {
		t.Errorf("Field(visits) = %q, want empty", got)
	}

	var nilRec *Record
	if got := nilRec.Field("name"); got != "" {
		t.Errorf("nil record Field = %q, want empty", got)
	}
}

func TestRecordClone(t *testing.T) {
	rec := &Record{ID: "r1", Fields: map[string]any{
		"name": "João Oliveira",
		"contact": map[string]any{
			"email": "joao@example.com",
		},
		"tags": []any{"vip"},
	}}

	clone := rec.Clone()

	if clone.ID != rec.ID {
		t.Errorf("clone ID = %q, want %q", clone.ID, rec.ID)
	}

	// Mutating the clone must not leak into the original
	clone.Fields["name"] = "changed"
	clone.Fields["contact"].(map[string]any)["email"] = "other@example.com"
	clone.Fields["tags"].([]any)[0] = "regular"

	if rec.Fields["name"] != "João Oliveira" {
		t.Errorf("original name mutated: %v", rec.Fields["name"])
	}
	if rec.Fields["contact"].(map[string]any)["email"] != "joao@example.com" {
		t.Errorf("original nested map mutated")
	}
	if rec.Fields["tags"].([]any)[0] != "vip" {
		t.Errorf("original slice mutated")
	}
}

func TestKindValidation(t *testing.T) {
	if !KindClient.IsValid() || !KindService.IsValid() || !KindAppointment.IsValid() {
		t.Error("expected built-in kinds to be valid")
	}
	if Kind("employee").IsValid() {
		t.Error("unknown kind should be invalid")
	}
	if !KindClient.IsMergeable() || !KindService.IsMergeable() {
		t.Error("clients and services must be mergeable")
	}
	if KindAppointment.IsMergeable() {
		t.Error("appointments are dependent records, not merge targets")
	}
}

func TestDefaultRelationships(t *testing.T) {
	rels := DefaultRelationships()
	if len(rels) != 2 {
		t.Fatalf("expected 2 relationships, got %d", len(rels))
	}
	for _, rel := range rels {
		if rel.DependentKind != KindAppointment {
			t.Errorf("dependent kind = %s, want appointment", rel.DependentKind)
		}
		if rel.ForeignField == "" {
			t.Error("foreign field must be set")
		}
	}
}

func TestUnificationEventValidation(t *testing.T) {
	valid := func() UnificationEvent {
		return UnificationEvent{
			ID:        "evt-1",
			Kind:      KindClient,
			Principal: &Record{ID: "p1", Fields: map[string]any{"name": "Maria"}},
			Absorbed: []*Record{
				{ID: "a1", Fields: map[string]any{"name": "maria"}},
			},
			DependentsUpdated: 2,
			MergedAt:          time.Now(),
		}
	}

	tests := []struct {
		name        string
		mutate      func(*UnificationEvent)
		expectError bool
	}{
		{name: "valid event", mutate: func(e *UnificationEvent) {}, expectError: false},
		{name: "missing id", mutate: func(e *UnificationEvent) { e.ID = "" }, expectError: true},
		{name: "appointment kind", mutate: func(e *UnificationEvent) { e.Kind = KindAppointment }, expectError: true},
		{name: "missing principal", mutate: func(e *UnificationEvent) { e.Principal = nil }, expectError: true},
		{name: "empty absorbed", mutate: func(e *UnificationEvent) { e.Absorbed = nil }, expectError: true},
		{name: "principal in absorbed", mutate: func(e *UnificationEvent) {
			e.Absorbed = append(e.Absorbed, &Record{ID: "p1"})
		}, expectError: true},
		{name: "negative dependent count", mutate: func(e *UnificationEvent) { e.DependentsUpdated = -1 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := valid()
			tt.mutate(&event)
			err := event.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSuggestionValidation(t *testing.T) {
	sug := Suggestion{
		ID: "suggestion_0_1700000000000",
		Cluster: Cluster{
			Principal:  &Record{ID: "p1"},
			Candidates: []*Record{{ID: "c1"}},
			Metrics:    []SimilarityMetrics{{Score: 90, Confidence: ConfidenceHigh}},
		},
		Field:       "name",
		Confidence:  ConfidenceHigh,
		GeneratedAt: time.Now(),
		Status:      SuggestionPending,
	}
	if err := sug.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	sug.Cluster.Metrics = nil
	if err := sug.Validate(); err == nil {
		t.Error("expected error for mismatched candidates/metrics")
	}
}

func TestEventUndone(t *testing.T) {
	event := UnificationEvent{}
	if event.Undone() {
		t.Error("event without undone_at should not be undone")
	}
	now := time.Now()
	event.UndoneAt = &now
	if !event.Undone() {
		t.Error("event with undone_at should be undone")
	}
}
