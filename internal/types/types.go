package types

import (
	"fmt"
	"time"
)

// Record is a free-form entry owned by the backing store: a stable id plus a
// bag of named fields. Records of the same kind are homogeneous in which
// fields make sense to compare and merge (e.g. every client has a "name").
//
// The engine never invents or deletes ids except as a consequence of a merge.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Field returns the string value of a named field, or "" if the field is
// absent or not a string. Missing comparison fields score 0 against anything
// non-empty, so degrading to "" is the right behavior for the scorer.
func (r *Record) Field(name string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	if v, ok := r.Fields[name].(string); ok {
		return v
	}
	return ""
}

// SetField sets a field value, allocating the field map if needed.
func (r *Record) SetField(name string, value any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[name] = value
}

// Clone returns a deep copy of the record. Absorbed records are deleted during
// a merge, so their snapshots must not share structure with store-owned maps.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{
		ID:     r.ID,
		Fields: deepCopyFields(r.Fields),
	}
}

func deepCopyFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyFields(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		// Scalars (string, float64, bool, nil) are immutable
		return v
	}
}

// Kind identifies a record collection in the backing store.
type Kind string

const (
	KindClient      Kind = "client"
	KindService     Kind = "service"
	KindAppointment Kind = "appointment"
)

// IsValid checks if the kind value is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindClient, KindService, KindAppointment:
		return true
	}
	return false
}

// IsMergeable reports whether records of this kind may be unified.
// Appointments are dependent records; they are rewritten, never merged.
func (k Kind) IsMergeable() bool {
	return k == KindClient || k == KindService
}

// Relationship declares that records of DependentKind reference records of
// Kind through the named foreign-key field.
type Relationship struct {
	Kind          Kind   `json:"kind"`
	DependentKind Kind   `json:"dependent_kind"`
	ForeignField  string `json:"foreign_field"`
}

// DefaultRelationships returns the dependent-record registry for the
// appointment book: appointments point at a client and at a service type.
func DefaultRelationships() []Relationship {
	return []Relationship{
		{Kind: KindClient, DependentKind: KindAppointment, ForeignField: "client_id"},
		{Kind: KindService, DependentKind: KindAppointment, ForeignField: "service_id"},
	}
}

// Confidence is the coarse classification of a composite similarity score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// IsValid checks if the confidence value is valid
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// SimilarityMetrics is an immutable value describing one pairwise comparison.
// Score is the primary merge-candidacy signal: a weighted blend of the raw
// and normalized similarity percentages, rounded to an integer in [0, 100].
type SimilarityMetrics struct {
	// Score is round(Levenshtein*0.7 + Normalized*0.3)
	Score int `json:"score"`

	// Exact is true when the raw strings are byte-identical
	Exact bool `json:"exact"`

	// Levenshtein is the edit-distance similarity percentage of the
	// case-folded inputs, two decimal places
	Levenshtein float64 `json:"levenshtein"`

	// Normalized is the same percentage after full normalization
	// (accents stripped, punctuation removed, whitespace collapsed)
	Normalized float64 `json:"normalized"`

	// Equivalent is true when the normalized forms are equal or at least
	// 85% similar
	Equivalent bool `json:"equivalent"`

	Confidence Confidence `json:"confidence"`
}

// Validate checks if the metrics have coherent values
func (m *SimilarityMetrics) Validate() error {
	if m.Score < 0 || m.Score > 100 {
		return fmt.Errorf("score must be between 0 and 100 (got %d)", m.Score)
	}
	if m.Levenshtein < 0 || m.Levenshtein > 100 {
		return fmt.Errorf("levenshtein similarity must be between 0 and 100 (got %.2f)", m.Levenshtein)
	}
	if m.Normalized < 0 || m.Normalized > 100 {
		return fmt.Errorf("normalized similarity must be between 0 and 100 (got %.2f)", m.Normalized)
	}
	if !m.Confidence.IsValid() {
		return fmt.Errorf("invalid confidence: %s", m.Confidence)
	}
	return nil
}

// Cluster groups one principal record with the candidates judged similar to
// it during a single clustering run. Metrics[i] describes Candidates[i]
// compared against the principal. A record appears in at most one cluster
// per run.
type Cluster struct {
	Principal  *Record             `json:"principal"`
	Candidates []*Record           `json:"candidates"`
	Metrics    []SimilarityMetrics `json:"metrics"`
}

// Validate checks if the cluster has coherent values
func (c *Cluster) Validate() error {
	if c.Principal == nil {
		return fmt.Errorf("principal is required")
	}
	if len(c.Candidates) == 0 {
		return fmt.Errorf("cluster must have at least one candidate")
	}
	if len(c.Candidates) != len(c.Metrics) {
		return fmt.Errorf("candidates (%d) and metrics (%d) must have the same length",
			len(c.Candidates), len(c.Metrics))
	}
	return nil
}

// SuggestionStatus tracks the review state of a suggestion. Transitions
// happen only through explicit caller action; suggestions are never persisted.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// IsValid checks if the suggestion status value is valid
func (s SuggestionStatus) IsValid() bool {
	switch s {
	case SuggestionPending, SuggestionApproved, SuggestionRejected:
		return true
	}
	return false
}

// Suggestion is a user-reviewable merge proposal: a cluster wrapped with an
// identifier unique within the run, the comparison field used, and an
// aggregate confidence derived from the mean candidate score.
//
// Suggestions are ephemeral values recomputed on demand. They carry no
// durable identity across generation runs.
type Suggestion struct {
	ID          string           `json:"id"`
	Cluster     Cluster          `json:"cluster"`
	Field       string           `json:"field"`
	Confidence  Confidence       `json:"confidence"`
	GeneratedAt time.Time        `json:"generated_at"`
	Status      SuggestionStatus `json:"status"`
}

// Validate checks if the suggestion has coherent values
func (s *Suggestion) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("id is required")
	}
	if s.Field == "" {
		return fmt.Errorf("field is required")
	}
	if err := s.Cluster.Validate(); err != nil {
		return fmt.Errorf("invalid cluster: %w", err)
	}
	if !s.Confidence.IsValid() {
		return fmt.Errorf("invalid confidence: %s", s.Confidence)
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", s.Status)
	}
	return nil
}

// UnificationEvent is the persisted record of one completed merge. The
// absorbed snapshots hold the deleted records' full field state so undo can
// restore them; the principal snapshot is kept for display. Events are
// append-only; the only mutation ever applied is setting UndoneAt.
type UnificationEvent struct {
	ID                string     `json:"id"`
	Kind              Kind       `json:"kind"`
	Principal         *Record    `json:"principal"`
	Absorbed          []*Record  `json:"absorbed"`
	DependentsUpdated int        `json:"dependents_updated"`
	MergedAt          time.Time  `json:"merged_at"`
	UndoneAt          *time.Time `json:"undone_at,omitempty"`
}

// Undone reports whether this unification has already been reversed.
func (e *UnificationEvent) Undone() bool {
	return e.UndoneAt != nil
}

// Validate checks if the event has coherent values
func (e *UnificationEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !e.Kind.IsValid() || !e.Kind.IsMergeable() {
		return fmt.Errorf("invalid kind for unification: %s", e.Kind)
	}
	if e.Principal == nil || e.Principal.ID == "" {
		return fmt.Errorf("principal snapshot is required")
	}
	if len(e.Absorbed) == 0 {
		return fmt.Errorf("at least one absorbed snapshot is required")
	}
	for i, rec := range e.Absorbed {
		if rec == nil || rec.ID == "" {
			return fmt.Errorf("absorbed snapshot %d is missing an id", i)
		}
		if rec.ID == e.Principal.ID {
			return fmt.Errorf("principal %s cannot appear in its own absorbed set", e.Principal.ID)
		}
	}
	if e.DependentsUpdated < 0 {
		return fmt.Errorf("dependents_updated cannot be negative (got %d)", e.DependentsUpdated)
	}
	return nil
}

// MergeResult summarizes a successful unification.
type MergeResult struct {
	EventID           string `json:"event_id"`
	PrincipalID       string `json:"principal_id"`
	Removed           int    `json:"removed"`
	DependentsUpdated int    `json:"dependents_updated"`
}

// UndoResult summarizes a successful undo. Foreign keys reassigned by the
// original merge stay pointed at the principal; only record data comes back.
type UndoResult struct {
	EventID  string `json:"event_id"`
	Restored int    `json:"restored"`
}
