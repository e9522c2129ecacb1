// Package seed loads a small demonstration data set, including deliberate
// near-duplicates, so a fresh project has something for the suggestion
// pipeline to chew on.
package seed

import (
	"context"
	"fmt"

	"github.com/atelieapp/unify/internal/storage"
	"github.com/atelieapp/unify/internal/types"
)

type entry struct {
	kind   types.Kind
	id     string
	fields map[string]any
}

// sample mirrors a typical small salon: a handful of clients and services,
// several of them duplicated through casing, accent, and spacing slips.
var sample = []entry{
	{types.KindClient, "c1", map[string]any{"name": "Maria Silva", "phone": "11 98888-0001"}},
	{types.KindClient, "c2", map[string]any{"name": "maria silva", "phone": "11 98888-0001"}},
	{types.KindClient, "c3", map[string]any{"name": "Maria  Silva", "phone": ""}},
	{types.KindClient, "c4", map[string]any{"name": "João Oliveira", "phone": "11 97777-0002"}},
	{types.KindClient, "c5", map[string]any{"name": "Joao Oliveira", "phone": ""}},
	{types.KindClient, "c6", map[string]any{"name": "Ana Beatriz Costa", "phone": "11 96666-0003"}},

	{types.KindService, "s1", map[string]any{"name": "Consulta", "price": 120.0}},
	{types.KindService, "s2", map[string]any{"name": "consulta", "price": 120.0}},
	{types.KindService, "s3", map[string]any{"name": "CONSULTA", "price": 110.0}},
	{types.KindService, "s4", map[string]any{"name": "Exame", "price": 200.0}},
	{types.KindService, "s5", map[string]any{"name": "Retorno", "price": 0.0}},
	{types.KindService, "s6", map[string]any{"name": "Procedimento", "price": 350.0}},

	{types.KindAppointment, "a1", map[string]any{"client_id": "c1", "service_id": "s1", "date": "2026-03-02"}},
	{types.KindAppointment, "a2", map[string]any{"client_id": "c2", "service_id": "s2", "date": "2026-03-09"}},
	{types.KindAppointment, "a3", map[string]any{"client_id": "c4", "service_id": "s4", "date": "2026-03-10"}},
	{types.KindAppointment, "a4", map[string]any{"client_id": "c5", "service_id": "s3", "date": "2026-03-12"}},
	{types.KindAppointment, "a5", map[string]any{"client_id": "c6", "service_id": "s6", "date": "2026-03-15"}},
}

// Load inserts the sample data set. Records whose ids already exist are
// skipped, so running it twice is harmless. Returns counts per kind.
func Load(ctx context.Context, store storage.Storage) (map[types.Kind]int, error) {
	counts := make(map[types.Kind]int)

	for _, e := range sample {
		existing, err := store.GetByID(ctx, e.kind, e.id)
		if err != nil {
			return counts, fmt.Errorf("failed to check %s %s: %w", e.kind, e.id, err)
		}
		if existing != nil {
			continue
		}

		fields := make(map[string]any, len(e.fields))
		for k, v := range e.fields {
			fields[k] = v
		}
		if _, err := store.AddRecord(ctx, e.kind, &types.Record{ID: e.id, Fields: fields}); err != nil {
			return counts, fmt.Errorf("failed to seed %s %s: %w", e.kind, e.id, err)
		}
		counts[e.kind]++
	}

	return counts, nil
}
