// internal/journal/journal.go
package journal

import (
	"context"

	"github.com/shrimpsizemoose/fusionx/internal/models"
)

// Journal is an outbound log of activities. Nothing in the core reads it back to
// rebuild state.
type Journal interface {
	Record(ctx context.Context, acts []models.Activity) error
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
	Close() error
}

type Nop struct{}

func (Nop) Record(context.Context, []models.Activity) error { return nil }

func (Nop) Recent(context.Context, int) ([]models.Activity, error) {
	return []models.Activity{}, nil
}

func (Nop) Close() error { return nil }

// Memory keeps activities in a slice. Callers serialize access.
type Memory struct {
	acts []models.Activity
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, acts []models.Activity) error {
	m.acts = append(m.acts, acts...)
	return nil
}

// Recent returns the newest activities first.
func (m *Memory) Recent(_ context.Context, limit int) ([]models.Activity, error) {
	out := []models.Activity{}
	for i := len(m.acts) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.acts[i])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
