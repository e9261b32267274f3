package tabular

import (
	"context"
	"sync"
)

// MemoryTable is a process-local table, used by the memory backend and in tests.
type MemoryTable[T any] struct {
	mu   sync.RWMutex
	rows []T
}

// NewMemoryTable returns a table seeded with rows.
func NewMemoryTable[T any](rows ...T) *MemoryTable[T] {
	return &MemoryTable[T]{rows: append([]T(nil), rows...)}
}

func (t *MemoryTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]T(nil), t.rows...), nil
}

func (t *MemoryTable[T]) SaveAll(ctx context.Context, rows []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append([]T(nil), rows...)
	return nil
}
