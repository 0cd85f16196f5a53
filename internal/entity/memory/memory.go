// Package memory is an in-process entity store. It backs the "memory"
// backend and doubles as the fake collaborator in tests.
package memory

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/model"
)

// Snapshot keeps the list in memory. Read and Write copy so callers never
// share the backing array.
type Snapshot struct {
	mu    sync.Mutex
	items []model.Item
}

func (s *Snapshot) Read(context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}

func (s *Snapshot) Write(_ context.Context, items []model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
	return nil
}

// New returns a client seeded with items. IDs of created items are
// sequential decimal strings continuing after the highest numeric seed ID.
func New(seed ...model.Item) *entity.SnapshotClient {
	snap := &Snapshot{items: slices.Clone(seed)}
	next := 0
	for _, it := range seed {
		if n, err := strconv.Atoi(it.ID); err == nil && n > next {
			next = n
		}
	}
	var mu sync.Mutex
	return entity.NewSnapshotClient(snap).WithIDs(func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return strconv.Itoa(next)
	})
}
