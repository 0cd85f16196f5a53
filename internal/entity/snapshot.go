package entity

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
)

// SnapshotStore reads and writes the whole list at once.
// A missing snapshot reads as an empty list.
type SnapshotStore interface {
	Read(ctx context.Context) ([]model.Item, error)
	Write(ctx context.Context, items []model.Item) error
}

// SnapshotClient implements ClientDeleter over a SnapshotStore: every call
// reads the list, applies one change and writes it back.
// No cross-process locking; fine for a local single-user store.
type SnapshotClient struct {
	store SnapshotStore
	newID func() string

	mu sync.Mutex
}

var _ ClientDeleter = (*SnapshotClient)(nil)

// NewSnapshotClient returns a client that assigns random UUIDs on create.
func NewSnapshotClient(store SnapshotStore) *SnapshotClient {
	return &SnapshotClient{store: store, newID: uuid.NewString}
}

// WithIDs replaces the id generator. Intended for tests.
func (c *SnapshotClient) WithIDs(gen func() string) *SnapshotClient {
	c.newID = gen
	return c
}

func (c *SnapshotClient) List(ctx context.Context) (Response[[]model.Item], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.store.Read(ctx)
	if err != nil {
		return Failed[[]model.Item](), fmt.Errorf("read snapshot: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return OK(items), nil
}

func (c *SnapshotClient) Create(ctx context.Context, in model.NewItem) (Response[model.Item], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.store.Read(ctx)
	if err != nil {
		return Failed[model.Item](), fmt.Errorf("read snapshot: %w", err)
	}
	it := model.Item{ID: c.newID(), Title: in.Title, Completed: in.Completed}
	items = append(items, it)
	if err := c.store.Write(ctx, items); err != nil {
		return Failed[model.Item](), fmt.Errorf("write snapshot: %w", err)
	}
	return OK(it), nil
}

func (c *SnapshotClient) Update(ctx context.Context, id string, p model.Patch) (Response[model.Item], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.store.Read(ctx)
	if err != nil {
		return Failed[model.Item](), fmt.Errorf("read snapshot: %w", err)
	}
	i := slices.IndexFunc(items, func(it model.Item) bool { return it.ID == id })
	if i < 0 {
		return Failed[model.Item](), nil
	}
	items[i] = p.Apply(items[i])
	if err := c.store.Write(ctx, items); err != nil {
		return Failed[model.Item](), fmt.Errorf("write snapshot: %w", err)
	}
	return OK(items[i]), nil
}

func (c *SnapshotClient) Delete(ctx context.Context, id string) (Ack, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.store.Read(ctx)
	if err != nil {
		return Failed[struct{}](), fmt.Errorf("read snapshot: %w", err)
	}
	i := slices.IndexFunc(items, func(it model.Item) bool { return it.ID == id })
	if i < 0 {
		return Failed[struct{}](), nil
	}
	items = slices.Delete(items, i, i+1)
	if err := c.store.Write(ctx, items); err != nil {
		return Failed[struct{}](), fmt.Errorf("write snapshot: %w", err)
	}
	return OK(struct{}{}), nil
}
