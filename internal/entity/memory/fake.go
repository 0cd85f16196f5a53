package memory

import (
	"context"
	"sync"

	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/model"
)

// Call records one request made against a Fake.
type Call struct {
	Op    entity.Op
	ID    string
	New   model.NewItem
	Patch model.Patch
}

// Fake wraps a memory client and lets tests force failures per operation.
// A forced Unsuccessful op returns Success: false without touching the store;
// a forced Err op returns the error.
type Fake struct {
	*entity.SnapshotClient

	mu           sync.Mutex
	calls        []Call
	Unsuccessful map[entity.Op]bool
	Err          map[entity.Op]error
}

var _ entity.ClientDeleter = (*Fake)(nil)

// NewFake returns a Fake seeded with items.
func NewFake(seed ...model.Item) *Fake {
	return &Fake{
		SnapshotClient: New(seed...),
		Unsuccessful:   map[entity.Op]bool{},
		Err:            map[entity.Op]error{},
	}
}

// Calls returns the requests made so far, in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) record(c Call) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.Unsuccessful[c.Op], f.Err[c.Op]
}

func (f *Fake) List(ctx context.Context) (entity.Response[[]model.Item], error) {
	fail, err := f.record(Call{Op: entity.OpList})
	if err != nil {
		return entity.Failed[[]model.Item](), err
	}
	if fail {
		return entity.Failed[[]model.Item](), nil
	}
	return f.SnapshotClient.List(ctx)
}

func (f *Fake) Create(ctx context.Context, in model.NewItem) (entity.Response[model.Item], error) {
	fail, err := f.record(Call{Op: entity.OpCreate, New: in})
	if err != nil {
		return entity.Failed[model.Item](), err
	}
	if fail {
		return entity.Failed[model.Item](), nil
	}
	return f.SnapshotClient.Create(ctx, in)
}

func (f *Fake) Update(ctx context.Context, id string, p model.Patch) (entity.Response[model.Item], error) {
	fail, err := f.record(Call{Op: entity.OpUpdate, ID: id, Patch: p})
	if err != nil {
		return entity.Failed[model.Item](), err
	}
	if fail {
		return entity.Failed[model.Item](), nil
	}
	return f.SnapshotClient.Update(ctx, id, p)
}

func (f *Fake) Delete(ctx context.Context, id string) (entity.Ack, error) {
	fail, err := f.record(Call{Op: entity.OpDelete, ID: id})
	if err != nil {
		return entity.Failed[struct{}](), err
	}
	if fail {
		return entity.Failed[struct{}](), nil
	}
	return f.SnapshotClient.Delete(ctx, id)
}

// ListOnly hides the delete capability of a client, for exercising callers
// that must skip the call when it is absent.
type ListOnly struct{ entity.Client }
