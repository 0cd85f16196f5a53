package entity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/entity/memory"
	"github.com/Makepad-fr/tada/internal/model"
)

func TestSnapshotClient_CRUD(t *testing.T) {
	ctx := context.Background()
	c := memory.New()

	resp, err := c.List(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)

	a, err := c.Create(ctx, model.NewItem{Title: "Buy milk"})
	require.NoError(t, err)
	require.True(t, a.Success)
	b, err := c.Create(ctx, model.NewItem{Title: "Walk dog"})
	require.NoError(t, err)
	assert.NotEqual(t, a.Data.ID, b.Data.ID)

	up, err := c.Update(ctx, a.Data.ID, model.SetCompleted(true))
	require.NoError(t, err)
	require.True(t, up.Success)
	assert.Equal(t, model.Item{ID: a.Data.ID, Title: "Buy milk", Completed: true}, up.Data)

	del, err := c.Delete(ctx, b.Data.ID)
	require.NoError(t, err)
	assert.True(t, del.Success)

	resp, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{up.Data}, resp.Data)
}

func TestSnapshotClient_UnknownIDIsUnsuccessful(t *testing.T) {
	ctx := context.Background()
	c := memory.New(model.Item{ID: "1", Title: "Buy milk"})

	up, err := c.Update(ctx, "nope", model.SetCompleted(true))
	require.NoError(t, err)
	assert.False(t, up.Success)

	del, err := c.Delete(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, del.Success)
}

func TestSnapshotClient_EmptyPatchKeepsItem(t *testing.T) {
	c := memory.New(model.Item{ID: "1", Title: "Buy milk", Completed: true})
	up, err := c.Update(context.Background(), "1", model.Patch{})
	require.NoError(t, err)
	assert.True(t, up.Data.Completed)
}

type brokenStore struct{ err error }

func (b brokenStore) Read(context.Context) ([]model.Item, error) { return nil, b.err }
func (b brokenStore) Write(context.Context, []model.Item) error  { return b.err }

func TestSnapshotClient_StoreErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	c := entity.NewSnapshotClient(brokenStore{err: boom})
	ctx := context.Background()

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = c.Create(ctx, model.NewItem{Title: "x"})
	assert.ErrorIs(t, err, boom)
	_, err = c.Update(ctx, "1", model.Patch{})
	assert.ErrorIs(t, err, boom)
	_, err = c.Delete(ctx, "1")
	assert.ErrorIs(t, err, boom)
}

func TestSnapshotClient_DefaultIDsAreUUIDs(t *testing.T) {
	c := entity.NewSnapshotClient(&memory.Snapshot{})
	resp, err := c.Create(context.Background(), model.NewItem{Title: "x"})
	require.NoError(t, err)
	assert.Len(t, resp.Data.ID, 36)
}
