package todo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

func seed() []model.Item {
	return []model.Item{
		{ID: "1", Title: "Buy milk", Completed: false},
		{ID: "2", Title: "Walk dog", Completed: true},
		{ID: "3", Title: "Write report", Completed: false},
	}
}

func TestReduce_LoadReplacesItemsInOrder(t *testing.T) {
	s := BeginLoad(State{Items: []model.Item{{ID: "old", Title: "stale"}}})
	require.True(t, s.Loading)

	next, n := Reduce(s, Result{Op: OpLoad, Items: seed(), Success: true})

	assert.False(t, next.Loading)
	assert.True(t, n.Empty())
	require.Len(t, next.Items, 3)
	for i, it := range seed() {
		assert.Equal(t, it, next.Items[i])
	}
}

func TestReduce_LoadFailureKeepsStateAndClearsLoading(t *testing.T) {
	tests := []struct {
		name string
		r    Result
	}{
		{"unsuccessful", Result{Op: OpLoad, Items: seed(), Success: false}},
		{"error", Result{Op: OpLoad, Err: errors.New("boom")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, n := Reduce(BeginLoad(State{}), tt.r)
			assert.False(t, next.Loading)
			assert.Empty(t, next.Items)
			assert.Equal(t, Notice{LevelError, MsgLoadFailed}, n)
		})
	}
}

func TestReduce_AddRejectedLeavesListAlone(t *testing.T) {
	s := State{Items: seed(), Input: "   "}
	next, n := Reduce(s, Result{Op: OpAdd, Rejected: true})
	assert.Equal(t, Notice{LevelWarning, MsgEmptyTitle}, n)
	assert.Len(t, next.Items, 3)
	assert.Equal(t, "   ", next.Input)
}

func TestReduce_AddAppendsAndClearsInput(t *testing.T) {
	s := State{Items: seed(), Input: "Call mom"}
	created := model.Item{ID: "4", Title: "Call mom"}

	next, n := Reduce(s, Result{Op: OpAdd, Item: created, Success: true})

	assert.Equal(t, Notice{LevelSuccess, MsgAdded}, n)
	require.Len(t, next.Items, 4)
	assert.Equal(t, created, next.Items[3])
	assert.False(t, next.Items[3].Completed)
	assert.Empty(t, next.Input)
	assert.Len(t, s.Items, 3, "input state must not be mutated")
}

func TestReduce_AddFailureKeepsInput(t *testing.T) {
	for _, r := range []Result{
		{Op: OpAdd, Success: false},
		{Op: OpAdd, Err: errors.New("offline")},
	} {
		next, n := Reduce(State{Items: seed(), Input: "Call mom"}, r)
		assert.Equal(t, Notice{LevelError, MsgAddFailed}, n)
		assert.Len(t, next.Items, 3)
		assert.Equal(t, "Call mom", next.Input)
	}
}

func TestReduce_ToggleFlipsOnlyTarget(t *testing.T) {
	s := State{Items: seed()}
	next, n := Reduce(s, Result{Op: OpToggle, ID: "1", Completed: true, Success: true})

	assert.True(t, n.Empty())
	assert.True(t, next.Items[0].Completed)
	assert.Equal(t, s.Items[1], next.Items[1])
	assert.Equal(t, s.Items[2], next.Items[2])
	assert.False(t, s.Items[0].Completed, "input state must not be mutated")
}

func TestReduce_ToggleFailureLeavesState(t *testing.T) {
	for _, r := range []Result{
		{Op: OpToggle, ID: "1", Completed: true},
		{Op: OpToggle, ID: "1", Completed: true, Success: true, Err: errors.New("boom")},
	} {
		next, n := Reduce(State{Items: seed()}, r)
		assert.Equal(t, Notice{LevelError, MsgUpdateFailed}, n)
		assert.Equal(t, seed(), next.Items)
	}
}

// Delete removes locally once the call resolves, whatever its success flag.
func TestReduce_RemoveIgnoresSuccessFlag(t *testing.T) {
	tests := []struct {
		name   string
		r      Result
		notice Notice
	}{
		{"success", Result{Op: OpRemove, ID: "2", Success: true}, Notice{LevelSuccess, MsgDeleted}},
		{"reported failure", Result{Op: OpRemove, ID: "2", Success: false}, Notice{LevelSuccess, MsgDeleted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, n := Reduce(State{Items: seed()}, tt.r)
			assert.Equal(t, tt.notice, n)
			require.Len(t, next.Items, 2)
			assert.Equal(t, -1, next.Index("2"))
			assert.Equal(t, []string{"1", "3"}, []string{next.Items[0].ID, next.Items[1].ID})
		})
	}
}

func TestReduce_RemoveErrorKeepsRow(t *testing.T) {
	next, n := Reduce(State{Items: seed()}, Result{Op: OpRemove, ID: "2", Err: errors.New("boom")})
	assert.Equal(t, Notice{LevelError, MsgDeleteFailed}, n)
	assert.Equal(t, seed(), next.Items)
}

func TestState_CountsFollowEveryMutation(t *testing.T) {
	s := State{}
	assert.Equal(t, "0 of 0 todos remaining", s.Summary())

	s, _ = Reduce(BeginLoad(s), Result{Op: OpLoad, Success: true, Items: []model.Item{{ID: "1", Title: "Buy milk"}}})
	assert.Equal(t, 1, s.Remaining())
	assert.Equal(t, 1, s.Total())
	assert.Equal(t, "1 of 1 todos remaining", s.Summary())

	s, _ = Reduce(s, Result{Op: OpAdd, Success: true, Item: model.Item{ID: "2", Title: "Walk dog"}})
	assert.Equal(t, "2 of 2 todos remaining", s.Summary())

	s, _ = Reduce(s, Result{Op: OpToggle, ID: "1", Completed: true, Success: true})
	assert.Equal(t, "1 of 2 todos remaining", s.Summary())

	s, _ = Reduce(s, Result{Op: OpRemove, ID: "2"})
	assert.Equal(t, "0 of 1 todos remaining", s.Summary())
}
