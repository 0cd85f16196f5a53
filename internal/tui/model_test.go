package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/entity/memory"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// send delivers k and drops whatever command it yields.
func send(m Model, k tea.KeyMsg) Model {
	next, _ := m.Update(k)
	return next.(Model)
}

// call delivers k, runs the controller command it yields and feeds the
// result back, like the Bubble Tea runtime would.
func call(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, resultMsg{}, msg)
	next, _ = next.(Model).Update(msg)
	return next.(Model)
}

func loaded(t *testing.T, items ...model.Item) (Model, *memory.Fake) {
	t.Helper()
	fake := memory.NewFake(items...)
	m := New(context.Background(), todo.NewController(fake))
	require.True(t, m.State().Loading)
	next, _ := m.Update(m.loadCmd()())
	m = next.(Model)
	require.False(t, m.State().Loading)
	return m, fake
}

func TestModel_ShowsLoadedRowsAndSummary(t *testing.T) {
	m, _ := loaded(t, model.Item{ID: "1", Title: "Buy milk", Completed: false})

	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "☐")
	assert.Contains(t, view, "1 of 1 todos remaining")
	assert.Len(t, m.list.Items(), 1)
}

func TestModel_RowsFollowRemoteOrder(t *testing.T) {
	m, _ := loaded(t,
		model.Item{ID: "b", Title: "Second"},
		model.Item{ID: "a", Title: "First"},
		model.Item{ID: "c", Title: "Third", Completed: true},
	)
	view := m.View()
	i, j, k := strings.Index(view, "Second"), strings.Index(view, "First"), strings.Index(view, "Third")
	require.True(t, i >= 0 && j >= 0 && k >= 0)
	assert.Less(t, i, j)
	assert.Less(t, j, k)
	assert.Contains(t, view, "2 of 3 todos remaining")
}

func TestModel_EmptyListText(t *testing.T) {
	m, _ := loaded(t)
	assert.Contains(t, m.View(), emptyText)
	assert.Contains(t, m.View(), "0 of 0 todos remaining")
}

func TestModel_LoadFailureShowsError(t *testing.T) {
	fake := memory.NewFake(model.Item{ID: "1", Title: "Buy milk"})
	fake.Err[entity.OpList] = errors.New("offline")
	m := New(context.Background(), todo.NewController(fake))
	next, _ := m.Update(m.loadCmd()())
	m = next.(Model)

	assert.False(t, m.State().Loading)
	assert.Equal(t, todo.Notice{Level: todo.LevelError, Text: todo.MsgLoadFailed}, m.Notice())
	assert.Contains(t, m.View(), todo.MsgLoadFailed)
	assert.Contains(t, m.View(), emptyText)
}

func TestModel_AddFlow(t *testing.T) {
	m, fake := loaded(t, model.Item{ID: "1", Title: "Buy milk"})

	m = send(m, keyRunes("a"))
	require.True(t, m.adding)
	m = send(m, keyRunes("Call mom"))
	assert.Equal(t, "Call mom", m.State().Input)

	m = call(t, m, keyEnter)
	assert.False(t, m.adding)
	assert.Empty(t, m.State().Input)
	require.Equal(t, 2, m.State().Total())
	assert.Equal(t, model.Item{ID: "2", Title: "Call mom"}, m.State().Items[1])
	assert.Equal(t, todo.LevelSuccess, m.Notice().Level)
	assert.Contains(t, m.View(), "2 of 2 todos remaining")

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, entity.OpCreate, calls[1].Op)
}

func TestModel_AddBlankWarnsWithoutCall(t *testing.T) {
	m, fake := loaded(t, model.Item{ID: "1", Title: "Buy milk"})

	m = send(m, keyRunes("a"))
	m = send(m, keyRunes("   "))
	m = call(t, m, keyEnter)

	assert.True(t, m.adding, "input stays open after a rejected add")
	assert.Equal(t, todo.Notice{Level: todo.LevelWarning, Text: todo.MsgEmptyTitle}, m.Notice())
	assert.Equal(t, 1, m.State().Total())
	assert.Len(t, fake.Calls(), 1) // the initial list only
}

func TestModel_AddFailureKeepsInput(t *testing.T) {
	m, fake := loaded(t)
	fake.Unsuccessful[entity.OpCreate] = true

	m = send(m, keyRunes("a"))
	m = send(m, keyRunes("Call mom"))
	m = call(t, m, keyEnter)

	assert.True(t, m.adding)
	assert.Equal(t, "Call mom", m.State().Input)
	assert.Equal(t, 0, m.State().Total())
	assert.Equal(t, todo.LevelError, m.Notice().Level)
}

func TestModel_EscCancelsAdd(t *testing.T) {
	m, _ := loaded(t)
	m = send(m, keyRunes("a"))
	m = send(m, keyRunes("draft"))
	m = send(m, keyEsc)

	assert.False(t, m.adding)
	assert.Empty(t, m.State().Input)
}

func TestModel_ToggleSelected(t *testing.T) {
	m, fake := loaded(t,
		model.Item{ID: "1", Title: "Buy milk"},
		model.Item{ID: "2", Title: "Walk dog"},
	)

	m = call(t, m, keySpace)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, entity.OpUpdate, calls[1].Op)
	assert.Equal(t, "1", calls[1].ID)
	require.NotNil(t, calls[1].Patch.Completed)
	assert.True(t, *calls[1].Patch.Completed)

	assert.True(t, m.State().Items[0].Completed)
	assert.False(t, m.State().Items[1].Completed)
	assert.Contains(t, m.View(), "1 of 2 todos remaining")
	assert.Contains(t, m.View(), "☑")
}

func TestModel_ToggleFailureLeavesRow(t *testing.T) {
	m, fake := loaded(t, model.Item{ID: "1", Title: "Buy milk"})
	fake.Unsuccessful[entity.OpUpdate] = true

	m = call(t, m, keySpace)
	assert.False(t, m.State().Items[0].Completed)
	assert.Equal(t, todo.Notice{Level: todo.LevelError, Text: todo.MsgUpdateFailed}, m.Notice())
}

func TestModel_DeleteRemovesEvenWhenUnsuccessful(t *testing.T) {
	m, fake := loaded(t,
		model.Item{ID: "1", Title: "Buy milk"},
		model.Item{ID: "2", Title: "Walk dog"},
	)
	fake.Unsuccessful[entity.OpDelete] = true

	m = call(t, m, keyRunes("d"))

	require.Equal(t, 1, m.State().Total())
	assert.Equal(t, "2", m.State().Items[0].ID)
	assert.NotContains(t, m.View(), "Buy milk")
	assert.Contains(t, m.View(), "1 of 1 todos remaining")
}

func TestModel_DeleteErrorKeepsRow(t *testing.T) {
	m, fake := loaded(t, model.Item{ID: "1", Title: "Buy milk"})
	fake.Err[entity.OpDelete] = errors.New("network down")

	m = call(t, m, keyRunes("d"))

	assert.Equal(t, 1, m.State().Total())
	assert.Contains(t, m.View(), "Buy milk")
	assert.Equal(t, todo.Notice{Level: todo.LevelError, Text: todo.MsgDeleteFailed}, m.Notice())
}

func TestModel_DeleteLastKeepsSelectionInRange(t *testing.T) {
	m, _ := loaded(t,
		model.Item{ID: "1", Title: "Buy milk"},
		model.Item{ID: "2", Title: "Walk dog"},
	)
	m.list.Select(1)
	m = call(t, m, keyRunes("d"))
	assert.Equal(t, 0, m.list.Index())
	_, ok := m.selected()
	assert.True(t, ok)
}

func TestModel_NoticeExpiresBySequence(t *testing.T) {
	m, _ := loaded(t)
	m = send(m, keyRunes("a"))
	m = call(t, m, keyEnter)
	require.False(t, m.Notice().Empty())

	next, _ := m.Update(clearNoticeMsg{seq: m.noticeSeq - 1})
	m = next.(Model)
	assert.False(t, m.Notice().Empty(), "stale timer must not clear a newer notice")

	next, _ = m.Update(clearNoticeMsg{seq: m.noticeSeq})
	m = next.(Model)
	assert.True(t, m.Notice().Empty())
}

func TestModel_ReloadPicksUpRemoteChanges(t *testing.T) {
	m, fake := loaded(t)
	_, err := fake.Create(context.Background(), model.NewItem{Title: "From elsewhere"})
	require.NoError(t, err)

	m = send(m, keyRunes("r"))
	require.True(t, m.State().Loading)
	next, _ := m.Update(m.loadCmd()())
	m = next.(Model)
	assert.False(t, m.State().Loading)
	assert.Equal(t, 1, m.State().Total())
}

func TestModel_Quit(t *testing.T) {
	m, _ := loaded(t)
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestBanner(t *testing.T) {
	m, _ := loaded(t)

	wrapped := Banner("Sponsored by tada")(m)
	assert.Contains(t, wrapped.View(), "Sponsored by tada")

	next, _ := wrapped.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.IsType(t, bannerModel{}, next)
	assert.Contains(t, next.View(), "Sponsored by tada")

	assert.Equal(t, m.View(), Banner("")(m).View())
	assert.Equal(t, m.View(), NoWrap(m).View())
}
