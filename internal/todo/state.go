// Package todo holds the view state of the todo list and the pure reducer
// that folds collaborator responses into it.
package todo

import (
	"fmt"
	"slices"

	"github.com/Makepad-fr/tada/internal/model"
)

// State is the local mirror of remote state plus the pending add text.
type State struct {
	Items   []model.Item
	Input   string
	Loading bool
}

// Remaining counts items not yet completed.
func (s State) Remaining() int {
	n := 0
	for _, it := range s.Items {
		if !it.Completed {
			n++
		}
	}
	return n
}

// Total is the list length.
func (s State) Total() int { return len(s.Items) }

// Summary is the footer label, e.g. "1 of 3 todos remaining".
func (s State) Summary() string {
	return fmt.Sprintf("%d of %d todos remaining", s.Remaining(), s.Total())
}

// Index returns the position of id in the list, or -1.
func (s State) Index(id string) int {
	return slices.IndexFunc(s.Items, func(it model.Item) bool { return it.ID == id })
}

// BeginLoad marks a load as in flight. Reducing the matching OpLoad result
// clears the flag on every outcome.
func BeginLoad(s State) State {
	s.Loading = true
	return s
}

// Level grades a Notice.
type Level int

const (
	LevelNone Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "none"
}

// Notice is the transient user-visible message produced by an action.
type Notice struct {
	Level Level
	Text  string
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool { return n.Level == LevelNone }

// Notice texts.
const (
	MsgLoadFailed   = "Failed to load todos"
	MsgEmptyTitle   = "Please enter a todo item"
	MsgAdded        = "Todo added successfully"
	MsgAddFailed    = "Failed to add todo"
	MsgUpdateFailed = "Failed to update todo"
	MsgDeleted      = "Todo deleted successfully"
	MsgDeleteFailed = "Failed to delete todo"
)
