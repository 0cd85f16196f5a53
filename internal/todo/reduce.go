package todo

import (
	"slices"

	"github.com/Makepad-fr/tada/internal/model"
)

// Op identifies the user action a Result answers.
type Op int

const (
	OpLoad Op = iota + 1
	OpAdd
	OpToggle
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpAdd:
		return "add"
	case OpToggle:
		return "toggle"
	case OpRemove:
		return "remove"
	}
	return "unknown"
}

// Result is the outcome of one controller call.
type Result struct {
	Op Op

	// ID is the target of toggle and remove.
	ID string
	// Completed is the value a toggle asked the store to set.
	Completed bool

	Items []model.Item // load
	Item  model.Item   // add

	// Rejected marks an add refused before any remote call.
	Rejected bool
	Success  bool
	Err      error
}

// Failed reports whether the call did not succeed logically or failed outright.
func (r Result) Failed() bool { return r.Err != nil || !r.Success }

// Reduce folds r into s. It never mutates s.Items in place.
func Reduce(s State, r Result) (State, Notice) {
	switch r.Op {
	case OpLoad:
		s.Loading = false
		if r.Failed() {
			return s, Notice{LevelError, MsgLoadFailed}
		}
		s.Items = slices.Clone(r.Items)
		return s, Notice{}

	case OpAdd:
		if r.Rejected {
			return s, Notice{LevelWarning, MsgEmptyTitle}
		}
		if r.Failed() {
			return s, Notice{LevelError, MsgAddFailed}
		}
		s.Items = append(slices.Clone(s.Items), r.Item)
		s.Input = ""
		return s, Notice{LevelSuccess, MsgAdded}

	case OpToggle:
		if r.Failed() {
			return s, Notice{LevelError, MsgUpdateFailed}
		}
		items := slices.Clone(s.Items)
		for i := range items {
			if items[i].ID == r.ID {
				items[i].Completed = r.Completed
			}
		}
		s.Items = items
		return s, Notice{}

	case OpRemove:
		// A call that resolved removes the row whatever its success flag said.
		if r.Err != nil {
			return s, Notice{LevelError, MsgDeleteFailed}
		}
		s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(it model.Item) bool { return it.ID == r.ID })
		return s, Notice{LevelSuccess, MsgDeleted}
	}
	return s, Notice{}
}
