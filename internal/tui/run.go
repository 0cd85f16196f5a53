package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/todo"
)

// Options tune the interactive program.
type Options struct {
	Wrap Wrapper // nil means NoWrap
	// ProgramOptions are passed to tea.NewProgram after the defaults.
	ProgramOptions []tea.ProgramOption
}

// Run starts the interactive list and blocks until the user quits.
// Every change is persisted by the controller as it happens.
func Run(ctx context.Context, ctrl *todo.Controller, opt Options) error {
	wrap := opt.Wrap
	if wrap == nil {
		wrap = NoWrap
	}
	root := wrap(New(ctx, ctrl))

	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opt.ProgramOptions...)
	p := tea.NewProgram(root, popts...)
	_, err := p.Run()
	return err
}
