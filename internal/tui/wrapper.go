package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/ui"
)

// Wrapper decorates the root model before the program starts. It is the
// hook for cross-cutting chrome such as a sponsor banner.
type Wrapper func(tea.Model) tea.Model

// NoWrap returns the model untouched.
func NoWrap(m tea.Model) tea.Model { return m }

// Banner appends a single muted line under the wrapped view.
// An empty text yields NoWrap.
func Banner(text string) Wrapper {
	if text == "" {
		return NoWrap
	}
	return func(m tea.Model) tea.Model { return bannerModel{inner: m, text: text} }
}

type bannerModel struct {
	inner tea.Model
	text  string
}

func (b bannerModel) Init() tea.Cmd { return b.inner.Init() }

func (b bannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	inner, cmd := b.inner.Update(msg)
	b.inner = inner
	return b, cmd
}

func (b bannerModel) View() string {
	return b.inner.View() + "\n" + ui.Current().Muted.Render(b.text)
}
