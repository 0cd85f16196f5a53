package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	appTitle  = "Todo App"
	emptyText = "No todos yet. Add one above!"
	noticeTTL = 3 * time.Second

	defaultWidth, defaultHeight = 80, 24
)

// resultMsg delivers a controller Result back to the update loop.
type resultMsg struct{ todo.Result }

// clearNoticeMsg expires the notice shown under seq.
type clearNoticeMsg struct{ seq int }

type keyMap struct {
	add, toggle, remove, reload, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the Bubble Tea root model. State changes only in Update, by
// folding controller results through todo.Reduce.
type Model struct {
	ctx  context.Context
	ctrl *todo.Controller

	state     todo.State
	notice    todo.Notice
	noticeSeq int

	list   list.Model
	ti     textinput.Model
	adding bool
	keys   keyMap
	spin   tea.Cmd
	width  int
	height int
}

// New returns a model that loads the list as soon as the program starts.
func New(ctx context.Context, ctrl *todo.Controller) Model {
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, defaultWidth, defaultHeight)
	l.Title = appTitle
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.KeyMap.Quit.SetEnabled(false) // handled here so add mode can use esc

	extra := func() []key.Binding { return []key.Binding{keys.add, keys.toggle, keys.remove, keys.reload} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new todo..."
	ti.CharLimit = 200

	m := Model{
		ctx:    ctx,
		ctrl:   ctrl,
		state:  todo.BeginLoad(todo.State{}),
		list:   l,
		ti:     ti,
		keys:   keys,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.spin = m.list.StartSpinner()
	m.resize()
	return m
}

// State returns the current view state.
func (m Model) State() todo.State { return m.state }

// Notice returns the notice currently shown, if any.
func (m Model) Notice() todo.Notice { return m.notice }

// Init issues the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spin)
}

func (m Model) loadCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg { return resultMsg{ctrl.LoadAll(ctx)} }
}

func (m Model) addCmd(text string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg { return resultMsg{ctrl.Add(ctx, text)} }
}

func (m Model) toggleCmd(id string, completed bool) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg { return resultMsg{ctrl.Toggle(ctx, id, completed)} }
}

func (m Model) removeCmd(id string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg { return resultMsg{ctrl.Remove(ctx, id)} }
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case resultMsg:
		return m.apply(msg.Result)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = todo.Notice{}
		}
		return m, nil
	}

	// add mode
	if m.adding {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				m.state.Input = m.ti.Value()
				return m, m.addCmd(m.state.Input)
			case "esc":
				m.closeInput()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		m.state.Input = m.ti.Value()
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(k, m.keys.quit):
			if k.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break // let the list clear its filter
			}
			return m, tea.Quit
		case key.Matches(k, m.keys.add):
			m.adding = true
			m.ti.SetValue(m.state.Input)
			m.ti.CursorEnd()
			m.resize()
			return m, m.ti.Focus()
		case key.Matches(k, m.keys.toggle):
			if it, ok := m.selected(); ok {
				return m, m.toggleCmd(it.item.ID, it.item.Completed)
			}
			return m, nil
		case key.Matches(k, m.keys.remove):
			if it, ok := m.selected(); ok {
				return m, m.removeCmd(it.item.ID)
			}
			return m, nil
		case key.Matches(k, m.keys.reload):
			if m.state.Loading {
				return m, nil
			}
			m.state = todo.BeginLoad(m.state)
			return m, tea.Batch(m.loadCmd(), m.list.StartSpinner())
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// apply folds r into the state and brings the widgets in line with it.
func (m Model) apply(r todo.Result) (tea.Model, tea.Cmd) {
	var n todo.Notice
	m.state, n = todo.Reduce(m.state, r)

	var cmds []tea.Cmd
	if !m.state.Loading {
		m.list.StopSpinner()
	}
	cmds = append(cmds, m.list.SetItems(toListItems(m.state.Items)))
	if m.list.Index() >= len(m.list.Items()) && len(m.list.Items()) > 0 {
		m.list.Select(len(m.list.Items()) - 1)
	}
	m.list.Title = m.header()

	if m.adding && r.Op == todo.OpAdd && !r.Rejected && !r.Failed() {
		m.closeInput()
	}
	if !n.Empty() {
		m.noticeSeq++
		m.notice = n
		seq := m.noticeSeq
		cmds = append(cmds, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} }))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) closeInput() {
	m.adding = false
	m.state.Input = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// header is the list title with live counts.
func (m Model) header() string {
	t := ui.Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		appTitle,
		t.Success.Render(t.SymDone), m.state.Total()-m.state.Remaining(),
		t.Pending.Render(t.SymPending), m.state.Remaining(),
		t.Accent.Render("Total"), m.state.Total(),
	)
}

func (m *Model) resize() {
	chrome := 6 // panel border + footer + notice
	if m.adding {
		chrome += 4
	}
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	t := ui.Current()

	var content string
	if m.state.Total() == 0 && !m.state.Loading {
		content = t.Title.Render(appTitle) + "\n\n" + t.Muted.Render(emptyText)
	} else {
		content = m.list.View()
	}

	if m.adding {
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		content += "\n" + bar.Render("Add new item\n"+m.ti.View())
	}

	lines := []string{content, "", t.Muted.Render(m.state.Summary())}
	if !m.notice.Empty() {
		lines = append(lines, noticeStyle(m.notice).Render(m.notice.Text))
	}
	return ui.PanelString(strings.Join(lines, "\n"))
}

func noticeStyle(n todo.Notice) lipgloss.Style {
	t := ui.Current()
	switch n.Level {
	case todo.LevelSuccess:
		return t.Success
	case todo.LevelWarning:
		return t.Warning
	case todo.LevelError:
		return t.Error
	}
	return t.Muted
}
