package cli

import (
	"fmt"
	"io"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

const maxTitle = 80

func renderList(w io.Writer, st todo.State, group bool) {
	t := ui.Current()
	done, pending := st.Total()-st.Remaining(), st.Remaining()

	// Header + progress
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todo App"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), st.Total(),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(done, st.Total(), 28)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(st.Items)...)
	} else {
		lines = append(lines, flatLines(st.Items, 1)...)
	}
	lines = append(lines, "")
	lines = append(lines, st.Summary())
	lines = append(lines, t.Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
	ui.Panel(w, lines)
}

// flatLines numbers rows from first so indexes match `tada done <index>`.
func flatLines(items []model.Item, first int) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("No todos yet. Add one above!")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", first+i)
		box, style := t.Muted.Render(t.BoxUnchecked), t.Title.UnsetBold()
		if it.Completed {
			box, style = t.Success.Render(t.BoxChecked), t.Done
		}
		title := it.Title
		if len([]rune(title)) > maxTitle {
			title = string([]rune(title)[:maxTitle-3]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), box, style.Render(title)))
	}
	return out
}

type numbered struct {
	idx  int
	item model.Item
}

func groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []numbered
	for i, it := range items {
		if it.Completed {
			done = append(done, numbered{i + 1, it})
		} else {
			pend = append(pend, numbered{i + 1, it})
		}
	}
	section := func(name string, rows []numbered) []string {
		lines := []string{t.Accent.Render(name)}
		if len(rows) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		for _, r := range rows {
			lines = append(lines, flatLines([]model.Item{r.item}, r.idx)...)
		}
		return lines
	}
	var lines []string
	lines = append(lines, section("Pending", pend)...)
	lines = append(lines, "")
	lines = append(lines, section("Done", done)...)
	return lines
}
