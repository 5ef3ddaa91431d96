package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	internalstrings "github.com/amonks/tasks/internal/strings"
	"github.com/amonks/tasks/internal/ui"
	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

const defaultOutputWidth = 80

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func nonNilTasks(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}

// outputWidth is the terminal width of w, or defaultOutputWidth when w is
// not a terminal.
func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultOutputWidth
}

// textColumnWidth leaves room for the ID, STATUS, and DUE columns.
func textColumnWidth(w io.Writer) int {
	width := outputWidth(w) - 40
	if width < 20 {
		return 20
	}
	return width
}

func plural(count int, singular, pluralForm string) string {
	if count == 1 {
		return singular
	}
	return pluralForm
}

func summaryLine(s task.Summary) string {
	return fmt.Sprintf("%d %s: %d to do, %d in progress, %d done",
		s.Total, plural(s.Total, "task", "tasks"), s.Todo, s.Doing, s.Done)
}

func formatTaskRef(t task.Task) string {
	return fmt.Sprintf("#%d %s", t.ID, internalstrings.NormalizeWhitespace(t.Text))
}

func printResult(w io.Writer, message string, t task.Task) {
	fmt.Fprintf(w, "%s: %s\n", ui.Success(message), formatTaskRef(t))
}

func renderItemTable(items []view.Item, now time.Time, textWidth int) string {
	builder := ui.NewTableBuilder([]string{"ID", "STATUS", "DUE", "TEXT"}, len(items))
	for _, item := range items {
		builder.AddRow([]string{
			strconv.Itoa(item.ID),
			ui.Status(item.Status, item.StatusLabel),
			dueCell(item, now),
			ui.TruncateTableCell(item.Text, textWidth),
		})
	}
	return builder.String()
}

// dueCell shows the due date with a relative day count. Active tasks also
// carry their urgency label.
func dueCell(item view.Item, now time.Time) string {
	if !item.HasDue {
		return "-"
	}
	value := item.DueDate
	if due, err := time.ParseInLocation(task.DueDateLayout, item.DueDate, now.Location()); err == nil {
		value += " (" + ui.FormatDaysUntil(task.DaysUntil(due, now)) + ")"
	}
	if item.Archived {
		return value
	}
	if item.UrgencyLabel != "" {
		value += " " + item.UrgencyLabel
	}
	return ui.Urgency(item.Urgency, value)
}

func renderTaskDetail(t task.Task, now time.Time, width int) string {
	item := view.NewItem(t, now)

	var b strings.Builder
	b.WriteString(ui.Header(fmt.Sprintf("Task %d", t.ID)))
	b.WriteString("\n")
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", ui.Label(fmt.Sprintf("%-9s", label+":")), value)
	}
	field("Status", ui.Status(item.Status, item.StatusLabel))
	field("Due", dueCell(item, now))
	created := "-"
	if at, ok := t.Created(); ok {
		created = item.Created + " (" + ui.FormatTimeAgo(at, now) + ")"
	}
	field("Created", created)
	archived := "no"
	if t.Archived {
		archived = "yes"
	}
	field("Archived", archived)

	wrapWidth := width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	b.WriteString("\n")
	b.WriteString(internalstrings.IndentBlock(wordwrap.String(t.Text, wrapWidth), 2))
	b.WriteString("\n")
	return b.String()
}
