package markdown

import (
	"fmt"
	"strings"

	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
)

// Report returns the page as a markdown document with one section per status
// and a trailing archive section.
func Report(page view.Page) string {
	var b strings.Builder

	b.WriteString("# Tasks\n\n")
	fmt.Fprintf(&b, "**%d total**: %d to do, %d in progress, %d done\n",
		page.Summary.Total, page.Summary.Todo, page.Summary.Doing, page.Summary.Done)

	if len(page.Items) == 0 {
		fmt.Fprintf(&b, "\n%s\n", page.EmptyMessage)
	}

	current := ""
	for _, item := range page.Items {
		if item.StatusLabel != current {
			current = item.StatusLabel
			fmt.Fprintf(&b, "\n## %s\n\n", current)
		}
		b.WriteString(reportLine(item))
	}

	if len(page.Archived) > 0 {
		b.WriteString("\n## Archived\n\n")
		for _, item := range page.Archived {
			b.WriteString(reportLine(item))
		}
	}

	return b.String()
}

func reportLine(item view.Item) string {
	box := "[ ]"
	if item.Status == task.StatusDone {
		box = "[x]"
	}
	line := fmt.Sprintf("- %s %s", box, escapeInline(item.Text))

	var notes []string
	if item.HasDue {
		notes = append(notes, "due "+item.DueDate)
	}
	if item.UrgencyLabel != "" {
		notes = append(notes, strings.ToLower(item.UrgencyLabel))
	}
	if item.Archived {
		notes = append(notes, item.StatusLabel)
	}
	if len(notes) > 0 {
		line += " _(" + strings.Join(notes, ", ") + ")_"
	}
	return line + "\n"
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"\n", " ",
)

func escapeInline(value string) string {
	return inlineEscaper.Replace(value)
}
