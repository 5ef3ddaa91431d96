package tasktui

import (
	"fmt"
	"io"
	"strings"

	internalstrings "github.com/amonks/tasks/internal/strings"
	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type taskItem struct {
	view.Item
	changing bool
}

func (item taskItem) FilterValue() string {
	return item.Text
}

func taskItems(items []view.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, item := range items {
		out = append(out, taskItem{Item: item})
	}
	return out
}

type taskItemDelegate struct {
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	doneStyle     lipgloss.Style
	overdueStyle  lipgloss.Style
	urgentStyle   lipgloss.Style
}

func newTaskItemDelegate() taskItemDelegate {
	return taskItemDelegate{
		normalStyle:   itemNormalStyle,
		selectedStyle: itemSelectedStyle,
		doneStyle:     valueMuted,
		overdueStyle:  itemOverdueStyle,
		urgentStyle:   itemUrgentStyle,
	}
}

func (d taskItemDelegate) Height() int                             { return 1 }
func (d taskItemDelegate) Spacing() int                            { return 0 }
func (d taskItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(taskItem)
	if !ok {
		return
	}

	line := formatTaskItem(item, m.Width())
	style := d.normalStyle
	switch {
	case index == m.Index():
		style = d.selectedStyle
	case item.changing, item.Status == task.StatusDone:
		style = d.doneStyle
	case item.Archived:
	case item.Urgency == task.UrgencyOverdue:
		style = d.overdueStyle
	case item.Urgency == task.UrgencyUrgent:
		style = d.urgentStyle
	}
	fmt.Fprint(w, style.Render(line))
}

// formatTaskItem renders one list row: a status box, the id, the text, and
// the due date with its urgency label.
func formatTaskItem(item taskItem, width int) string {
	line := fmt.Sprintf("%s #%d %s", statusBox(item.Status), item.ID, internalstrings.NormalizeWhitespace(item.Text))
	if item.HasDue {
		line += "  " + item.DueDate
		if item.UrgencyLabel != "" && !item.Archived {
			line += " " + item.UrgencyLabel
		}
	}
	if item.changing {
		line += " ..."
	}
	return truncateText(line, width)
}

func statusBox(status task.Status) string {
	switch status {
	case task.StatusTodo:
		return "[ ]"
	case task.StatusDoing:
		return "[~]"
	case task.StatusDone:
		return "[x]"
	default:
		return "[?]"
	}
}

func nextStatus(status task.Status) task.Status {
	switch status {
	case task.StatusTodo:
		return task.StatusDoing
	case task.StatusDoing:
		return task.StatusDone
	default:
		return task.StatusTodo
	}
}

func truncateText(value string, width int) string {
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}

type detailModel struct {
	item     view.Item
	selected bool
	viewport viewport.Model
}

func newDetailModel() detailModel {
	return detailModel{viewport: viewport.New(0, 0)}
}

func (model *detailModel) SetItem(item view.Item, selected bool) {
	model.item = item
	model.selected = selected
	model.refreshViewport(true)
}

func (model *detailModel) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	model.viewport.Width = width
	model.viewport.Height = height
	model.refreshViewport(false)
}

func (model detailModel) View() string {
	return model.viewport.View()
}

func (model *detailModel) refreshViewport(reset bool) {
	model.viewport.SetContent(model.renderContent())
	if reset {
		model.viewport.GotoTop()
	}
}

func (model detailModel) renderContent() string {
	if !model.selected {
		return valueMuted.Render("No task selected")
	}
	item := model.item

	due := "-"
	if item.HasDue {
		due = item.DueDate
		if item.UrgencyLabel != "" && !item.Archived {
			due += " (" + item.UrgencyLabel + ")"
		}
	}
	archived := "no"
	if item.Archived {
		archived = "yes"
	}

	lines := []string{
		labelStyle.Render(fmt.Sprintf("Task %d", item.ID)),
		formatDetailRow("Status", item.StatusLabel),
		formatDetailRow("Due", due),
		formatDetailRow("Created", item.Created),
		formatDetailRow("Archived", archived),
		"",
		item.Text,
	}

	content := strings.Join(lines, "\n")
	width := model.viewport.Width
	if width <= 0 {
		return content
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

func formatDetailRow(label, value string) string {
	return fmt.Sprintf("%s: %s", labelStyle.Render(label), valueMuted.Render(valueOrDash(value)))
}

func valueOrDash(value string) string {
	if internalstrings.IsBlank(value) {
		return "-"
	}
	return value
}

type inputKind int

const (
	inputAdd inputKind = iota
	inputText
	inputDue
)

// inputField is the single editable value of an input modal. Task text uses
// a textarea so pasted multi-line text survives; due dates use a one-line
// input.
type inputField struct {
	kind      inputKind
	taskID    int
	label     string
	original  string
	err       string
	input     textinput.Model
	textarea  textarea.Model
	multiLine bool
}

func newInputField(kind inputKind, taskID int, value string) inputField {
	field := inputField{kind: kind, taskID: taskID, original: value}
	switch kind {
	case inputAdd:
		field.label = "New task"
	case inputText:
		field.label = fmt.Sprintf("Edit task %d", taskID)
	case inputDue:
		field.label = fmt.Sprintf("Due date for task %d", taskID)
	}

	if kind == inputDue {
		input := textinput.New()
		input.SetValue(value)
		input.Prompt = ""
		input.Placeholder = "YYYY-MM-DD"
		input.CharLimit = len(task.DueDateLayout)
		input.Width = len(task.DueDateLayout) + 1
		field.input = input
		return field
	}

	area := textarea.New()
	area.SetValue(value)
	area.ShowLineNumbers = false
	area.Prompt = ""
	area.Placeholder = "What needs doing?"
	area.SetWidth(48)
	area.SetHeight(3)
	field.textarea = area
	field.multiLine = true
	return field
}

func (field inputField) Value() string {
	if field.multiLine {
		return field.textarea.Value()
	}
	return field.input.Value()
}

func (field inputField) Focus() (inputField, tea.Cmd) {
	if field.multiLine {
		cmd := field.textarea.Focus()
		return field, cmd
	}
	cmd := field.input.Focus()
	return field, cmd
}

func (field inputField) Update(msg tea.Msg) (inputField, tea.Cmd) {
	var cmd tea.Cmd
	if field.multiLine {
		field.textarea, cmd = field.textarea.Update(msg)
		return field, cmd
	}
	field.input, cmd = field.input.Update(msg)
	return field, cmd
}

func (field inputField) View() string {
	lines := []string{labelStyle.Render(field.label)}
	if field.multiLine {
		lines = append(lines, field.textarea.View())
	} else {
		lines = append(lines, field.input.View())
	}
	if field.err != "" {
		lines = append(lines, statusErrorStyle.Render(field.err))
	}
	hint := "enter save | esc cancel"
	if field.kind == inputDue {
		hint = "enter save (empty clears) | esc cancel"
	}
	lines = append(lines, "", valueMuted.Render(hint))
	return strings.Join(lines, "\n")
}
