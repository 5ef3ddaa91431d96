package ui

import (
	"os"

	"github.com/amonks/tasks/task"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	todoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	doingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	urgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// ansiEnabled is a variable so tests can force plain output.
var ansiEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func render(style lipgloss.Style, value string) string {
	if value == "" || !ansiEnabled() {
		return value
	}
	return style.Render(value)
}

// Header styles a section heading.
func Header(value string) string {
	return render(headerStyle, value)
}

// Label styles a field name in a detail view.
func Label(value string) string {
	return render(labelStyle, value)
}

// Muted styles secondary text.
func Muted(value string) string {
	return render(mutedStyle, value)
}

// Success styles a confirmation message.
func Success(value string) string {
	return render(successStyle, value)
}

// Status renders value in the color for status.
func Status(status task.Status, value string) string {
	switch status {
	case task.StatusTodo:
		return render(todoStyle, value)
	case task.StatusDoing:
		return render(doingStyle, value)
	case task.StatusDone:
		return render(doneStyle, value)
	default:
		return render(mutedStyle, value)
	}
}

// Urgency renders value in the color for urgency. Normal and unset urgency
// are left plain.
func Urgency(urgency task.Urgency, value string) string {
	switch urgency {
	case task.UrgencyOverdue:
		return render(overdueStyle, value)
	case task.UrgencyUrgent:
		return render(urgentStyle, value)
	default:
		return value
	}
}
