// Package view computes presentation-independent view models from the task
// store. The web handler and the CLI both materialize these models.
package view

import (
	"errors"
	"strings"
	"time"

	"github.com/amonks/tasks/task"
)

// Timing for transient UI feedback.
const (
	// ChangeDelay is how long an item shows its "changing" state before the
	// list re-renders.
	ChangeDelay = 300 * time.Millisecond

	// NoticeDisplay is how long a notice stays fully visible.
	NoticeDisplay = 2 * time.Second

	// NoticeFade is how long a notice takes to fade before removal.
	NoticeFade = 300 * time.Millisecond
)

// Placeholder text for empty lists.
const (
	EmptyMessage         = "No tasks yet. Add one above!"
	ArchivedEmptyMessage = "No archived tasks."
)

// ErrEmptyText is returned when new task text is blank.
var ErrEmptyText = errors.New("Please enter a task")

// ValidateNewText rejects text that is blank after trimming.
func ValidateNewText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// Source is the subset of the task store a view needs.
type Source interface {
	ListSorted() []task.Task
	ListArchived() []task.Task
}

// Page is everything a presenter renders after a mutation.
type Page struct {
	Summary              task.Summary
	Items                []Item
	Archived             []Item
	EmptyMessage         string
	ArchivedEmptyMessage string
	StatusOptions        []Option
	Today                string
}

// Option is one entry of a status selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Item is the view of a single task.
type Item struct {
	ID            int
	Text          string
	Status        task.Status
	StatusLabel   string
	StatusOptions []Option
	HasDue        bool
	DueDate       string
	DueLabel      string
	Urgency       task.Urgency
	UrgencyLabel  string
	Archived      bool
	Created       string
}

// Build computes the page for the store's current state.
func Build(source Source, now time.Time) Page {
	sorted := source.ListSorted()
	archived := source.ListArchived()

	page := Page{
		Summary:       task.Summarize(sorted),
		Items:         make([]Item, 0, len(sorted)),
		Archived:      make([]Item, 0, len(archived)),
		StatusOptions: StatusOptions(task.StatusTodo),
		Today:         now.Format(task.DueDateLayout),
	}
	for _, t := range sorted {
		page.Items = append(page.Items, NewItem(t, now))
	}
	for _, t := range archived {
		page.Archived = append(page.Archived, NewItem(t, now))
	}
	if len(page.Items) == 0 {
		page.EmptyMessage = EmptyMessage
	}
	if len(page.Archived) == 0 {
		page.ArchivedEmptyMessage = ArchivedEmptyMessage
	}
	return page
}

// NewItem computes the view of one task.
func NewItem(t task.Task, now time.Time) Item {
	item := Item{
		ID:            t.ID,
		Text:          t.Text,
		Status:        t.Status,
		StatusLabel:   t.Status.Label(),
		StatusOptions: StatusOptions(t.Status),
		Archived:      t.Archived,
	}
	if created, ok := t.Created(); ok {
		item.Created = created.In(now.Location()).Format("2006-01-02 15:04")
	}
	if due, ok := t.Due(); ok {
		item.HasDue = true
		item.DueDate = due
		item.DueLabel = "Due " + due
		item.Urgency = task.ClassifyDue(due, now)
		item.UrgencyLabel = item.Urgency.Label()
	}
	return item
}

// StatusOptions returns the fixed status choices with selected marked.
func StatusOptions(selected task.Status) []Option {
	options := make([]Option, 0, len(task.ValidStatuses()))
	for _, status := range task.ValidStatuses() {
		options = append(options, Option{
			Value:    string(status),
			Label:    status.Label(),
			Selected: status == selected,
		})
	}
	return options
}
