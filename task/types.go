// Package task implements a single-user task list.
//
// The whole list is serialized as one JSON array and kept under a single key
// of a storage.Storage. Every call re-reads the list from storage and every
// mutation writes the whole list back; there is no in-memory cache.
//
// The public API mirrors what a presenter needs:
//   - Add, Delete, SetStatus, SetText, SetDueDate, Archive, Unarchive for mutation
//   - ListAll, ListSorted, ListArchived, Get, StatusSummary for querying
//
// Lookups that miss are not errors: mutations return (Task{}, false) and
// Delete returns false.
package task

import (
	"errors"
	"strings"
	"time"

	"github.com/amonks/tasks/internal/validation"
)

// Status represents the state of a task.
type Status string

const (
	// StatusTodo indicates the task has not been started.
	StatusTodo Status = "todo"

	// StatusDoing indicates the task is in progress.
	StatusDoing Status = "doing"

	// StatusDone indicates the task is finished.
	StatusDone Status = "done"
)

// ValidStatuses returns all valid status values in display order.
func ValidStatuses() []Status {
	return []Status{StatusTodo, StatusDoing, StatusDone}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Rank returns the sort rank for a status. Unknown statuses sort last.
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 0
	case StatusDoing:
		return 1
	case StatusDone:
		return 2
	default:
		return 3
	}
}

// Label returns a human-readable name for the status.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusDoing:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// ErrInvalidStatus is returned when parsing an unknown status.
var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus normalizes user input into a Status.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", validation.InvalidValue(ErrInvalidStatus, value, ValidStatuses())
	}
	return status, nil
}

// Task is a single list entry.
type Task struct {
	// ID is unique within the list, assigned as max(existing)+1.
	ID int `json:"id" yaml:"id"`

	// Text is the trimmed task text.
	Text string `json:"text" yaml:"text"`

	// Status is the current state. Values outside ValidStatuses are kept verbatim.
	Status Status `json:"status" yaml:"status"`

	// CreatedAt is the creation instant in RFC 3339 form. It is kept as a
	// string so records with an unparseable value still load.
	CreatedAt string `json:"createdAt" yaml:"createdAt"`

	// Archived hides the task from the main list.
	Archived bool `json:"archived" yaml:"archived"`

	// DueDate is an optional YYYY-MM-DD date, stored verbatim.
	DueDate *string `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

// Created parses CreatedAt. It returns false when the value is missing or malformed.
func (t Task) Created() (time.Time, bool) {
	value := strings.TrimSpace(t.CreatedAt)
	if value == "" {
		return time.Time{}, false
	}
	created, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return created, true
}

// Due returns the due date and whether one is set.
func (t Task) Due() (string, bool) {
	if t.DueDate == nil {
		return "", false
	}
	return *t.DueDate, true
}

// Urgency classifies the task's due date relative to today.
func (t Task) Urgency(today time.Time) Urgency {
	due, ok := t.Due()
	if !ok {
		return UrgencyNone
	}
	return ClassifyDue(due, today)
}

// Summary counts non-archived tasks by status.
type Summary struct {
	Todo  int `json:"todo" yaml:"todo"`
	Doing int `json:"doing" yaml:"doing"`
	Done  int `json:"done" yaml:"done"`
	Total int `json:"total" yaml:"total"`
}

// DatePtr returns a pointer to the provided date string.
func DatePtr(date string) *string {
	return &date
}
