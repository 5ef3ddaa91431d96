package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DueDateLayout is the format of Task.DueDate.
const DueDateLayout = "2006-01-02"

// UrgentWindowDays is how many days after today still count as urgent.
const UrgentWindowDays = 3

// Urgency is the display classification of a due date.
type Urgency string

const (
	// UrgencyNone means there is no due date, or it could not be parsed.
	UrgencyNone Urgency = ""

	// UrgencyOverdue means the due date is before today.
	UrgencyOverdue Urgency = "overdue"

	// UrgencyUrgent means the due date is today or within UrgentWindowDays.
	UrgencyUrgent Urgency = "urgent"

	// UrgencyNormal means the due date is further out.
	UrgencyNormal Urgency = "normal"
)

// ErrInvalidDueDate is returned when a due date is not YYYY-MM-DD.
var ErrInvalidDueDate = errors.New("due date must be YYYY-MM-DD")

// ValidateDueDate checks that value is a YYYY-MM-DD calendar date.
func ValidateDueDate(value string) error {
	if _, err := time.Parse(DueDateLayout, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidDueDate, value)
	}
	return nil
}

// ClassifyDue compares a YYYY-MM-DD due date with today at calendar-day
// granularity in today's location.
func ClassifyDue(due string, today time.Time) Urgency {
	dueDate, err := time.Parse(DueDateLayout, strings.TrimSpace(due))
	if err != nil {
		return UrgencyNone
	}

	days := DaysUntil(dueDate, today)
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= UrgentWindowDays:
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// DaysUntil returns the number of calendar days from today to date. Only the
// year, month and day of each value are considered.
func DaysUntil(date time.Time, today time.Time) int {
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// Label returns the visual label for the urgency.
func (u Urgency) Label() string {
	switch u {
	case UrgencyOverdue:
		return "Overdue"
	case UrgencyUrgent:
		return "Due soon"
	default:
		return ""
	}
}
