package task

import (
	"slices"
	"strings"
	"time"
)

// AddOptions configures a new task.
type AddOptions struct {
	// Status is the initial status. Defaults to StatusTodo.
	Status Status

	// DueDate is an optional YYYY-MM-DD date.
	DueDate *string
}

// Add appends a new task with the given text and returns it.
// The text is trimmed; rejecting blank text is up to the caller.
func (s *Store) Add(text string, opts AddOptions) Task {
	if opts.Status == "" {
		opts.Status = StatusTodo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.readTasks()
	created := Task{
		ID:        nextID(tasks),
		Text:      strings.TrimSpace(text),
		Status:    opts.Status,
		CreatedAt: s.now().UTC().Format(time.RFC3339Nano),
		Archived:  false,
		DueDate:   copyDate(opts.DueDate),
	}
	tasks = append(tasks, created)
	s.writeTasks(tasks)

	return created
}

// Delete removes the task with the given id. It reports whether a task was removed.
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.readTasks()
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return false
	}
	s.writeTasks(kept)
	return true
}

// SetStatus changes a task's status.
func (s *Store) SetStatus(id int, status Status) (Task, bool) {
	return s.update(id, func(t *Task) bool {
		t.Status = status
		return true
	})
}

// SetText replaces a task's text. Text that is blank after trimming is
// rejected and the task is left unchanged.
func (s *Store) SetText(id int, text string) (Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Task{}, false
	}
	return s.update(id, func(t *Task) bool {
		t.Text = trimmed
		return true
	})
}

// SetDueDate sets a task's due date. A nil date clears it.
func (s *Store) SetDueDate(id int, dueDate *string) (Task, bool) {
	return s.update(id, func(t *Task) bool {
		t.DueDate = copyDate(dueDate)
		return true
	})
}

// Edit holds the fields a full edit replaces.
type Edit struct {
	Text    string
	Status  Status
	DueDate *string
}

// ApplyEdit replaces a task's text, status, and due date in a single write.
// Blank text is rejected as in SetText. An empty status keeps the current one.
func (s *Store) ApplyEdit(id int, edit Edit) (Task, bool) {
	trimmed := strings.TrimSpace(edit.Text)
	if trimmed == "" {
		return Task{}, false
	}
	return s.update(id, func(t *Task) bool {
		t.Text = trimmed
		if edit.Status != "" {
			t.Status = edit.Status
		}
		t.DueDate = copyDate(edit.DueDate)
		return true
	})
}

// Archive hides a task from the main list.
func (s *Store) Archive(id int) (Task, bool) {
	return s.update(id, func(t *Task) bool {
		t.Archived = true
		return true
	})
}

// Unarchive restores an archived task to the main list.
func (s *Store) Unarchive(id int) (Task, bool) {
	return s.update(id, func(t *Task) bool {
		t.Archived = false
		return true
	})
}

// ListAll returns every stored task in storage order.
func (s *Store) ListAll() []Task {
	return s.readTasks()
}

// Get returns the task with the given id.
func (s *Store) Get(id int) (Task, bool) {
	for _, t := range s.readTasks() {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ListSorted returns non-archived tasks ordered by status (todo, doing, done)
// and then by creation time, oldest first. Tasks without a parseable creation
// time sort before all others within their status.
func (s *Store) ListSorted() []Task {
	var active []Task
	for _, t := range s.readTasks() {
		if !t.Archived {
			active = append(active, t)
		}
	}
	SortTasks(active)
	return active
}

// SortTasks orders tasks in place by status rank, then creation time, then id.
func SortTasks(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if a.Status.Rank() != b.Status.Rank() {
			return a.Status.Rank() - b.Status.Rank()
		}
		aCreated, _ := a.Created()
		bCreated, _ := b.Created()
		if c := aCreated.Compare(bCreated); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
}

// ListArchived returns archived tasks in storage order.
func (s *Store) ListArchived() []Task {
	var archived []Task
	for _, t := range s.readTasks() {
		if t.Archived {
			archived = append(archived, t)
		}
	}
	return archived
}

// StatusSummary counts non-archived tasks by status.
func (s *Store) StatusSummary() Summary {
	return Summarize(s.ListSorted())
}

// Summarize counts tasks by status. Total includes tasks with unknown statuses.
func Summarize(tasks []Task) Summary {
	var summary Summary
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			summary.Todo++
		case StatusDoing:
			summary.Doing++
		case StatusDone:
			summary.Done++
		}
		summary.Total++
	}
	return summary
}

func copyDate(date *string) *string {
	if date == nil {
		return nil
	}
	value := *date
	return &value
}
