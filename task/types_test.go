package task

import (
	"errors"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"todo":   StatusTodo,
		" Doing": StatusDoing,
		"DONE ":  StatusDone,
	}
	for input, want := range cases {
		got, err := ParseStatus(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Errorf("parse %q: expected %q, got %q", input, want, got)
		}
	}

	if _, err := ParseStatus("blocked"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskCreated(t *testing.T) {
	item := Task{CreatedAt: "2026-01-20T10:00:00.123Z"}
	created, ok := item.Created()
	if !ok {
		t.Fatal("expected createdAt to parse")
	}
	if !created.Equal(time.Date(2026, 1, 20, 10, 0, 0, 123000000, time.UTC)) {
		t.Errorf("unexpected created instant %v", created)
	}

	if _, ok := (Task{CreatedAt: "not a time"}).Created(); ok {
		t.Error("expected malformed createdAt to report false")
	}
	if _, ok := (Task{}).Created(); ok {
		t.Error("expected missing createdAt to report false")
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusDoing.Label() != "In Progress" {
		t.Errorf("unexpected label %q", StatusDoing.Label())
	}
	if Status("blocked").Label() != "blocked" {
		t.Errorf("expected unknown status label to be verbatim")
	}
}
