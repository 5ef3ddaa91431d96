package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	const renderWidth = 20

	rendererMu.Lock()
	prev, hadPrev := renderers[renderWidth]
	renderers[renderWidth] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[renderWidth] = prev
		} else {
			delete(renderers, renderWidth)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(renderWidth, 0, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}

func TestRender_Blank(t *testing.T) {
	if out := Render(80, 0, []byte(" \n\n")); out != nil {
		t.Fatalf("expected nil for blank input, got %q", string(out))
	}
}

func TestRender_Indents(t *testing.T) {
	out := string(Render(40, 2, []byte("# Tasks\n\nsome text")))
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "  ") {
			t.Fatalf("expected indented output, got %q", out)
		}
	}
	if !strings.Contains(out, "some text") {
		t.Fatalf("expected text in output, got %q", out)
	}
}

type fakeSource struct {
	sorted   []task.Task
	archived []task.Task
}

func (f fakeSource) ListSorted() []task.Task   { return f.sorted }
func (f fakeSource) ListArchived() []task.Task { return f.archived }

func TestReport_GroupsByStatus(t *testing.T) {
	now := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	page := view.Build(fakeSource{
		sorted: []task.Task{
			{ID: 1, Text: "Pay rent", Status: task.StatusTodo, DueDate: task.DatePtr("2026-01-19")},
			{ID: 2, Text: "Write *docs*", Status: task.StatusDoing},
			{ID: 3, Text: "Ship", Status: task.StatusDone},
		},
		archived: []task.Task{
			{ID: 4, Text: "Old", Status: task.StatusDone, Archived: true},
		},
	}, now)

	report := Report(page)

	for _, want := range []string{
		"**3 total**: 1 to do, 1 in progress, 1 done",
		"## To Do\n\n- [ ] Pay rent _(due 2026-01-19, overdue)_\n",
		"## In Progress\n\n- [ ] Write \\*docs\\*\n",
		"## Done\n\n- [x] Ship\n",
		"## Archived\n\n- [x] Old _(Done)_\n",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("expected report to contain %q, got:\n%s", want, report)
		}
	}
	if strings.Index(report, "## To Do") > strings.Index(report, "## Done") {
		t.Errorf("expected status sections in display order")
	}
}

func TestReport_Empty(t *testing.T) {
	report := Report(view.Build(fakeSource{}, time.Now()))

	if !strings.Contains(report, view.EmptyMessage) {
		t.Fatalf("expected empty message, got:\n%s", report)
	}
	if strings.Contains(report, "## Archived") {
		t.Fatalf("expected no archive section, got:\n%s", report)
	}
}
