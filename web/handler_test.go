package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/amonks/tasks/storage"
	"github.com/amonks/tasks/task"
)

var testNow = time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)

type testServer struct {
	*httptest.Server
	store  *task.Store
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logs := &bytes.Buffer{}
	store := task.Open(storage.NewMemory(), task.Options{
		Logger: log.New(logs, "", 0),
		Now:    func() time.Time { return testNow },
	})
	handler := NewHandler(Options{
		Store:  store,
		Logger: log.New(logs, "", 0),
		Now:    func() time.Time { return testNow },
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	return &testServer{Server: server, store: store, client: client}
}

// post submits a form and returns the redirect location.
func (s *testServer) post(t *testing.T, path string, form url.Values) string {
	t.Helper()

	resp, err := s.client.PostForm(s.URL+path, form)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("post %s: expected status 303, got %d", path, resp.StatusCode)
	}
	return resp.Header.Get("Location")
}

func (s *testServer) get(t *testing.T, path string) string {
	t.Helper()

	resp, err := s.client.Get(s.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get %s: expected status 200, got %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return string(body)
}

func idPath(path string, id int) string {
	return path + "?id=" + strconv.Itoa(id)
}

func TestIndexShowsEmptyState(t *testing.T) {
	server := newTestServer(t)

	output := server.get(t, "/")
	if !strings.Contains(output, "No tasks yet. Add one above!") {
		t.Fatalf("expected empty placeholder, got %s", output)
	}
	if !strings.Contains(output, "No archived tasks.") {
		t.Fatalf("expected archived placeholder, got %s", output)
	}
}

func TestAddCreatesTaskAndShowsNotice(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{}
	form.Set("text", "Buy milk")
	form.Set("status", "doing")
	form.Set("due", "2026-01-21")
	location := server.post(t, "/tasks/add", form)
	if !strings.HasPrefix(location, "/?notice=") {
		t.Fatalf("expected redirect with notice, got %q", location)
	}

	tasks := server.store.ListAll()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	created := tasks[0]
	if created.Text != "Buy milk" || created.Status != task.StatusDoing {
		t.Fatalf("unexpected task %+v", created)
	}
	if created.DueDate == nil || *created.DueDate != "2026-01-21" {
		t.Fatalf("expected due date, got %v", created.DueDate)
	}

	output := server.get(t, location)
	if !strings.Contains(output, "Task added") || !strings.Contains(output, "notice-success") {
		t.Fatalf("expected success notice, got %s", output)
	}
	if !strings.Contains(output, "Buy milk") {
		t.Fatalf("expected task in list, got %s", output)
	}
	if !strings.Contains(output, "Due soon") {
		t.Fatalf("expected urgency label, got %s", output)
	}
	if strings.Contains(output, "No tasks yet.") {
		t.Fatalf("expected no empty placeholder, got %s", output)
	}

	again := server.get(t, location)
	if strings.Contains(again, "Task added") {
		t.Fatalf("expected notice to be consumed, got %s", again)
	}
}

func TestAddRejectsBlankText(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{}
	form.Set("text", "   ")
	location := server.post(t, "/tasks/add", form)

	if tasks := server.store.ListAll(); len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %+v", tasks)
	}
	output := server.get(t, location)
	if !strings.Contains(output, "Please enter a task") || !strings.Contains(output, "notice-error") {
		t.Fatalf("expected error notice, got %s", output)
	}
}

func TestAddRejectsInvalidDueDate(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{}
	form.Set("text", "Buy milk")
	form.Set("due", "tomorrow")
	server.post(t, "/tasks/add", form)

	if tasks := server.store.ListAll(); len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %+v", tasks)
	}
}

func TestStatusChange(t *testing.T) {
	server := newTestServer(t)
	created := server.store.Add("Write docs", task.AddOptions{})

	form := url.Values{}
	form.Set("status", "done")
	location := server.post(t, idPath("/tasks/status", created.ID), form)

	got, ok := server.store.Get(created.ID)
	if !ok || got.Status != task.StatusDone {
		t.Fatalf("expected done, got %+v", got)
	}
	output := server.get(t, location)
	if !strings.Contains(output, "Status changed to Done") {
		t.Fatalf("expected status notice, got %s", output)
	}
}

func TestStatusRejectsUnknownValue(t *testing.T) {
	server := newTestServer(t)
	created := server.store.Add("Write docs", task.AddOptions{})

	form := url.Values{}
	form.Set("status", "blocked")
	server.post(t, idPath("/tasks/status", created.ID), form)

	got, _ := server.store.Get(created.ID)
	if got.Status != task.StatusTodo {
		t.Fatalf("expected status unchanged, got %q", got.Status)
	}
}

func TestTextEdit(t *testing.T) {
	server := newTestServer(t)
	created := server.store.Add("Write docs", task.AddOptions{})

	form := url.Values{}
	form.Set("text", "Write better docs")
	location := server.post(t, idPath("/tasks/text", created.ID), form)

	got, _ := server.store.Get(created.ID)
	if got.Text != "Write better docs" {
		t.Fatalf("expected text updated, got %q", got.Text)
	}
	if output := server.get(t, location); !strings.Contains(output, "Task updated") {
		t.Fatalf("expected update notice, got %s", output)
	}
}

func TestTextEditBlankIsDropped(t *testing.T) {
	server := newTestServer(t)
	created := server.store.Add("Write docs", task.AddOptions{})

	form := url.Values{}
	form.Set("text", "  ")
	location := server.post(t, idPath("/tasks/text", created.ID), form)

	if location != "/" {
		t.Fatalf("expected plain redirect, got %q", location)
	}
	got, _ := server.store.Get(created.ID)
	if got.Text != "Write docs" {
		t.Fatalf("expected text unchanged, got %q", got.Text)
	}
}

func TestDueDateSetAndClear(t *testing.T) {
	server := newTestServer(t)
	created := server.store.Add("Pay rent", task.AddOptions{})

	form := url.Values{}
	form.Set("due", "2026-01-19")
	location := server.post(t, idPath("/tasks/due", created.ID), form)

	got, _ := server.store.Get(created.ID)
	if got.DueDate == nil || *got.DueDate != "2026-01-19" {
		t.Fatalf("expected due date set, got %v", got.DueDate)
	}
	output := server.get(t, location)
	if !strings.Contains(output, "Due date updated") || !strings.Contains(output, "Overdue") {
		t.Fatalf("expected overdue task with notice, got %s", output)
	}

	location = server.post(t, idPath("/tasks/due", created.ID), url.Values{})
	got, _ = server.store.Get(created.ID)
	if got.DueDate != nil {
		t.Fatalf("expected due date cleared, got %v", *got.DueDate)
	}
	if output := server.get(t, location); !strings.Contains(output, "Due date cleared") {
		t.Fatalf("expected cleared notice, got %s", output)
	}
}

func TestArchiveAndRestore(t *testing.T) {
	server := newTestServer(t)
	created := server.store.Add("Old errand", task.AddOptions{})

	location := server.post(t, idPath("/tasks/archive", created.ID), url.Values{})
	if len(server.store.ListSorted()) != 0 || len(server.store.ListArchived()) != 1 {
		t.Fatalf("expected task in archive")
	}
	output := server.get(t, location)
	if !strings.Contains(output, "Task archived") || !strings.Contains(output, "Archived (1)") {
		t.Fatalf("expected archive section, got %s", output)
	}

	location = server.post(t, idPath("/tasks/unarchive", created.ID), url.Values{})
	if len(server.store.ListSorted()) != 1 || len(server.store.ListArchived()) != 0 {
		t.Fatalf("expected task restored")
	}
	if output := server.get(t, location); !strings.Contains(output, "Task restored") {
		t.Fatalf("expected restore notice, got %s", output)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	server := newTestServer(t)
	created := server.store.Add("Mistake", task.AddOptions{})

	location := server.post(t, idPath("/tasks/delete", created.ID), url.Values{})
	if _, ok := server.store.Get(created.ID); !ok {
		t.Fatalf("expected task kept without confirmation")
	}
	if output := server.get(t, location); !strings.Contains(output, "Confirm delete") {
		t.Fatalf("expected confirmation notice, got %s", output)
	}

	form := url.Values{}
	form.Set("confirm", "yes")
	location = server.post(t, idPath("/tasks/delete", created.ID), form)
	if _, ok := server.store.Get(created.ID); ok {
		t.Fatalf("expected task deleted")
	}
	if output := server.get(t, location); !strings.Contains(output, "Task deleted") {
		t.Fatalf("expected delete notice, got %s", output)
	}
}

func TestMutationOnMissingTask(t *testing.T) {
	server := newTestServer(t)

	location := server.post(t, idPath("/tasks/archive", 42), url.Values{})
	if output := server.get(t, location); !strings.Contains(output, "Task not found") {
		t.Fatalf("expected not-found notice, got %s", output)
	}

	location = server.post(t, "/tasks/archive?id=abc", url.Values{})
	if output := server.get(t, location); !strings.Contains(output, "Task not found") {
		t.Fatalf("expected not-found notice for bad id, got %s", output)
	}
}

func TestMutationsRequirePost(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.client.Get(server.URL + "/tasks/add")
	if err != nil {
		t.Fatalf("get add: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != http.MethodPost {
		t.Fatalf("expected Allow POST, got %q", allow)
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.client.Get(server.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestIndexListsTasksInDisplayOrder(t *testing.T) {
	server := newTestServer(t)
	server.store.Add("Finished thing", task.AddOptions{Status: task.StatusDone})
	server.store.Add("Open thing", task.AddOptions{})

	output := server.get(t, "/")
	open := strings.Index(output, "Open thing")
	finished := strings.Index(output, "Finished thing")
	if open < 0 || finished < 0 || open > finished {
		t.Fatalf("expected todo before done, got %s", output)
	}
	if !strings.Contains(output, "2</strong> tasks") {
		t.Fatalf("expected summary total, got %s", output)
	}
}

func TestAPITasks(t *testing.T) {
	server := newTestServer(t)
	server.store.Add("Ship it", task.AddOptions{Status: task.StatusDoing})
	archived := server.store.Add("Old", task.AddOptions{})
	server.store.Archive(archived.ID)

	resp, err := server.client.Get(server.URL + "/api/tasks")
	if err != nil {
		t.Fatalf("get api: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}

	var payload tasksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Tasks) != 1 || payload.Tasks[0].Text != "Ship it" {
		t.Fatalf("unexpected tasks %+v", payload.Tasks)
	}
	if len(payload.Archived) != 1 || payload.Archived[0].ID != archived.ID {
		t.Fatalf("unexpected archived %+v", payload.Archived)
	}
	if payload.Summary != (task.Summary{Doing: 1, Total: 1}) {
		t.Fatalf("unexpected summary %+v", payload.Summary)
	}
}

func TestUnreadNoticesExpire(t *testing.T) {
	now := testNow
	handler := NewHandler(Options{
		Store:  task.Open(storage.NewMemory(), task.Options{Logger: log.New(io.Discard, "", 0)}),
		Logger: log.New(io.Discard, "", 0),
		Now:    func() time.Time { return now },
	})

	stale := handler.setNotice(noticeSuccess, "Task added")
	now = now.Add(noticeTTL + time.Second)
	fresh := handler.setNotice(noticeSuccess, "Task updated")

	if _, ok := handler.consumeNotice(stale); ok {
		t.Fatal("expected notice older than the TTL to be dropped")
	}
	n, ok := handler.consumeNotice(fresh)
	if !ok || n.Message != "Task updated" {
		t.Fatalf("expected fresh notice, got %+v (%v)", n, ok)
	}
	if _, ok := handler.consumeNotice(fresh); ok {
		t.Fatal("expected notice to be shown only once")
	}
}
