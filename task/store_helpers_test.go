package task

import (
	"bytes"
	"encoding/json"
	"log"
	"testing"
	"time"

	"github.com/amonks/tasks/storage"
)

// testClock returns increasing instants one minute apart.
type testClock struct {
	next time.Time
}

func (c *testClock) Now() time.Time {
	now := c.next
	c.next = c.next.Add(time.Minute)
	return now
}

type testStore struct {
	*Store
	backend *storage.Memory
	logs    *bytes.Buffer
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	backend := storage.NewMemory()
	logs := &bytes.Buffer{}
	clock := &testClock{next: time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)}
	store := Open(backend, Options{
		Logger: log.New(logs, "", 0),
		Now:    clock.Now,
	})
	return &testStore{Store: store, backend: backend, logs: logs}
}

// seed stores tasks directly, bypassing Add.
func (s *testStore) seed(t *testing.T, tasks []Task) {
	t.Helper()
	data, err := json.Marshal(tasks)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	s.backend.Set(DefaultKey, data)
}

func taskIDs(tasks []Task) []int {
	ids := make([]int, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
