package task

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/amonks/tasks/storage"
)

// DefaultKey is the storage key that holds the serialized task list.
const DefaultKey = "tasks"

// Store provides access to the task list held in a storage backend.
// It is the only writer to that key.
type Store struct {
	storage storage.Storage
	key     string
	logger  *log.Logger
	now     func() time.Time

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// Options configures how the store is opened.
type Options struct {
	// Key is the storage key. Defaults to DefaultKey.
	Key string

	// Logger receives read and write failures. If nil, logs go to stderr.
	Logger *log.Logger

	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
}

// Open returns a store over backend.
func Open(backend storage.Storage, opts Options) *Store {
	key := strings.TrimSpace(opts.Key)
	if key == "" {
		key = DefaultKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "tasks: ", log.LstdFlags)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		storage: backend,
		key:     key,
		logger:  logger,
		now:     now,
	}
}

// Key returns the storage key the store reads and writes.
func (s *Store) Key() string {
	return s.key
}

// Now returns the store's notion of the current instant.
func (s *Store) Now() time.Time {
	return s.now()
}

// readTasks reads the whole list. Missing, unreadable, or corrupt data reads
// as an empty list; failures other than a missing key are logged.
func (s *Store) readTasks() []Task {
	data, err := s.storage.Read(context.Background(), s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Printf("read tasks: %v", err)
		return nil
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.logger.Printf("parse tasks: %v", err)
		return nil
	}
	return tasks
}

// writeTasks serializes and stores the whole list. Failures are logged and
// not returned: callers report the intended mutation either way.
func (s *Store) writeTasks(tasks []Task) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		s.logger.Printf("encode tasks: %v", err)
		return
	}
	if err := s.storage.Write(context.Background(), s.key, data); err != nil {
		s.logger.Printf("write tasks: %v", err)
	}
}

// update applies fn to the task with the given id and persists the list.
// fn returns false to abandon the update without writing.
func (s *Store) update(id int, fn func(*Task) bool) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.readTasks()
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		if !fn(&tasks[i]) {
			return Task{}, false
		}
		s.writeTasks(tasks)
		return tasks[i], true
	}
	return Task{}, false
}

// nextID returns one more than the largest stored id, or 1 for an empty list.
func nextID(tasks []Task) int {
	if len(tasks) == 0 {
		return 1
	}
	maxID := tasks[0].ID
	for _, t := range tasks[1:] {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}
