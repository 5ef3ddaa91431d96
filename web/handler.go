// Package web serves the task list as a server-rendered HTML page.
//
// Every interaction posts a form, calls into the task store, and redirects
// back to the page, which re-renders the whole list from a fresh read.
package web

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/amonks/tasks/task"
	"github.com/amonks/tasks/view"
	"github.com/google/uuid"
)

// Store is the task store the handler reads and mutates.
type Store interface {
	view.Source
	Add(text string, opts task.AddOptions) task.Task
	Delete(id int) bool
	SetStatus(id int, status task.Status) (task.Task, bool)
	SetText(id int, text string) (task.Task, bool)
	SetDueDate(id int, dueDate *string) (task.Task, bool)
	Archive(id int) (task.Task, bool)
	Unarchive(id int) (task.Task, bool)
	StatusSummary() task.Summary
}

// Options configures the web handler.
type Options struct {
	Store Store

	// Logger receives handler errors. If nil, logs go to stderr.
	Logger *log.Logger

	// Now returns the current instant for urgency labels. Defaults to time.Now.
	Now func() time.Time
}

// Handler serves the task list web client.
type Handler struct {
	store     Store
	logger    *log.Logger
	now       func() time.Time
	mux       *http.ServeMux
	templates *templateWrapper

	mu      sync.Mutex
	notices map[string]notice
}

// noticeTTL bounds how long an unread notice is kept.
const noticeTTL = time.Minute

type notice struct {
	Kind    string
	Message string
	created time.Time
}

const (
	noticeSuccess = "success"
	noticeError   = "error"
)

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "web: ", log.LstdFlags)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	handler := &Handler{
		store:     opts.Store,
		logger:    logger,
		now:       now,
		templates: newTemplateWrapper(),
		notices:   make(map[string]notice),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.handleIndex)
	mux.HandleFunc("/tasks/add", handler.handleAdd)
	mux.HandleFunc("/tasks/text", handler.handleText)
	mux.HandleFunc("/tasks/status", handler.handleStatus)
	mux.HandleFunc("/tasks/due", handler.handleDue)
	mux.HandleFunc("/tasks/archive", handler.handleArchive)
	mux.HandleFunc("/tasks/unarchive", handler.handleUnarchive)
	mux.HandleFunc("/tasks/delete", handler.handleDelete)
	mux.HandleFunc("/api/tasks", handler.handleAPITasks)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tw.tmpl.ExecuteTemplate(w, "page", data)
}

type pageData struct {
	view.Page
	Notice          *notice
	ChangeDelayMS   int64
	NoticeDisplayMS int64
	NoticeFadeMS    int64
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	data := pageData{
		Page:            view.Build(h.store, h.now()),
		ChangeDelayMS:   view.ChangeDelay.Milliseconds(),
		NoticeDisplayMS: view.NoticeDisplay.Milliseconds(),
		NoticeFadeMS:    view.NoticeFade.Milliseconds(),
	}
	if n, ok := h.consumeNotice(trimmedQueryValue(r, "notice")); ok {
		data.Notice = &n
	}
	if err := h.templates.Render(w, data); err != nil {
		h.logger.Printf("render page: %v", err)
	}
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if !h.parsePost(w, r) {
		return
	}
	text := r.FormValue("text")
	if err := view.ValidateNewText(text); err != nil {
		h.redirectWithNotice(w, r, noticeError, err.Error())
		return
	}

	opts := task.AddOptions{}
	if value := trimmedFormValue(r, "status"); value != "" {
		status, err := task.ParseStatus(value)
		if err != nil {
			h.redirectWithNotice(w, r, noticeError, err.Error())
			return
		}
		opts.Status = status
	}
	if due := trimmedFormValue(r, "due"); due != "" {
		if err := task.ValidateDueDate(due); err != nil {
			h.redirectWithNotice(w, r, noticeError, err.Error())
			return
		}
		opts.DueDate = &due
	}

	h.store.Add(text, opts)
	h.redirectWithNotice(w, r, noticeSuccess, "Task added")
}

func (h *Handler) handleText(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIDPost(w, r)
	if !ok {
		return
	}
	text := r.FormValue("text")
	if strings.TrimSpace(text) == "" {
		// Blank edits are dropped and the display reverts.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if _, ok := h.store.SetText(id, text); !ok {
		h.redirectWithNotice(w, r, noticeError, "Task not found")
		return
	}
	h.redirectWithNotice(w, r, noticeSuccess, "Task updated")
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIDPost(w, r)
	if !ok {
		return
	}
	status, err := task.ParseStatus(r.FormValue("status"))
	if err != nil {
		h.redirectWithNotice(w, r, noticeError, err.Error())
		return
	}
	updated, ok := h.store.SetStatus(id, status)
	if !ok {
		h.redirectWithNotice(w, r, noticeError, "Task not found")
		return
	}
	h.redirectWithNotice(w, r, noticeSuccess, "Status changed to "+updated.Status.Label())
}

func (h *Handler) handleDue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIDPost(w, r)
	if !ok {
		return
	}
	var dueDate *string
	message := "Due date cleared"
	if due := trimmedFormValue(r, "due"); due != "" {
		if err := task.ValidateDueDate(due); err != nil {
			h.redirectWithNotice(w, r, noticeError, err.Error())
			return
		}
		dueDate = &due
		message = "Due date updated"
	}
	if _, ok := h.store.SetDueDate(id, dueDate); !ok {
		h.redirectWithNotice(w, r, noticeError, "Task not found")
		return
	}
	h.redirectWithNotice(w, r, noticeSuccess, message)
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIDPost(w, r)
	if !ok {
		return
	}
	if _, ok := h.store.Archive(id); !ok {
		h.redirectWithNotice(w, r, noticeError, "Task not found")
		return
	}
	h.redirectWithNotice(w, r, noticeSuccess, "Task archived")
}

func (h *Handler) handleUnarchive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIDPost(w, r)
	if !ok {
		return
	}
	if _, ok := h.store.Unarchive(id); !ok {
		h.redirectWithNotice(w, r, noticeError, "Task not found")
		return
	}
	h.redirectWithNotice(w, r, noticeSuccess, "Task restored")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseIDPost(w, r)
	if !ok {
		return
	}
	if r.FormValue("confirm") != "yes" {
		h.redirectWithNotice(w, r, noticeError, "Confirm delete before removing a task")
		return
	}
	if !h.store.Delete(id) {
		h.redirectWithNotice(w, r, noticeError, "Task not found")
		return
	}
	h.redirectWithNotice(w, r, noticeSuccess, "Task deleted")
}

// parsePost checks the method and parses the form. It writes the response
// and returns false when the request cannot proceed.
func (h *Handler) parsePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return false
	}
	if err := r.ParseForm(); err != nil {
		h.redirectWithNotice(w, r, noticeError, "invalid form input")
		return false
	}
	return true
}

func (h *Handler) parseIDPost(w http.ResponseWriter, r *http.Request) (int, bool) {
	if !h.parsePost(w, r) {
		return 0, false
	}
	id, err := strconv.Atoi(trimmedQueryValue(r, "id"))
	if err != nil {
		h.redirectWithNotice(w, r, noticeError, "Task not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) redirectWithNotice(w http.ResponseWriter, r *http.Request, kind, message string) {
	id := h.setNotice(kind, message)
	http.Redirect(w, r, "/?notice="+id, http.StatusSeeOther)
}

func (h *Handler) setNotice(kind, message string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	for id, n := range h.notices {
		if now.Sub(n.created) > noticeTTL {
			delete(h.notices, id)
		}
	}

	id := uuid.NewString()
	h.notices[id] = notice{Kind: kind, Message: message, created: now}
	return id
}

func (h *Handler) consumeNotice(id string) (notice, bool) {
	if id == "" {
		return notice{}, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.notices[id]
	if ok {
		delete(h.notices, id)
	}
	return n, ok
}

func trimmedQueryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func trimmedFormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
