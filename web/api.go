package web

import (
	"encoding/json"
	"net/http"

	"github.com/amonks/tasks/task"
)

type tasksResponse struct {
	Tasks    []task.Task  `json:"tasks"`
	Archived []task.Task  `json:"archived"`
	Summary  task.Summary `json:"summary"`
}

func (h *Handler) handleAPITasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	sorted := h.store.ListSorted()
	response := tasksResponse{
		Tasks:    nonNil(sorted),
		Archived: nonNil(h.store.ListArchived()),
		Summary:  task.Summarize(sorted),
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

func nonNil(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}
