package api

import (
	"net/http"

	"github.com/crewdeck/crewdeck/internal/types"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var task types.Task
	if err := decodeJSON(r, &task); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if task.Status == "" {
		task.Status = types.StatusOpen
	}
	if task.TaskType == "" {
		task.TaskType = types.TypeTask
	}
	if err := task.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	if task.Assignee != "" {
		member, err := s.store.GetMember(r.Context(), task.Assignee)
		if err != nil {
			s.internalError(w, "failed to look up assignee", err)
			return
		}
		if member == nil {
			respondError(w, http.StatusBadRequest, "assignee %s not found", task.Assignee)
			return
		}
	}

	if err := s.store.CreateTask(r.Context(), &task, actor(r)); err != nil {
		s.internalError(w, "failed to create task", err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get task", err)
		return
	}
	if task == nil {
		respondError(w, http.StatusNotFound, "task %s not found", id)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleSearchTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := types.TaskFilter{}

	if v := q.Get("status"); v != "" {
		status := types.TaskStatus(v)
		if !status.IsValid() {
			respondError(w, http.StatusBadRequest, "invalid status: %s", v)
			return
		}
		filter.Status = &status
	}
	if v := q.Get("type"); v != "" {
		tt := types.TaskType(v)
		if !tt.IsValid() {
			respondError(w, http.StatusBadRequest, "invalid task type: %s", v)
			return
		}
		filter.TaskType = &tt
	}
	if v := q.Get("assignee"); v != "" {
		filter.Assignee = &v
	}
	if q.Get("sync_only") == "true" {
		filter.SyncOnly = true
	}
	limit, ok := parseIntParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	filter.Limit = limit

	tasks, err := s.store.SearchTasks(r.Context(), q.Get("q"), filter)
	if err != nil {
		s.internalError(w, "failed to search tasks", err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var updates map[string]interface{}
	if err := decodeJSON(r, &updates); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if len(updates) == 0 {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	existing, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get task", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "task %s not found", id)
		return
	}

	if err := s.store.UpdateTask(r.Context(), id, updates, actor(r)); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get task", err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleCloseTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var body struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &body); err != nil {
			respondError(w, http.StatusBadRequest, "%v", err)
			return
		}
	}

	existing, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get task", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "task %s not found", id)
		return
	}

	if err := s.store.CloseTask(r.Context(), id, body.Reason, actor(r)); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get task", err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}
