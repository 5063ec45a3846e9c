package api

import (
	"net/http"

	"github.com/crewdeck/crewdeck/internal/types"
)

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal types.Goal
	if err := decodeJSON(r, &goal); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if goal.Status == "" {
		goal.Status = types.GoalActive
	}
	if err := goal.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	owner, err := s.store.GetMember(r.Context(), goal.OwnerID)
	if err != nil {
		s.internalError(w, "failed to look up owner", err)
		return
	}
	if owner == nil {
		respondError(w, http.StatusBadRequest, "owner %s not found", goal.OwnerID)
		return
	}

	if err := s.store.CreateGoal(r.Context(), &goal, actor(r)); err != nil {
		s.internalError(w, "failed to create goal", err)
		return
	}
	respondJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	goal, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get goal", err)
		return
	}
	if goal == nil {
		respondError(w, http.StatusNotFound, "goal %s not found", id)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var status *types.GoalStatus
	if v := q.Get("status"); v != "" {
		gs := types.GoalStatus(v)
		if !gs.IsValid() {
			respondError(w, http.StatusBadRequest, "invalid status: %s", v)
			return
		}
		status = &gs
	}

	goals, err := s.store.ListGoals(r.Context(), q.Get("owner_id"), status)
	if err != nil {
		s.internalError(w, "failed to list goals", err)
		return
	}
	respondJSON(w, http.StatusOK, goals)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get goal", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "goal %s not found", id)
		return
	}

	if err := s.store.UpdateGoal(r.Context(), id, updates, actor(r)); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	goal, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get goal", err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}
