package api

import (
	"net/http"
	"strings"

	"github.com/crewdeck/crewdeck/internal/types"
)

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var member types.Member
	if err := decodeJSON(r, &member); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if err := member.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	if err := s.store.CreateMember(r.Context(), &member, actor(r)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			respondError(w, http.StatusConflict, "a member with email %s already exists", member.Email)
			return
		}
		s.internalError(w, "failed to create member", err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	member, err := s.store.GetMember(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get member", err)
		return
	}
	if member == nil {
		respondError(w, http.StatusNotFound, "member %s not found", id)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	members, err := s.store.ListMembers(r.Context(), activeOnly)
	if err != nil {
		s.internalError(w, "failed to list members", err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetMember(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get member", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "member %s not found", id)
		return
	}

	if err := s.store.UpdateMember(r.Context(), id, updates, actor(r)); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	member, err := s.store.GetMember(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get member", err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (s *Server) handleDeactivateMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.store.GetMember(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get member", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "member %s not found", id)
		return
	}

	if err := s.store.DeactivateMember(r.Context(), id, actor(r)); err != nil {
		s.internalError(w, "failed to deactivate member", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
