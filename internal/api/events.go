package api

import (
	"net/http"
)

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseIntParam(w, r.URL.Query().Get("limit"), "limit")
	if !ok {
		return
	}

	events, err := s.store.GetEvents(r.Context(), r.PathValue("kind"), r.PathValue("id"), limit)
	if err != nil {
		s.internalError(w, "failed to get events", err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}
