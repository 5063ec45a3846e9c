package api

import (
	"net/http"

	"github.com/crewdeck/crewdeck/internal/duty"
	"github.com/crewdeck/crewdeck/internal/types"
)

// conflictResponse is returned with a 409 when a duty overlaps an
// existing assignment of the same kind for the same member
type conflictResponse struct {
	Error     string          `json:"error"`
	Conflicts []duty.Conflict `json:"conflicts"`
}

func (s *Server) handleCreateDuty(w http.ResponseWriter, r *http.Request) {
	var d types.Duty
	if err := decodeJSON(r, &d); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	d.ID = ""

	conflicts, err := duty.CheckConflicts(r.Context(), s.store, &d)
	if err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if len(conflicts) > 0 {
		respondJSON(w, http.StatusConflict, conflictResponse{
			Error:     "duty overlaps an existing assignment",
			Conflicts: conflicts,
		})
		return
	}

	if err := s.store.CreateDuty(r.Context(), &d, actor(r)); err != nil {
		s.internalError(w, "failed to create duty", err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetDuty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := s.store.GetDuty(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get duty", err)
		return
	}
	if d == nil {
		respondError(w, http.StatusNotFound, "duty %s not found", id)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleListDuties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := types.DutyFilter{MemberID: q.Get("member_id")}

	if v := q.Get("kind"); v != "" {
		kind := types.DutyKind(v)
		if !kind.IsValid() {
			respondError(w, http.StatusBadRequest, "invalid kind: %s", v)
			return
		}
		filter.Kind = &kind
	}
	from, ok := parseDateParam(w, q.Get("from"), "from")
	if !ok {
		return
	}
	filter.From = from
	to, ok := parseDateParam(w, q.Get("to"), "to")
	if !ok {
		return
	}
	filter.To = to

	duties, err := s.store.ListDuties(r.Context(), filter)
	if err != nil {
		s.internalError(w, "failed to list duties", err)
		return
	}
	respondJSON(w, http.StatusOK, duties)
}

func (s *Server) handleUpdateDuty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.store.GetDuty(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get duty", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "duty %s not found", id)
		return
	}

	// Updates replace the row wholesale: start from the stored duty so
	// omitted fields keep their values.
	updated := *existing
	if err := decodeJSON(r, &updated); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	updated.ID = id

	conflicts, err := duty.CheckConflicts(r.Context(), s.store, &updated)
	if err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if len(conflicts) > 0 {
		respondJSON(w, http.StatusConflict, conflictResponse{
			Error:     "duty overlaps an existing assignment",
			Conflicts: conflicts,
		})
		return
	}

	if err := s.store.UpdateDuty(r.Context(), &updated, actor(r)); err != nil {
		s.internalError(w, "failed to update duty", err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDuty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.store.GetDuty(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get duty", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "duty %s not found", id)
		return
	}

	if err := s.store.DeleteDuty(r.Context(), id, actor(r)); err != nil {
		s.internalError(w, "failed to delete duty", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDutyGaps reports days in [from, to] with no duty of the given
// kind scheduled for anyone
func (s *Server) handleDutyGaps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind := types.DutyKind(q.Get("kind"))
	if !kind.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid kind: %s", q.Get("kind"))
		return
	}
	from, ok := parseDateParam(w, q.Get("from"), "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(w, q.Get("to"), "to")
	if !ok {
		return
	}
	if from == nil || to == nil {
		respondError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	duties, err := s.store.ListDuties(r.Context(), types.DutyFilter{Kind: &kind, From: from, To: to})
	if err != nil {
		s.internalError(w, "failed to list duties", err)
		return
	}

	gaps := duty.CoverageGaps(duties, *from, *to, kind)
	days := make([]string, 0, len(gaps))
	for _, g := range gaps {
		days = append(days, g.Format("2006-01-02"))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"kind": kind,
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
		"gaps": days,
	})
}
