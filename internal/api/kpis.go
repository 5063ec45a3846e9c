package api

import (
	"net/http"
	"time"

	"github.com/crewdeck/crewdeck/internal/kpi"
	"github.com/crewdeck/crewdeck/internal/types"
)

func (s *Server) handleCreateKPI(w http.ResponseWriter, r *http.Request) {
	var k types.KPI
	if err := decodeJSON(r, &k); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if err := k.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	if err := s.store.CreateKPI(r.Context(), &k, actor(r)); err != nil {
		s.internalError(w, "failed to create kpi", err)
		return
	}
	respondJSON(w, http.StatusCreated, k)
}

func (s *Server) handleListKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.store.ListKPIs(r.Context())
	if err != nil {
		s.internalError(w, "failed to list kpis", err)
		return
	}
	respondJSON(w, http.StatusOK, kpis)
}

func (s *Server) handleAddKPIPoint(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	k, err := s.store.GetKPI(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get kpi", err)
		return
	}
	if k == nil {
		respondError(w, http.StatusNotFound, "kpi %s not found", id)
		return
	}

	var point types.KPIPoint
	if err := decodeJSON(r, &point); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	point.KPIID = id

	if err := s.store.AddKPIPoint(r.Context(), &point); err != nil {
		s.internalError(w, "failed to add kpi point", err)
		return
	}
	respondJSON(w, http.StatusCreated, point)
}

// seriesResponse carries the raw points plus the computed trend the
// dashboard renders as a sparkline
type seriesResponse struct {
	KPI    *types.KPI        `json:"kpi"`
	Points []*types.KPIPoint `json:"points"`
	Trend  kpi.Trend         `json:"trend"`
}

func (s *Server) handleKPISeries(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	k, err := s.store.GetKPI(r.Context(), id)
	if err != nil {
		s.internalError(w, "failed to get kpi", err)
		return
	}
	if k == nil {
		respondError(w, http.StatusNotFound, "kpi %s not found", id)
		return
	}

	since, ok := parseDateParam(w, r.URL.Query().Get("since"), "since")
	if !ok {
		return
	}
	var from time.Time
	if since != nil {
		from = *since
	}

	points, err := s.store.GetKPISeries(r.Context(), id, from)
	if err != nil {
		s.internalError(w, "failed to get kpi series", err)
		return
	}

	respondJSON(w, http.StatusOK, seriesResponse{
		KPI:    k,
		Points: points,
		Trend:  kpi.Compute(k, points),
	})
}
