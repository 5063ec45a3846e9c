package api

import (
	"net/http"

	"github.com/crewdeck/crewdeck/internal/schemagraph"
)

// handleSchemaGraph serves the layered ER diagram the schema visualizer
// renders: live table structure straight from sqlite introspection.
func (s *Server) handleSchemaGraph(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.ListTables(r.Context())
	if err != nil {
		s.internalError(w, "failed to introspect schema", err)
		return
	}
	respondJSON(w, http.StatusOK, schemagraph.Build(tables))
}
