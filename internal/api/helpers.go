package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// errorResponse is the shape every failing endpoint returns
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	respondJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "error", err)
	respondError(w, http.StatusInternalServerError, "%s", msg)
}

// decodeJSON reads the request body into v, rejecting unknown fields so
// typos surface as a 400 instead of silently doing nothing
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseIntParam parses an optional integer query parameter. On a bad
// value it writes the 400 itself and reports ok=false.
func parseIntParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(w, http.StatusBadRequest, "invalid %s: %s", name, raw)
		return 0, false
	}
	return n, true
}

// parseDateParam parses an optional YYYY-MM-DD query parameter
func parseDateParam(w http.ResponseWriter, raw, name string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid %s: expected YYYY-MM-DD, got %s", name, raw)
		return nil, false
	}
	return &t, true
}

// actor identifies who made the change for the audit trail
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "api"
}
