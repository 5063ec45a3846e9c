package api

import (
	"net/http"

	"github.com/crewdeck/crewdeck/internal/types"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context(), r.PathValue("memberID"))
	if err != nil {
		s.internalError(w, "failed to get settings", err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.UserSettings
	if err := decodeJSON(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	settings.MemberID = r.PathValue("memberID")

	if err := s.store.PutSettings(r.Context(), &settings); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	stored, err := s.store.GetSettings(r.Context(), settings.MemberID)
	if err != nil {
		s.internalError(w, "failed to get settings", err)
		return
	}
	respondJSON(w, http.StatusOK, stored)
}

func (s *Server) handleGetMenuConfig(w http.ResponseWriter, r *http.Request) {
	mode := types.Mode(r.PathValue("mode"))
	if !mode.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid mode: %s", r.PathValue("mode"))
		return
	}

	cfg, err := s.store.GetMenuConfig(r.Context(), r.PathValue("memberID"), mode)
	if err != nil {
		s.internalError(w, "failed to get menu config", err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handlePutMenuConfig(w http.ResponseWriter, r *http.Request) {
	var cfg types.MenuConfig
	if err := decodeJSON(r, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	cfg.MemberID = r.PathValue("memberID")
	cfg.Mode = types.Mode(r.PathValue("mode"))

	if err := cfg.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if err := s.store.PutMenuConfig(r.Context(), &cfg); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleGetEmailPrefs(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.store.GetEmailPrefs(r.Context(), r.PathValue("memberID"))
	if err != nil {
		s.internalError(w, "failed to get email prefs", err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutEmailPrefs(w http.ResponseWriter, r *http.Request) {
	var prefs types.EmailPrefs
	if err := decodeJSON(r, &prefs); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	prefs.MemberID = r.PathValue("memberID")
	if prefs.Digest == "" {
		prefs.Digest = types.DigestOff
	}
	if !prefs.Digest.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid digest frequency: %s", prefs.Digest)
		return
	}

	if err := s.store.PutEmailPrefs(r.Context(), &prefs); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}
