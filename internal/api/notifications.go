package api

import (
	"net/http"

	"github.com/crewdeck/crewdeck/internal/types"
)

func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var n types.Notification
	if err := decodeJSON(r, &n); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	if err := s.store.CreateNotification(r.Context(), &n); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	respondJSON(w, http.StatusCreated, n)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recipient := q.Get("recipient_id")
	if recipient == "" {
		respondError(w, http.StatusBadRequest, "recipient_id is required")
		return
	}
	limit, ok := parseIntParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}

	notifications, err := s.store.ListNotifications(r.Context(), recipient, q.Get("unread") == "true", limit)
	if err != nil {
		s.internalError(w, "failed to list notifications", err)
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleReadNotification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.MarkNotificationRead(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "%v", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (s *Server) handleReadAllNotifications(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RecipientID string `json:"recipient_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if body.RecipientID == "" {
		respondError(w, http.StatusBadRequest, "recipient_id is required")
		return
	}

	count, err := s.store.MarkAllNotificationsRead(r.Context(), body.RecipientID)
	if err != nil {
		s.internalError(w, "failed to mark notifications read", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"marked": count})
}
