package api

import (
	"net/http"
	"strings"

	"github.com/crewdeck/crewdeck/internal/types"
)

// syncItem is one issue extracted by the browser extension
type syncItem struct {
	ExternalKey   string `json:"external_key"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	Priority      int    `json:"priority"`
	AssigneeEmail string `json:"assignee_email,omitempty"`
	Description   string `json:"description,omitempty"`
}

type syncRequest struct {
	Items []syncItem `json:"items"`
}

type syncResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// externalStatus maps tracker status names onto task statuses. Unknown
// statuses fall back to open rather than failing the whole batch.
func externalStatus(raw string) types.TaskStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "in progress", "in_progress", "in review", "in_review":
		return types.StatusInProgress
	case "blocked", "on hold", "on_hold":
		return types.StatusBlocked
	case "done", "closed", "resolved":
		return types.StatusDone
	default:
		return types.StatusOpen
	}
}

func (s *Server) handleSyncIngest(w http.ResponseWriter, r *http.Request) {
	if !s.ingestLimiter.Allow() {
		respondError(w, http.StatusTooManyRequests, "ingest rate limit exceeded")
		return
	}

	var req syncRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "no items to ingest")
		return
	}

	who := actor(r)
	if who == "api" {
		who = "sync"
	}

	var result syncResult
	for _, item := range req.Items {
		if strings.TrimSpace(item.ExternalKey) == "" || strings.TrimSpace(item.Title) == "" {
			result.Skipped++
			result.Errors = append(result.Errors, "item missing external_key or title")
			continue
		}

		task := &types.Task{
			Title:       item.Title,
			Description: item.Description,
			Status:      externalStatus(item.Status),
			Priority:    clampPriority(item.Priority),
			TaskType:    types.TypeTask,
			SyncEnabled: true,
			ExternalKey: item.ExternalKey,
		}

		if item.AssigneeEmail != "" {
			member, err := s.store.GetMemberByEmail(r.Context(), item.AssigneeEmail)
			if err != nil {
				s.internalError(w, "failed to look up assignee", err)
				return
			}
			// Unknown emails leave the task unassigned; the extension
			// sees everyone in the tracker, not just this team.
			if member != nil {
				task.Assignee = member.ID
			}
		}

		created, err := s.store.UpsertTaskByExternalKey(r.Context(), task, who)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, item.ExternalKey+": "+err.Error())
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.Info("sync ingest",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	respondJSON(w, http.StatusOK, result)
}

func clampPriority(p int) int {
	if p < 0 {
		return 0
	}
	if p > 4 {
		return 4
	}
	return p
}
