package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crewdeck/crewdeck/internal/config"
	"github.com/crewdeck/crewdeck/internal/storage"
	"github.com/crewdeck/crewdeck/internal/types"
)

func setupTestServer(t *testing.T) (*Server, storage.Storage) {
	t.Helper()
	store, err := storage.NewStorage(context.Background(), &storage.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, config.DefaultServer(), nil), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func createTestMember(t *testing.T, h http.Handler, name, email string) types.Member {
	t.Helper()
	rec := doJSON(t, h, "POST", "/api/v1/members", map[string]interface{}{
		"name":  name,
		"email": email,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating member, got %d: %s", rec.Code, rec.Body.String())
	}
	var m types.Member
	decodeBody(t, rec, &m)
	return m
}

func TestHealthz(t *testing.T) {
	srv, _ := setupTestServer(t)
	rec := doJSON(t, srv.Handler(), "GET", "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/v1/tasks", map[string]interface{}{
		"title":    "Fix flaky deploy",
		"priority": 1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var task types.Task
	decodeBody(t, rec, &task)
	if task.ID == "" {
		t.Fatal("expected a generated task ID")
	}
	if task.Status != types.StatusOpen {
		t.Errorf("expected default status open, got %s", task.Status)
	}

	rec = doJSON(t, h, "GET", "/api/v1/tasks/"+task.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, h, "PATCH", "/api/v1/tasks/"+task.ID, map[string]interface{}{
		"status": "in_progress",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &task)
	if task.Status != types.StatusInProgress {
		t.Errorf("expected in_progress, got %s", task.Status)
	}

	rec = doJSON(t, h, "POST", "/api/v1/tasks/"+task.ID+"/close", map[string]interface{}{
		"reason": "shipped",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &task)
	if task.Status != types.StatusDone {
		t.Errorf("expected done, got %s", task.Status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/v1/tasks", map[string]interface{}{
		"title":    "",
		"priority": 2,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty title, got %d", rec.Code)
	}
	var er struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &er)
	if er.Error == "" {
		t.Error("expected error message in response body")
	}

	rec = doJSON(t, h, "POST", "/api/v1/tasks", map[string]interface{}{
		"title":    "Bad assignee",
		"assignee": "no-such-member",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown assignee, got %d", rec.Code)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	srv, _ := setupTestServer(t)
	rec := doJSON(t, srv.Handler(), "GET", "/api/v1/tasks/cd-999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSearchTasksFilters(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()

	for i, title := range []string{"alpha rollout", "beta rollout", "gamma cleanup"} {
		status := "open"
		if i == 2 {
			status = "done"
		}
		rec := doJSON(t, h, "POST", "/api/v1/tasks", map[string]interface{}{
			"title":  title,
			"status": status,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, h, "GET", "/api/v1/tasks?q=rollout&status=open", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var tasks []types.Task
	decodeBody(t, rec, &tasks)
	if len(tasks) != 2 {
		t.Errorf("expected 2 open rollout tasks, got %d", len(tasks))
	}

	rec = doJSON(t, h, "GET", "/api/v1/tasks?status=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", rec.Code)
	}
}

func TestDutyConflictReturns409(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	member := createTestMember(t, h, "Ana", "ana@example.com")

	rec := doJSON(t, h, "POST", "/api/v1/duties", map[string]interface{}{
		"member_id":  member.ID,
		"kind":       "oncall",
		"start_date": "2026-09-01T00:00:00Z",
		"end_date":   "2026-09-07T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Shares the Sep 7 boundary; inclusive ranges conflict.
	rec = doJSON(t, h, "POST", "/api/v1/duties", map[string]interface{}{
		"member_id":  member.ID,
		"kind":       "oncall",
		"start_date": "2026-09-07T00:00:00Z",
		"end_date":   "2026-09-10T00:00:00Z",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var conflict conflictResponse
	decodeBody(t, rec, &conflict)
	if len(conflict.Conflicts) != 1 {
		t.Errorf("expected 1 conflict in response, got %d", len(conflict.Conflicts))
	}

	// Different kind on the same dates is fine.
	rec = doJSON(t, h, "POST", "/api/v1/duties", map[string]interface{}{
		"member_id":  member.ID,
		"kind":       "devops",
		"start_date": "2026-09-01T00:00:00Z",
		"end_date":   "2026-09-07T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for different kind, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateDutyExcludesSelf(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	member := createTestMember(t, h, "Bo", "bo@example.com")

	rec := doJSON(t, h, "POST", "/api/v1/duties", map[string]interface{}{
		"member_id":  member.ID,
		"kind":       "oncall",
		"start_date": "2026-09-01T00:00:00Z",
		"end_date":   "2026-09-07T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var d types.Duty
	decodeBody(t, rec, &d)

	// Extending the same duty must not conflict with itself.
	rec = doJSON(t, h, "PATCH", "/api/v1/duties/"+d.ID, map[string]interface{}{
		"end_date": "2026-09-09T00:00:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDutyGaps(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	member := createTestMember(t, h, "Cy", "cy@example.com")

	rec := doJSON(t, h, "POST", "/api/v1/duties", map[string]interface{}{
		"member_id":  member.ID,
		"kind":       "oncall",
		"start_date": "2026-09-01T00:00:00Z",
		"end_date":   "2026-09-03T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "GET", "/api/v1/duties/gaps?kind=oncall&from=2026-09-01&to=2026-09-05", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Gaps []string `json:"gaps"`
	}
	decodeBody(t, rec, &resp)
	want := []string{"2026-09-04", "2026-09-05"}
	if len(resp.Gaps) != len(want) {
		t.Fatalf("expected gaps %v, got %v", want, resp.Gaps)
	}
	for i := range want {
		if resp.Gaps[i] != want[i] {
			t.Errorf("gap %d: expected %s, got %s", i, want[i], resp.Gaps[i])
		}
	}
}

func TestGoalsAndProgress(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	member := createTestMember(t, h, "Di", "di@example.com")

	rec := doJSON(t, h, "POST", "/api/v1/goals", map[string]interface{}{
		"title":    "Cut p99 latency in half",
		"owner_id": member.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var goal types.Goal
	decodeBody(t, rec, &goal)

	rec = doJSON(t, h, "PATCH", "/api/v1/goals/"+goal.ID, map[string]interface{}{
		"progress": 150,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for progress > 100, got %d", rec.Code)
	}

	rec = doJSON(t, h, "PATCH", "/api/v1/goals/"+goal.ID, map[string]interface{}{
		"progress": 60,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &goal)
	if goal.Progress != 60 {
		t.Errorf("expected progress 60, got %d", goal.Progress)
	}

	rec = doJSON(t, h, "GET", "/api/v1/goals?owner_id="+member.ID+"&status=active", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var goals []types.Goal
	decodeBody(t, rec, &goals)
	if len(goals) != 1 {
		t.Errorf("expected 1 active goal, got %d", len(goals))
	}
}

func TestKPISeriesWithTrend(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/v1/kpis", map[string]interface{}{
		"name":      "bug inflow",
		"direction": "down_good",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var k types.KPI
	decodeBody(t, rec, &k)

	for i, v := range []float64{20, 15, 10, 5} {
		rec = doJSON(t, h, "POST", "/api/v1/kpis/"+k.ID+"/points", map[string]interface{}{
			"observed_at": fmt.Sprintf("2026-08-0%dT00:00:00Z", i+1),
			"value":       v,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, h, "GET", "/api/v1/kpis/"+k.ID+"/series", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Points []types.KPIPoint `json:"points"`
		Trend  struct {
			Direction string    `json:"direction"`
			Improving bool      `json:"improving"`
			Sparkline []float64 `json:"sparkline"`
		} `json:"trend"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(resp.Points))
	}
	if resp.Trend.Direction != "down" {
		t.Errorf("expected trend down, got %s", resp.Trend.Direction)
	}
	if !resp.Trend.Improving {
		t.Error("falling bug inflow should be improving for a down_good KPI")
	}
	if len(resp.Trend.Sparkline) != 4 {
		t.Errorf("expected 4 sparkline values, got %d", len(resp.Trend.Sparkline))
	}
}

func TestNotificationsPanel(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	member := createTestMember(t, h, "Ed", "ed@example.com")

	var first types.Notification
	for _, title := range []string{"duty starts Monday", "task assigned"} {
		rec := doJSON(t, h, "POST", "/api/v1/notifications", map[string]interface{}{
			"recipient_id": member.ID,
			"kind":         "duty_reminder",
			"title":        title,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if first.ID == "" {
			decodeBody(t, rec, &first)
		}
	}

	rec := doJSON(t, h, "GET", "/api/v1/notifications?recipient_id="+member.ID+"&unread=true", nil)
	var list []types.Notification
	decodeBody(t, rec, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 unread, got %d", len(list))
	}

	rec = doJSON(t, h, "POST", "/api/v1/notifications/"+first.ID+"/read", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "POST", "/api/v1/notifications/read-all", map[string]interface{}{
		"recipient_id": member.ID,
	})
	var marked map[string]int
	decodeBody(t, rec, &marked)
	if marked["marked"] != 1 {
		t.Errorf("expected 1 newly marked, got %d", marked["marked"])
	}
}

func TestSettingsMergeAndMenuRoundTrip(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	member := createTestMember(t, h, "Flo", "flo@example.com")

	rec := doJSON(t, h, "PUT", "/api/v1/settings/"+member.ID, map[string]interface{}{
		"theme": "dark",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, "PUT", "/api/v1/settings/"+member.ID, map[string]interface{}{
		"default_mode": "people",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var settings types.UserSettings
	decodeBody(t, rec, &settings)
	if settings.Theme != "dark" || settings.DefaultMode != types.ModePeople {
		t.Errorf("merge lost fields: %+v", settings)
	}

	menu := map[string]interface{}{
		"folders": []map[string]interface{}{
			{"name": "Ops", "items": []map[string]string{{"key": "duties"}, {"key": "kpis"}}},
			{"name": "Team", "items": []map[string]string{{"key": "members"}}},
		},
	}
	rec = doJSON(t, h, "PUT", "/api/v1/menu/"+member.ID+"/people", menu)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "GET", "/api/v1/menu/"+member.ID+"/people", nil)
	var cfg types.MenuConfig
	decodeBody(t, rec, &cfg)
	if len(cfg.Folders) != 2 || cfg.Folders[0].Name != "Ops" {
		t.Errorf("menu order not preserved: %+v", cfg.Folders)
	}

	rec = doJSON(t, h, "GET", "/api/v1/menu/"+member.ID+"/sideways", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid mode, got %d", rec.Code)
	}
}

func TestEmailPrefsRoundTrip(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	member := createTestMember(t, h, "Gil", "gil@example.com")

	rec := doJSON(t, h, "PUT", "/api/v1/email-prefs/"+member.ID, map[string]interface{}{
		"digest": "weekly",
		"kinds":  map[string]bool{"duty_reminder": true, "task_assigned": false},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "GET", "/api/v1/email-prefs/"+member.ID, nil)
	var prefs types.EmailPrefs
	decodeBody(t, rec, &prefs)
	if prefs.Digest != types.DigestWeekly {
		t.Errorf("expected weekly digest, got %s", prefs.Digest)
	}
	if !prefs.Kinds["duty_reminder"] || prefs.Kinds["task_assigned"] {
		t.Errorf("kinds not round-tripped: %v", prefs.Kinds)
	}

	rec = doJSON(t, h, "PUT", "/api/v1/email-prefs/"+member.ID, map[string]interface{}{
		"digest": "hourly",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad digest, got %d", rec.Code)
	}
}

func TestSyncIngest(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	member := createTestMember(t, h, "Hana", "hana@example.com")

	rec := doJSON(t, h, "POST", "/api/v1/sync/ingest", map[string]interface{}{
		"items": []map[string]interface{}{
			{"external_key": "PROJ-1", "title": "Login broken", "status": "In Progress", "priority": 1, "assignee_email": "hana@example.com"},
			{"external_key": "PROJ-2", "title": "Slow dashboard", "status": "To Do", "priority": 9},
			{"title": "no key"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result syncResult
	decodeBody(t, rec, &result)
	if result.Created != 2 || result.Updated != 0 || result.Skipped != 1 {
		t.Fatalf("expected 2 created / 0 updated / 1 skipped, got %+v", result)
	}

	// Second batch updates by external key.
	rec = doJSON(t, h, "POST", "/api/v1/sync/ingest", map[string]interface{}{
		"items": []map[string]interface{}{
			{"external_key": "PROJ-1", "title": "Login broken", "status": "Done", "priority": 1},
		},
	})
	decodeBody(t, rec, &result)
	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("expected upsert to update, got %+v", result)
	}

	rec = doJSON(t, h, "GET", "/api/v1/tasks?sync_only=true", nil)
	var tasks []types.Task
	decodeBody(t, rec, &tasks)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 sync items, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.ExternalKey == "PROJ-1" {
			if task.Status != types.StatusDone {
				t.Errorf("PROJ-1 should be done after second batch, got %s", task.Status)
			}
			if task.Assignee != member.ID {
				t.Errorf("PROJ-1 should be assigned to %s, got %q", member.ID, task.Assignee)
			}
		}
		if task.ExternalKey == "PROJ-2" && task.Priority != 4 {
			t.Errorf("PROJ-2 priority should clamp to 4, got %d", task.Priority)
		}
	}
}

func TestSyncIngestRateLimit(t *testing.T) {
	store, err := storage.NewStorage(context.Background(), &storage.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultServer()
	cfg.IngestRatePerSecond = 1
	cfg.IngestBurst = 1
	h := New(store, cfg, nil).Handler()

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"external_key": "PROJ-9", "title": "x"},
		},
	}
	rec := doJSON(t, h, "POST", "/api/v1/sync/ingest", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for first request, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, "POST", "/api/v1/sync/ingest", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 when burst exhausted, got %d", rec.Code)
	}
}

func TestSchemaGraphEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t)
	rec := doJSON(t, srv.Handler(), "GET", "/api/v1/schema/graph", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var graph struct {
		Nodes []struct {
			Table string `json:"table"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
	}
	decodeBody(t, rec, &graph)
	if len(graph.Nodes) == 0 {
		t.Fatal("expected schema nodes")
	}
	foundDutyEdge := false
	for _, e := range graph.Edges {
		if e.From == "duties" && e.To == "members" {
			foundDutyEdge = true
		}
	}
	if !foundDutyEdge {
		t.Error("expected duties -> members FK edge in graph")
	}
}

func TestEventsEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/v1/tasks", map[string]interface{}{"title": "audited"})
	var task types.Task
	decodeBody(t, rec, &task)

	rec = doJSON(t, h, "PATCH", "/api/v1/tasks/"+task.ID, map[string]interface{}{"status": "in_progress"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "GET", "/api/v1/events/task/"+task.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var events []types.Event
	decodeBody(t, rec, &events)
	if len(events) < 2 {
		t.Fatalf("expected created + status_changed events, got %d", len(events))
	}
	if events[0].EventType != types.EventCreated {
		t.Errorf("first event should be created, got %s", events[0].EventType)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t)
	h := srv.Handler()
	createTestMember(t, h, "Ira", "ira@example.com")
	doJSON(t, h, "POST", "/api/v1/tasks", map[string]interface{}{"title": "one"})

	rec := doJSON(t, h, "GET", "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats types.Statistics
	decodeBody(t, rec, &stats)
	if stats.TotalTasks != 1 || stats.ActiveMembers != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
