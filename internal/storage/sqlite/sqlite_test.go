package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/types"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return store
}

// mustCreateMember creates a member or fails the test
func mustCreateMember(t *testing.T, store *SQLiteStorage, name, email string) *types.Member {
	t.Helper()
	member := &types.Member{Name: name, Email: email, Role: "engineer"}
	if err := store.CreateMember(context.Background(), member, "test"); err != nil {
		t.Fatalf("Failed to create member %s: %v", name, err)
	}
	return member
}

func TestTaskIDGeneration(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	first := &types.Task{Title: "First task", Status: types.StatusOpen, TaskType: types.TypeTask}
	if err := store.CreateTask(ctx, first, "test"); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	if first.ID != "cd-1" {
		t.Errorf("Expected ID cd-1, got %s", first.ID)
	}

	second := &types.Task{Title: "Second task", Status: types.StatusOpen, TaskType: types.TypeTask}
	if err := store.CreateTask(ctx, second, "test"); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	if second.ID != "cd-2" {
		t.Errorf("Expected ID cd-2, got %s", second.ID)
	}
}

func TestTaskCreateAndGet(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	task := &types.Task{
		Title:       "Migrate duty roster",
		Description: "Move roster data to the new schema",
		Status:      types.StatusOpen,
		Priority:    1,
		TaskType:    types.TypeFeature,
		DueDate:     &due,
	}
	if err := store.CreateTask(ctx, task, "test"); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}
	if got == nil {
		t.Fatal("Expected task, got nil")
	}
	if got.Title != task.Title || got.Priority != 1 || got.TaskType != types.TypeFeature {
		t.Errorf("Task fields mismatch: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("Expected due date %v, got %v", due, got.DueDate)
	}

	// Creation should have recorded an event
	events, err := store.GetEvents(ctx, "task", task.ID, 10)
	if err != nil {
		t.Fatalf("Failed to get events: %v", err)
	}
	if len(events) != 1 || events[0].EventType != types.EventCreated {
		t.Errorf("Expected one created event, got %v", events)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	got, err := store.GetTask(context.Background(), "cd-999")
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing task, got %+v", got)
	}
}

func TestUpdateTaskValidatesFields(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	task := &types.Task{Title: "t", Status: types.StatusOpen, TaskType: types.TypeTask}
	if err := store.CreateTask(ctx, task, "test"); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	// Unknown fields are rejected
	if err := store.UpdateTask(ctx, task.ID, map[string]interface{}{"id": "cd-666"}, "test"); err == nil {
		t.Error("Expected error for disallowed field")
	}

	// Invalid status rejected
	if err := store.UpdateTask(ctx, task.ID, map[string]interface{}{"status": "archived"}, "test"); err == nil {
		t.Error("Expected error for invalid status")
	}

	// Valid update goes through and records a status_changed event
	if err := store.UpdateTask(ctx, task.ID, map[string]interface{}{"status": "in_progress"}, "test"); err != nil {
		t.Fatalf("Failed to update task: %v", err)
	}
	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}
	if got.Status != types.StatusInProgress {
		t.Errorf("Expected in_progress, got %s", got.Status)
	}

	events, _ := store.GetEvents(ctx, "task", task.ID, 10)
	if len(events) != 2 || events[1].EventType != types.EventStatusChanged {
		t.Errorf("Expected status_changed event, got %v", events)
	}
}

func TestCloseTask(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	task := &types.Task{Title: "t", Status: types.StatusOpen, TaskType: types.TypeTask}
	if err := store.CreateTask(ctx, task, "test"); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	if err := store.CloseTask(ctx, task.ID, "shipped", "test"); err != nil {
		t.Fatalf("Failed to close task: %v", err)
	}

	got, _ := store.GetTask(ctx, task.ID)
	if got.Status != types.StatusDone {
		t.Errorf("Expected done, got %s", got.Status)
	}
	if got.ClosedAt == nil {
		t.Error("Expected closed_at to be set")
	}

	// Closing again fails
	if err := store.CloseTask(ctx, task.ID, "again", "test"); err == nil {
		t.Error("Expected error closing an already-done task")
	}
}

func TestSearchTasks(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	seed := []*types.Task{
		{Title: "Fix login timeout", Status: types.StatusOpen, TaskType: types.TypeBug, Priority: 0},
		{Title: "Quarterly roadmap", Status: types.StatusOpen, TaskType: types.TypeProject, Priority: 2},
		{Title: "Fix logout redirect", Status: types.StatusDone, TaskType: types.TypeBug, Priority: 1},
	}
	for _, task := range seed {
		if err := store.CreateTask(ctx, task, "test"); err != nil {
			t.Fatalf("Failed to seed task: %v", err)
		}
	}

	results, err := store.SearchTasks(ctx, "Fix", types.TaskFilter{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results for 'Fix', got %d", len(results))
	}

	open := types.StatusOpen
	results, err = store.SearchTasks(ctx, "Fix", types.TaskFilter{Status: &open})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Fix login timeout" {
		t.Errorf("Expected only the open fix task, got %v", results)
	}

	// Empty query lists everything, priority order first
	results, err = store.SearchTasks(ctx, "", types.TaskFilter{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}
	if results[0].Priority != 0 {
		t.Errorf("Expected priority 0 first, got %d", results[0].Priority)
	}
}

func TestUpsertTaskByExternalKey(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	item := &types.Task{
		Title:       "PROJ-101: Checkout flaky",
		Status:      types.StatusOpen,
		TaskType:    types.TypeBug,
		Priority:    2,
		ExternalKey: "PROJ-101",
	}
	created, err := store.UpsertTaskByExternalKey(ctx, item, "extension")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if !created {
		t.Error("Expected first upsert to create")
	}
	if !item.SyncEnabled {
		t.Error("Expected upserted task to be sync-enabled")
	}

	// Same key again with a new status updates in place
	update := &types.Task{
		Title:       "PROJ-101: Checkout flaky",
		Status:      types.StatusInProgress,
		TaskType:    types.TypeBug,
		Priority:    2,
		ExternalKey: "PROJ-101",
	}
	created, err = store.UpsertTaskByExternalKey(ctx, update, "extension")
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	if created {
		t.Error("Expected second upsert to update, not create")
	}
	if update.ID != item.ID {
		t.Errorf("Expected upsert to reuse ID %s, got %s", item.ID, update.ID)
	}

	got, _ := store.GetTaskByExternalKey(ctx, "PROJ-101")
	if got.Status != types.StatusInProgress {
		t.Errorf("Expected in_progress after sync, got %s", got.Status)
	}

	// No changes is a no-op, not an error
	created, err = store.UpsertTaskByExternalKey(ctx, update, "extension")
	if err != nil {
		t.Fatalf("No-op upsert failed: %v", err)
	}
	if created {
		t.Error("Expected no-op upsert to report update")
	}
}

func TestGetStatistics(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	// Empty store: all zeros, no scan errors
	stats, err := store.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalTasks != 0 || stats.ActiveMembers != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}

	member := mustCreateMember(t, store, "Ada", "ada@example.com")
	task := &types.Task{Title: "t", Status: types.StatusOpen, TaskType: types.TypeTask,
		SyncEnabled: true, ExternalKey: "PROJ-1"}
	if err := store.CreateTask(ctx, task, "test"); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	n := &types.Notification{RecipientID: member.ID, Kind: "task_assigned", Title: "hi"}
	if err := store.CreateNotification(ctx, n); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}

	stats, err = store.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalTasks != 1 || stats.OpenTasks != 1 || stats.SyncItems != 1 {
		t.Errorf("Unexpected task stats: %+v", stats)
	}
	if stats.ActiveMembers != 1 || stats.UnreadNotifications != 1 {
		t.Errorf("Unexpected member/notification stats: %+v", stats)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	val, err := store.GetConfig(ctx, "missing")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected empty value for missing key, got %q", val)
	}

	if err := store.SetConfig(ctx, "task_prefix", "eng"); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	if err := store.SetConfig(ctx, "task_prefix", "ops"); err != nil {
		t.Fatalf("SetConfig overwrite failed: %v", err)
	}

	val, err = store.GetConfig(ctx, "task_prefix")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if val != "ops" {
		t.Errorf("Expected ops, got %q", val)
	}
}
