package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crewdeck/crewdeck/internal/types"
)

// allowedTaskUpdateFields whitelists column names for partial updates
var allowedTaskUpdateFields = map[string]bool{
	"title":        true,
	"description":  true,
	"notes":        true,
	"status":       true,
	"priority":     true,
	"task_type":    true,
	"assignee":     true,
	"due_date":     true,
	"sync_enabled": true,
	"external_key": true,
}

// CreateTask creates a new task, generating a counter-based ID if unset
func (s *SQLiteStorage) CreateTask(ctx context.Context, task *types.Task, actor string) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	// ID generation and the insert must share a connection: we use raw
	// BEGIN IMMEDIATE to serialize counter increments across writers,
	// which database/sql's BeginTx (always DEFERRED on sqlite3) can't do.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("failed to begin immediate transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	if task.ID == "" {
		id, err := nextTaskID(ctx, conn, s.taskPrefix)
		if err != nil {
			return err
		}
		task.ID = id
	}

	externalKey := sql.NullString{String: task.ExternalKey, Valid: task.ExternalKey != ""}
	assignee := sql.NullString{String: task.Assignee, Valid: task.Assignee != ""}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, notes, status, priority, task_type,
			assignee, due_date, sync_enabled, external_key, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID, task.Title, task.Description, task.Notes, task.Status,
		task.Priority, task.TaskType, assignee, task.DueDate,
		task.SyncEnabled, externalKey, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	eventData, _ := json.Marshal(task)
	_, err = conn.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, new_value)
		VALUES ('task', ?, ?, ?, ?)
	`, task.ID, types.EventCreated, actor, string(eventData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}

// nextTaskID atomically increments the counter for prefix and returns the
// formatted ID. The counter is seeded from the max existing numeric suffix
// so imported databases keep counting from where they left off.
func nextTaskID(ctx context.Context, conn *sql.Conn, prefix string) (string, error) {
	var nextID int
	err := conn.QueryRowContext(ctx, `
		INSERT INTO task_counters (prefix, last_id)
		SELECT ?, COALESCE(MAX(CAST(substr(id, LENGTH(?) + 2) AS INTEGER)), 0) + 1
		FROM tasks
		WHERE id LIKE ? || '-%'
		  AND substr(id, LENGTH(?) + 2) GLOB '[0-9]*'
		ON CONFLICT(prefix) DO UPDATE SET last_id = last_id + 1
		RETURNING last_id
	`, prefix, prefix, prefix, prefix).Scan(&nextID)
	if err != nil {
		return "", fmt.Errorf("failed to generate next ID for prefix %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%d", prefix, nextID), nil
}

// GetTask retrieves a task by ID. Returns (nil, nil) if not found.
func (s *SQLiteStorage) GetTask(ctx context.Context, id string) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, notes, status, priority, task_type,
		       assignee, due_date, sync_enabled, external_key,
		       created_at, updated_at, closed_at
		FROM tasks
		WHERE id = ?
	`, id)
	return scanTask(row)
}

// GetTaskByExternalKey retrieves a task by its sync key. Returns (nil, nil)
// if not found.
func (s *SQLiteStorage) GetTaskByExternalKey(ctx context.Context, key string) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, notes, status, priority, task_type,
		       assignee, due_date, sync_enabled, external_key,
		       created_at, updated_at, closed_at
		FROM tasks
		WHERE external_key = ?
	`, key)
	return scanTask(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*types.Task, error) {
	var task types.Task
	var assignee, externalKey sql.NullString
	var dueDate, closedAt sql.NullTime

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Notes, &task.Status,
		&task.Priority, &task.TaskType, &assignee, &dueDate,
		&task.SyncEnabled, &externalKey, &task.CreatedAt, &task.UpdatedAt, &closedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	if assignee.Valid {
		task.Assignee = assignee.String
	}
	if externalKey.Valid {
		task.ExternalKey = externalKey.String
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if closedAt.Valid {
		task.ClosedAt = &closedAt.Time
	}

	return &task, nil
}

// UpdateTask applies a partial update. Field names are validated against a
// whitelist; value checks mirror Task.Validate for the fields present.
func (s *SQLiteStorage) UpdateTask(ctx context.Context, id string, updates map[string]interface{}, actor string) error {
	oldTask, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if oldTask == nil {
		return fmt.Errorf("task %s not found", id)
	}

	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	for key, value := range updates {
		if !allowedTaskUpdateFields[key] {
			return fmt.Errorf("invalid field for update: %s", key)
		}

		switch key {
		case "priority":
			if priority, ok := toInt(value); ok {
				if priority < 0 || priority > 4 {
					return fmt.Errorf("priority must be between 0 and 4 (got %d)", priority)
				}
			}
		case "status":
			if status, ok := value.(string); ok {
				if !types.TaskStatus(status).IsValid() {
					return fmt.Errorf("invalid status: %s", status)
				}
			}
		case "task_type":
			if taskType, ok := value.(string); ok {
				if !types.TaskType(taskType).IsValid() {
					return fmt.Errorf("invalid task type: %s", taskType)
				}
			}
		case "title":
			if title, ok := value.(string); ok {
				if len(title) == 0 || len(title) > 500 {
					return fmt.Errorf("title must be 1-500 characters")
				}
			}
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = ?", key))
		args = append(args, value)
	}
	args = append(args, id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	oldData, _ := json.Marshal(oldTask)
	newData, _ := json.Marshal(updates)

	eventType := types.EventUpdated
	if _, ok := updates["status"]; ok {
		eventType = types.EventStatusChanged
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, old_value, new_value)
		VALUES ('task', ?, ?, ?, ?, ?)
	`, id, eventType, actor, string(oldData), string(newData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// CloseTask marks a task done and records the reason
func (s *SQLiteStorage) CloseTask(ctx context.Context, id string, reason string, actor string) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %s not found", id)
	}
	if task.Status == types.StatusDone {
		return fmt.Errorf("task %s is already done", id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET status = ?, closed_at = ?, updated_at = ? WHERE id = ?
	`, types.StatusDone, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to close task: %w", err)
	}

	oldStatus := string(task.Status)
	newStatus := string(types.StatusDone)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, old_value, new_value, comment)
		VALUES ('task', ?, ?, ?, ?, ?, ?)
	`, id, types.EventClosed, actor, oldStatus, newStatus, reason)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// SearchTasks finds tasks matching a text query and filter. An empty query
// matches everything, so the filter alone can drive listings.
func (s *SQLiteStorage) SearchTasks(ctx context.Context, query string, filter types.TaskFilter) ([]*types.Task, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if query != "" {
		where = append(where, "(title LIKE ? OR description LIKE ? OR notes LIKE ?)")
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.TaskType != nil {
		where = append(where, "task_type = ?")
		args = append(args, string(*filter.TaskType))
	}
	if filter.Assignee != nil {
		where = append(where, "assignee = ?")
		args = append(args, *filter.Assignee)
	}
	if filter.SyncOnly {
		where = append(where, "sync_enabled = 1")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, title, description, notes, status, priority, task_type,
		       assignee, due_date, sync_enabled, external_key,
		       created_at, updated_at, closed_at
		FROM tasks
		WHERE %s
		ORDER BY priority ASC, created_at DESC
		LIMIT ?
	`, strings.Join(where, " AND ")), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpsertTaskByExternalKey creates or refreshes a sync item from extension
// data. Matching is by external key; on update only the synced fields
// (title, status, priority, assignee) are touched. Returns whether a new
// task was created.
func (s *SQLiteStorage) UpsertTaskByExternalKey(ctx context.Context, task *types.Task, actor string) (bool, error) {
	if strings.TrimSpace(task.ExternalKey) == "" {
		return false, fmt.Errorf("external_key is required for upsert")
	}
	task.SyncEnabled = true

	existing, err := s.GetTaskByExternalKey(ctx, task.ExternalKey)
	if err != nil {
		return false, err
	}

	if existing == nil {
		if err := s.CreateTask(ctx, task, actor); err != nil {
			return false, err
		}
		return true, nil
	}

	updates := map[string]interface{}{}
	if task.Title != "" && task.Title != existing.Title {
		updates["title"] = task.Title
	}
	if task.Status != "" && task.Status != existing.Status {
		updates["status"] = string(task.Status)
	}
	if task.Priority != existing.Priority {
		updates["priority"] = task.Priority
	}
	if task.Assignee != "" && task.Assignee != existing.Assignee {
		updates["assignee"] = task.Assignee
	}

	task.ID = existing.ID
	if len(updates) == 0 {
		return false, nil
	}

	if err := s.UpdateTask(ctx, existing.ID, updates, actor); err != nil {
		return false, err
	}

	newData, _ := json.Marshal(updates)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, new_value)
		VALUES ('task', ?, ?, ?, ?)
	`, existing.ID, types.EventSynced, actor, string(newData))
	if err != nil {
		return false, fmt.Errorf("failed to record sync event: %w", err)
	}

	return false, nil
}

// toInt normalizes numeric update values, which arrive as int from Go
// callers and as float64 from decoded JSON.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
