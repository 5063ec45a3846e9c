package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/types"
)

var allowedGoalUpdateFields = map[string]bool{
	"title":       true,
	"description": true,
	"target_date": true,
	"status":      true,
	"progress":    true,
}

// CreateGoal creates a new goal
func (s *SQLiteStorage) CreateGoal(ctx context.Context, goal *types.Goal, actor string) error {
	if goal.Status == "" {
		goal.Status = types.GoalActive
	}
	if err := goal.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO goals (id, title, description, owner_id, target_date, status, progress, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, goal.ID, goal.Title, goal.Description, goal.OwnerID, goal.TargetDate,
		goal.Status, goal.Progress, goal.CreatedAt, goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	eventData, _ := json.Marshal(goal)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, new_value)
		VALUES ('goal', ?, ?, ?, ?)
	`, goal.ID, types.EventCreated, actor, string(eventData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// GetGoal retrieves a goal by ID. Returns (nil, nil) if not found.
func (s *SQLiteStorage) GetGoal(ctx context.Context, id string) (*types.Goal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, owner_id, target_date, status, progress, created_at, updated_at
		FROM goals WHERE id = ?
	`, id)
	return scanGoal(row)
}

func scanGoal(row rowScanner) (*types.Goal, error) {
	var goal types.Goal
	var targetDate sql.NullTime

	err := row.Scan(&goal.ID, &goal.Title, &goal.Description, &goal.OwnerID,
		&targetDate, &goal.Status, &goal.Progress, &goal.CreatedAt, &goal.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}

	if targetDate.Valid {
		goal.TargetDate = &targetDate.Time
	}
	return &goal, nil
}

// UpdateGoal applies a partial update to a goal
func (s *SQLiteStorage) UpdateGoal(ctx context.Context, id string, updates map[string]interface{}, actor string) error {
	old, err := s.GetGoal(ctx, id)
	if err != nil {
		return err
	}
	if old == nil {
		return fmt.Errorf("goal %s not found", id)
	}

	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	for key, value := range updates {
		if !allowedGoalUpdateFields[key] {
			return fmt.Errorf("invalid field for update: %s", key)
		}

		switch key {
		case "progress":
			if progress, ok := toInt(value); ok {
				if progress < 0 || progress > 100 {
					return fmt.Errorf("progress must be between 0 and 100 (got %d)", progress)
				}
			}
		case "status":
			if status, ok := value.(string); ok {
				if !types.GoalStatus(status).IsValid() {
					return fmt.Errorf("invalid goal status: %s", status)
				}
			}
		case "title":
			if title, ok := value.(string); ok && strings.TrimSpace(title) == "" {
				return fmt.Errorf("title cannot be empty")
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

	query := fmt.Sprintf("UPDATE goals SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	oldData, _ := json.Marshal(old)
	newData, _ := json.Marshal(updates)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, old_value, new_value)
		VALUES ('goal', ?, ?, ?, ?, ?)
	`, id, types.EventUpdated, actor, string(oldData), string(newData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// ListGoals returns goals, optionally filtered by owner and status
func (s *SQLiteStorage) ListGoals(ctx context.Context, ownerID string, status *types.GoalStatus) ([]*types.Goal, error) {
	query := `
		SELECT id, title, description, owner_id, target_date, status, progress, created_at, updated_at
		FROM goals WHERE 1=1
	`
	args := []interface{}{}

	if ownerID != "" {
		query += " AND owner_id = ?"
		args = append(args, ownerID)
	}
	if status != nil {
		query += " AND status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []*types.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}
