package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/crewdeck/crewdeck/internal/types"
)

// AddComment records a free-form comment against an entity
func (s *SQLiteStorage) AddComment(ctx context.Context, entityKind, entityID, actor, comment string) error {
	if comment == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, comment)
		VALUES (?, ?, ?, ?, ?)
	`, entityKind, entityID, types.EventCommented, actor, comment)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// GetEvents returns the audit trail for an entity, oldest first
func (s *SQLiteStorage) GetEvents(ctx context.Context, entityKind, entityID string, limit int) ([]*types.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_kind, entity_id, event_type, actor, old_value, new_value, comment, created_at
		FROM events
		WHERE entity_kind = ? AND entity_id = ?
		ORDER BY created_at, id
		LIMIT ?
	`, entityKind, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*types.Event
	for rows.Next() {
		var e types.Event
		if err := rows.Scan(&e.ID, &e.EntityKind, &e.EntityID, &e.EventType,
			&e.Actor, &e.OldValue, &e.NewValue, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// CleanupEventsByAge deletes audit events older than the retention window
// and returns how many were removed
func (s *SQLiteStorage) CleanupEventsByAge(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retentionDays must be positive (got %d)", retentionDays)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup events: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return int(rowsAffected), nil
}
