package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/types"
)

// CreateNotification adds an entry to a member's notifications panel
func (s *SQLiteStorage) CreateNotification(ctx context.Context, n *types.Notification) error {
	if n.RecipientID == "" {
		return fmt.Errorf("recipient_id is required")
	}
	if n.Title == "" {
		return fmt.Errorf("title is required")
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, kind, title, body, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.RecipientID, n.Kind, n.Title, n.Body, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns a member's notifications, newest first
func (s *SQLiteStorage) ListNotifications(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*types.Notification, error) {
	query := `
		SELECT id, recipient_id, kind, title, body, is_read, created_at
		FROM notifications
		WHERE recipient_id = ?
	`
	args := []interface{}{recipientID}

	if unreadOnly {
		query += " AND is_read = 0"
	}
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notifications []*types.Notification
	for rows.Next() {
		var n types.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Kind, &n.Title, &n.Body,
			&n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flags one notification as read
func (s *SQLiteStorage) MarkNotificationRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification %s not found", id)
	}
	return nil
}

// MarkAllNotificationsRead flags every unread notification for a recipient
// and returns how many rows changed
func (s *SQLiteStorage) MarkAllNotificationsRead(ctx context.Context, recipientID string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE recipient_id = ? AND is_read = 0", recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// CleanupNotificationsByAge deletes read notifications older than the
// retention window and returns how many were removed
func (s *SQLiteStorage) CleanupNotificationsByAge(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retentionDays must be positive (got %d)", retentionDays)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE is_read = 1 AND created_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup notifications: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return int(rowsAffected), nil
}
