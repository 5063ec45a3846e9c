package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/types"
)

// dateLayout is how duty dates are stored. Plain ISO dates compare
// correctly as strings, which keeps the overlap queries simple.
const dateLayout = "2006-01-02"

// CreateDuty inserts a duty row. Conflict checking happens in the duty
// package before this is called; the store only enforces field shape.
func (s *SQLiteStorage) CreateDuty(ctx context.Context, duty *types.Duty, actor string) error {
	if duty.ID == "" {
		duty.ID = uuid.NewString()
	}
	now := time.Now()
	duty.CreatedAt = now
	duty.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO duties (id, member_id, kind, start_date, end_date, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, duty.ID, duty.MemberID, duty.Kind,
		duty.StartDate.Format(dateLayout), duty.EndDate.Format(dateLayout),
		duty.Note, duty.CreatedAt, duty.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert duty: %w", err)
	}

	eventData, _ := json.Marshal(duty)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, new_value)
		VALUES ('duty', ?, ?, ?, ?)
	`, duty.ID, types.EventCreated, actor, string(eventData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// GetDuty retrieves a duty by ID. Returns (nil, nil) if not found.
func (s *SQLiteStorage) GetDuty(ctx context.Context, id string) (*types.Duty, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, member_id, kind, start_date, end_date, note, created_at, updated_at
		FROM duties WHERE id = ?
	`, id)
	return scanDuty(row)
}

func scanDuty(row rowScanner) (*types.Duty, error) {
	var duty types.Duty
	var start, end string

	err := row.Scan(&duty.ID, &duty.MemberID, &duty.Kind, &start, &end,
		&duty.Note, &duty.CreatedAt, &duty.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan duty: %w", err)
	}

	if duty.StartDate, err = time.ParseInLocation(dateLayout, start, time.UTC); err != nil {
		return nil, fmt.Errorf("failed to parse duty start date %q: %w", start, err)
	}
	if duty.EndDate, err = time.ParseInLocation(dateLayout, end, time.UTC); err != nil {
		return nil, fmt.Errorf("failed to parse duty end date %q: %w", end, err)
	}

	return &duty, nil
}

// UpdateDuty replaces the mutable fields of a duty
func (s *SQLiteStorage) UpdateDuty(ctx context.Context, duty *types.Duty, actor string) error {
	old, err := s.GetDuty(ctx, duty.ID)
	if err != nil {
		return err
	}
	if old == nil {
		return fmt.Errorf("duty %s not found", duty.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	duty.UpdatedAt = time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE duties SET member_id = ?, kind = ?, start_date = ?, end_date = ?, note = ?, updated_at = ?
		WHERE id = ?
	`, duty.MemberID, duty.Kind,
		duty.StartDate.Format(dateLayout), duty.EndDate.Format(dateLayout),
		duty.Note, duty.UpdatedAt, duty.ID)
	if err != nil {
		return fmt.Errorf("failed to update duty: %w", err)
	}

	oldData, _ := json.Marshal(old)
	newData, _ := json.Marshal(duty)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, old_value, new_value)
		VALUES ('duty', ?, ?, ?, ?, ?)
	`, duty.ID, types.EventUpdated, actor, string(oldData), string(newData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// DeleteDuty removes a duty row
func (s *SQLiteStorage) DeleteDuty(ctx context.Context, id string, actor string) error {
	old, err := s.GetDuty(ctx, id)
	if err != nil {
		return err
	}
	if old == nil {
		return fmt.Errorf("duty %s not found", id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM duties WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete duty: %w", err)
	}

	oldData, _ := json.Marshal(old)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, old_value)
		VALUES ('duty', ?, ?, ?, ?)
	`, id, types.EventDeleted, actor, string(oldData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// ListDuties returns duties matching the filter, ordered by start date
func (s *SQLiteStorage) ListDuties(ctx context.Context, filter types.DutyFilter) ([]*types.Duty, error) {
	query := `
		SELECT id, member_id, kind, start_date, end_date, note, created_at, updated_at
		FROM duties WHERE 1=1
	`
	args := []interface{}{}

	if filter.MemberID != "" {
		query += " AND member_id = ?"
		args = append(args, filter.MemberID)
	}
	if filter.Kind != nil {
		query += " AND kind = ?"
		args = append(args, string(*filter.Kind))
	}
	// Window filters keep any duty whose range touches the window
	if filter.From != nil {
		query += " AND end_date >= ?"
		args = append(args, filter.From.Format(dateLayout))
	}
	if filter.To != nil {
		query += " AND start_date <= ?"
		args = append(args, filter.To.Format(dateLayout))
	}
	query += " ORDER BY start_date, member_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list duties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var duties []*types.Duty
	for rows.Next() {
		duty, err := scanDuty(rows)
		if err != nil {
			return nil, err
		}
		duties = append(duties, duty)
	}
	return duties, rows.Err()
}

// ListOverlappingDuties returns duties of the given kind for the member
// whose inclusive date ranges intersect [start, end]
func (s *SQLiteStorage) ListOverlappingDuties(ctx context.Context, memberID string, kind types.DutyKind, start, end time.Time) ([]*types.Duty, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, kind, start_date, end_date, note, created_at, updated_at
		FROM duties
		WHERE member_id = ? AND kind = ?
		  AND start_date <= ? AND end_date >= ?
		ORDER BY start_date
	`, memberID, string(kind), end.Format(dateLayout), start.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping duties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var duties []*types.Duty
	for rows.Next() {
		duty, err := scanDuty(rows)
		if err != nil {
			return nil, err
		}
		duties = append(duties, duty)
	}
	return duties, rows.Err()
}
