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

var allowedMemberUpdateFields = map[string]bool{
	"name":     true,
	"email":    true,
	"role":     true,
	"timezone": true,
	"skills":   true,
}

// CreateMember creates a new team member profile
func (s *SQLiteStorage) CreateMember(ctx context.Context, member *types.Member, actor string) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now
	member.Active = true

	skills, err := json.Marshal(member.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO members (id, name, email, role, timezone, active, skills, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?)
	`, member.ID, member.Name, member.Email, member.Role, member.Timezone,
		string(skills), member.CreatedAt, member.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	eventData, _ := json.Marshal(member)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, new_value)
		VALUES ('member', ?, ?, ?, ?)
	`, member.ID, types.EventCreated, actor, string(eventData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// GetMember retrieves a member by ID. Returns (nil, nil) if not found.
func (s *SQLiteStorage) GetMember(ctx context.Context, id string) (*types.Member, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, timezone, active, skills, created_at, updated_at
		FROM members WHERE id = ?
	`, id)
	return scanMember(row)
}

// GetMemberByEmail retrieves a member by email. Returns (nil, nil) if not
// found. The ingest path uses this to map assignee emails to member IDs.
func (s *SQLiteStorage) GetMemberByEmail(ctx context.Context, email string) (*types.Member, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, timezone, active, skills, created_at, updated_at
		FROM members WHERE email = ?
	`, email)
	return scanMember(row)
}

func scanMember(row rowScanner) (*types.Member, error) {
	var member types.Member
	var skills string

	err := row.Scan(&member.ID, &member.Name, &member.Email, &member.Role,
		&member.Timezone, &member.Active, &skills, &member.CreatedAt, &member.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	if err := json.Unmarshal([]byte(skills), &member.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills for member %s: %w", member.ID, err)
	}

	return &member, nil
}

// UpdateMember applies a partial update to a member profile
func (s *SQLiteStorage) UpdateMember(ctx context.Context, id string, updates map[string]interface{}, actor string) error {
	oldMember, err := s.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if oldMember == nil {
		return fmt.Errorf("member %s not found", id)
	}

	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	for key, value := range updates {
		if !allowedMemberUpdateFields[key] {
			return fmt.Errorf("invalid field for update: %s", key)
		}

		switch key {
		case "email":
			if email, ok := value.(string); ok && !strings.Contains(email, "@") {
				return fmt.Errorf("invalid email: %q", email)
			}
		case "name":
			if name, ok := value.(string); ok && strings.TrimSpace(name) == "" {
				return fmt.Errorf("name cannot be empty")
			}
		case "skills":
			// Skills arrive as a slice; store as JSON
			encoded, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to encode skills: %w", err)
			}
			value = string(encoded)
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

	query := fmt.Sprintf("UPDATE members SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	oldData, _ := json.Marshal(oldMember)
	newData, _ := json.Marshal(updates)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, old_value, new_value)
		VALUES ('member', ?, ?, ?, ?, ?)
	`, id, types.EventUpdated, actor, string(oldData), string(newData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// ListMembers returns members, optionally only active ones, ordered by name
func (s *SQLiteStorage) ListMembers(ctx context.Context, activeOnly bool) ([]*types.Member, error) {
	query := `
		SELECT id, name, email, role, timezone, active, skills, created_at, updated_at
		FROM members
	`
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []*types.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// DeactivateMember marks a member inactive. Duty validation refuses new
// assignments for inactive members; existing rows are left alone.
func (s *SQLiteStorage) DeactivateMember(ctx context.Context, id string, actor string) error {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("member %s not found", id)
	}
	if !member.Active {
		return fmt.Errorf("member %s is already inactive", id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"UPDATE members SET active = 0, updated_at = ? WHERE id = ?", time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, comment)
		VALUES ('member', ?, ?, ?, 'Deactivated')
	`, id, types.EventUpdated, actor)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}
