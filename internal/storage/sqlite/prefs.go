package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crewdeck/crewdeck/internal/types"
)

// GetSettings retrieves a member's settings. Returns a zero-value document
// (member ID set) when the member has never saved settings.
func (s *SQLiteStorage) GetSettings(ctx context.Context, memberID string) (*types.UserSettings, error) {
	var settings types.UserSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT member_id, theme, locale, week_start, default_mode, updated_at
		FROM user_settings WHERE member_id = ?
	`, memberID).Scan(&settings.MemberID, &settings.Theme, &settings.Locale,
		&settings.WeekStart, &settings.DefaultMode, &settings.UpdatedAt)
	if err == sql.ErrNoRows {
		return &types.UserSettings{MemberID: memberID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// PutSettings merges non-empty fields over the stored row (upsert).
// Clients send only the fields they changed.
func (s *SQLiteStorage) PutSettings(ctx context.Context, settings *types.UserSettings) error {
	if settings.MemberID == "" {
		return fmt.Errorf("member_id is required")
	}
	if settings.DefaultMode != "" && !settings.DefaultMode.IsValid() {
		return fmt.Errorf("invalid default_mode: %s", settings.DefaultMode)
	}

	settings.UpdatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (member_id, theme, locale, week_start, default_mode, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(member_id) DO UPDATE SET
			theme = CASE WHEN excluded.theme != '' THEN excluded.theme ELSE theme END,
			locale = CASE WHEN excluded.locale != '' THEN excluded.locale ELSE locale END,
			week_start = CASE WHEN excluded.week_start != '' THEN excluded.week_start ELSE week_start END,
			default_mode = CASE WHEN excluded.default_mode != '' THEN excluded.default_mode ELSE default_mode END,
			updated_at = excluded.updated_at
	`, settings.MemberID, settings.Theme, settings.Locale, settings.WeekStart,
		string(settings.DefaultMode), settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to put settings: %w", err)
	}
	return nil
}

// GetMenuConfig retrieves a member's menu arrangement for a mode. Returns
// an empty arrangement (no folders) when none has been saved.
func (s *SQLiteStorage) GetMenuConfig(ctx context.Context, memberID string, mode types.Mode) (*types.MenuConfig, error) {
	var cfg types.MenuConfig
	var folders string

	err := s.db.QueryRowContext(ctx, `
		SELECT member_id, mode, folders, updated_at
		FROM menu_configs WHERE member_id = ? AND mode = ?
	`, memberID, string(mode)).Scan(&cfg.MemberID, &cfg.Mode, &folders, &cfg.UpdatedAt)
	if err == sql.ErrNoRows {
		return &types.MenuConfig{MemberID: memberID, Mode: mode, Folders: []types.MenuFolder{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu config: %w", err)
	}

	if err := json.Unmarshal([]byte(folders), &cfg.Folders); err != nil {
		return nil, fmt.Errorf("failed to decode menu folders: %w", err)
	}
	return &cfg, nil
}

// PutMenuConfig stores a member's menu arrangement, replacing the previous
// one wholesale. Folder order is preserved via the JSON encoding.
func (s *SQLiteStorage) PutMenuConfig(ctx context.Context, cfg *types.MenuConfig) error {
	if cfg.MemberID == "" {
		return fmt.Errorf("member_id is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	folders, err := json.Marshal(cfg.Folders)
	if err != nil {
		return fmt.Errorf("failed to encode menu folders: %w", err)
	}

	cfg.UpdatedAt = time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO menu_configs (member_id, mode, folders, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(member_id, mode) DO UPDATE SET
			folders = excluded.folders,
			updated_at = excluded.updated_at
	`, cfg.MemberID, string(cfg.Mode), string(folders), cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to put menu config: %w", err)
	}
	return nil
}

// GetEmailPrefs retrieves a member's email preferences. Returns defaults
// (digest off, no kinds) when none have been saved.
func (s *SQLiteStorage) GetEmailPrefs(ctx context.Context, memberID string) (*types.EmailPrefs, error) {
	var prefs types.EmailPrefs
	var kinds string

	err := s.db.QueryRowContext(ctx, `
		SELECT member_id, digest, kinds, updated_at
		FROM email_prefs WHERE member_id = ?
	`, memberID).Scan(&prefs.MemberID, &prefs.Digest, &kinds, &prefs.UpdatedAt)
	if err == sql.ErrNoRows {
		return &types.EmailPrefs{MemberID: memberID, Digest: types.DigestOff}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email prefs: %w", err)
	}

	if err := json.Unmarshal([]byte(kinds), &prefs.Kinds); err != nil {
		return nil, fmt.Errorf("failed to decode email pref kinds: %w", err)
	}
	return &prefs, nil
}

// PutEmailPrefs stores a member's email preferences (full replace)
func (s *SQLiteStorage) PutEmailPrefs(ctx context.Context, prefs *types.EmailPrefs) error {
	if prefs.MemberID == "" {
		return fmt.Errorf("member_id is required")
	}
	if prefs.Digest == "" {
		prefs.Digest = types.DigestOff
	}
	if !prefs.Digest.IsValid() {
		return fmt.Errorf("invalid digest frequency: %s", prefs.Digest)
	}

	kinds, err := json.Marshal(prefs.Kinds)
	if err != nil {
		return fmt.Errorf("failed to encode email pref kinds: %w", err)
	}
	if prefs.Kinds == nil {
		kinds = []byte("{}")
	}

	prefs.UpdatedAt = time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO email_prefs (member_id, digest, kinds, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(member_id) DO UPDATE SET
			digest = excluded.digest,
			kinds = excluded.kinds,
			updated_at = excluded.updated_at
	`, prefs.MemberID, string(prefs.Digest), string(kinds), prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to put email prefs: %w", err)
	}
	return nil
}
