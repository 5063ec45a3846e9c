package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crewdeck/crewdeck/internal/types"
)

// taskPrefix is the default prefix for generated task IDs.
// A "task_prefix" row in the config table overrides it.
const taskPrefix = "cd"

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db         *sql.DB
	taskPrefix string
}

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each pooled connection to :memory: would get its own database, so
	// pin the pool to a single connection for in-memory use.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// The config table can override the task ID prefix. Sandboxed or
	// imported databases use this to keep their original IDs.
	prefix := taskPrefix
	var configPrefix string
	err = db.QueryRow("SELECT value FROM config WHERE key = ?", "task_prefix").Scan(&configPrefix)
	if err == nil && configPrefix != "" {
		prefix = configPrefix
	} else if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read task_prefix from config: %w", err)
	}

	return &SQLiteStorage{
		db:         db,
		taskPrefix: prefix,
	}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// GetConfig retrieves a config value by key
func (s *SQLiteStorage) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig stores a config value
func (s *SQLiteStorage) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// GetStatistics summarizes store contents
func (s *SQLiteStorage) GetStatistics(ctx context.Context) (*types.Statistics, error) {
	stats := &types.Statistics{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'blocked' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN sync_enabled = 1 THEN 1 ELSE 0 END), 0)
		FROM tasks
	`).Scan(&stats.TotalTasks, &stats.OpenTasks, &stats.InProgressTasks,
		&stats.BlockedTasks, &stats.DoneTasks, &stats.SyncItems)
	if err != nil {
		return nil, fmt.Errorf("failed to get task statistics: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM members WHERE active = 1").Scan(&stats.ActiveMembers)
	if err != nil {
		return nil, fmt.Errorf("failed to count active members: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM duties
		WHERE start_date <= date('now') AND end_date >= date('now')
	`).Scan(&stats.ActiveDuties)
	if err != nil {
		return nil, fmt.Errorf("failed to count active duties: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM goals WHERE status = 'active'").Scan(&stats.ActiveGoals)
	if err != nil {
		return nil, fmt.Errorf("failed to count active goals: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE is_read = 0").Scan(&stats.UnreadNotifications)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return stats, nil
}
