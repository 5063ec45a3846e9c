package storage

import (
	"context"
	"time"

	"github.com/crewdeck/crewdeck/internal/storage/sqlite"
	"github.com/crewdeck/crewdeck/internal/types"
)

// Storage defines the interface for application storage backends
type Storage interface {
	// Tasks
	CreateTask(ctx context.Context, task *types.Task, actor string) error
	GetTask(ctx context.Context, id string) (*types.Task, error)
	UpdateTask(ctx context.Context, id string, updates map[string]interface{}, actor string) error
	CloseTask(ctx context.Context, id string, reason string, actor string) error
	SearchTasks(ctx context.Context, query string, filter types.TaskFilter) ([]*types.Task, error)
	GetTaskByExternalKey(ctx context.Context, key string) (*types.Task, error)
	UpsertTaskByExternalKey(ctx context.Context, task *types.Task, actor string) (created bool, err error)

	// Members
	CreateMember(ctx context.Context, member *types.Member, actor string) error
	GetMember(ctx context.Context, id string) (*types.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*types.Member, error)
	UpdateMember(ctx context.Context, id string, updates map[string]interface{}, actor string) error
	ListMembers(ctx context.Context, activeOnly bool) ([]*types.Member, error)
	DeactivateMember(ctx context.Context, id string, actor string) error

	// Duties
	CreateDuty(ctx context.Context, duty *types.Duty, actor string) error
	GetDuty(ctx context.Context, id string) (*types.Duty, error)
	UpdateDuty(ctx context.Context, duty *types.Duty, actor string) error
	DeleteDuty(ctx context.Context, id string, actor string) error
	ListDuties(ctx context.Context, filter types.DutyFilter) ([]*types.Duty, error)
	ListOverlappingDuties(ctx context.Context, memberID string, kind types.DutyKind, start, end time.Time) ([]*types.Duty, error)

	// Goals
	CreateGoal(ctx context.Context, goal *types.Goal, actor string) error
	GetGoal(ctx context.Context, id string) (*types.Goal, error)
	UpdateGoal(ctx context.Context, id string, updates map[string]interface{}, actor string) error
	ListGoals(ctx context.Context, ownerID string, status *types.GoalStatus) ([]*types.Goal, error)

	// KPIs
	CreateKPI(ctx context.Context, kpi *types.KPI, actor string) error
	GetKPI(ctx context.Context, id string) (*types.KPI, error)
	ListKPIs(ctx context.Context) ([]*types.KPI, error)
	AddKPIPoint(ctx context.Context, point *types.KPIPoint) error
	GetKPISeries(ctx context.Context, kpiID string, since time.Time) ([]*types.KPIPoint, error)

	// Notifications
	CreateNotification(ctx context.Context, n *types.Notification) error
	ListNotifications(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*types.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, recipientID string) (int, error)
	CleanupNotificationsByAge(ctx context.Context, retentionDays int) (int, error)

	// Settings
	GetSettings(ctx context.Context, memberID string) (*types.UserSettings, error)
	PutSettings(ctx context.Context, settings *types.UserSettings) error

	// Menu config
	GetMenuConfig(ctx context.Context, memberID string, mode types.Mode) (*types.MenuConfig, error)
	PutMenuConfig(ctx context.Context, cfg *types.MenuConfig) error

	// Email preferences
	GetEmailPrefs(ctx context.Context, memberID string) (*types.EmailPrefs, error)
	PutEmailPrefs(ctx context.Context, prefs *types.EmailPrefs) error

	// Audit trail
	AddComment(ctx context.Context, entityKind, entityID, actor, comment string) error
	GetEvents(ctx context.Context, entityKind, entityID string, limit int) ([]*types.Event, error)
	CleanupEventsByAge(ctx context.Context, retentionDays int) (int, error)

	// Statistics
	GetStatistics(ctx context.Context) (*types.Statistics, error)

	// Schema introspection (feeds the ER diagram endpoint)
	ListTables(ctx context.Context) ([]sqlite.Table, error)

	// Config
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".crewdeck/crewdeck.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".crewdeck/crewdeck.db",
	}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Path == "" {
		cfg.Path = ".crewdeck/crewdeck.db"
	}

	return sqlite.New(cfg.Path)
}
