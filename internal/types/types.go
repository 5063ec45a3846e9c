package types

import (
	"fmt"
	"strings"
	"time"
)

// Task represents a trackable work item (task, bug, feature, chore, or
// project). Tasks flagged with SyncEnabled and a non-empty ExternalKey are
// sync items: the ingest endpoint upserts them by external key.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Notes       string     `json:"notes,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	TaskType    TaskType   `json:"task_type"`
	Assignee    string     `json:"assignee,omitempty"` // member ID
	DueDate     *time.Time `json:"due_date,omitempty"`
	SyncEnabled bool       `json:"sync_enabled"`
	ExternalKey string     `json:"external_key,omitempty"` // e.g. Jira issue key
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// Validate checks if the task has valid field values
func (t *Task) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(t.Title))
	}
	if t.Priority < 0 || t.Priority > 4 {
		return fmt.Errorf("priority must be between 0 and 4 (got %d)", t.Priority)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	if !t.TaskType.IsValid() {
		return fmt.Errorf("invalid task type: %s", t.TaskType)
	}
	if t.SyncEnabled && strings.TrimSpace(t.ExternalKey) == "" {
		return fmt.Errorf("external_key is required for sync-enabled tasks")
	}
	return nil
}

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

// IsValid checks if the status value is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// TaskType categorizes the kind of work
type TaskType string

const (
	TypeTask    TaskType = "task"
	TypeBug     TaskType = "bug"
	TypeFeature TaskType = "feature"
	TypeChore   TaskType = "chore"
	TypeProject TaskType = "project" // container for related work
)

// IsValid checks if the task type value is valid
func (t TaskType) IsValid() bool {
	switch t {
	case TypeTask, TypeBug, TypeFeature, TypeChore, TypeProject:
		return true
	}
	return false
}

// TaskFilter controls task search
type TaskFilter struct {
	Status   *TaskStatus `json:"status,omitempty"`
	TaskType *TaskType   `json:"task_type,omitempty"`
	Assignee *string     `json:"assignee,omitempty"`
	SyncOnly bool        `json:"sync_only,omitempty"`
	Limit    int         `json:"limit,omitempty"`
}

// Member is a team member profile
type Member struct {
	ID        string    `json:"id"` // UUID
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	Active    bool      `json:"active"`
	Skills    []string  `json:"skills,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the member has valid field values
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(m.Email, "@") {
		return fmt.Errorf("invalid email: %q", m.Email)
	}
	return nil
}

// DutyKind categorizes a scheduled assignment
type DutyKind string

const (
	DutyOnCall DutyKind = "oncall"
	DutyDevOps DutyKind = "devops"
)

// IsValid checks if the duty kind value is valid
func (k DutyKind) IsValid() bool {
	switch k {
	case DutyOnCall, DutyDevOps:
		return true
	}
	return false
}

// Duty is a scheduled assignment for a member over an inclusive date range.
// Dates are date-only: times are normalized to UTC midnight.
type Duty struct {
	ID        string    `json:"id"` // UUID
	MemberID  string    `json:"member_id"`
	Kind      DutyKind  `json:"kind"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DutyFilter narrows duty listings
type DutyFilter struct {
	MemberID string
	Kind     *DutyKind
	From     *time.Time
	To       *time.Time
}

// GoalStatus represents the lifecycle state of a goal
type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalAchieved GoalStatus = "achieved"
	GoalDropped  GoalStatus = "dropped"
)

// IsValid checks if the goal status value is valid
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalActive, GoalAchieved, GoalDropped:
		return true
	}
	return false
}

// Goal is a tracked objective owned by a member
type Goal struct {
	ID          string     `json:"id"` // UUID
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	OwnerID     string     `json:"owner_id"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Status      GoalStatus `json:"status"`
	Progress    int        `json:"progress"` // 0-100
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate checks if the goal has valid field values
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if g.OwnerID == "" {
		return fmt.Errorf("owner_id is required")
	}
	if !g.Status.IsValid() {
		return fmt.Errorf("invalid goal status: %s", g.Status)
	}
	if g.Progress < 0 || g.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100 (got %d)", g.Progress)
	}
	return nil
}

// KPIDirection says which way is good for a metric
type KPIDirection string

const (
	UpGood   KPIDirection = "up_good"   // e.g. SLA compliance
	DownGood KPIDirection = "down_good" // e.g. bug inflow rate
)

// IsValid checks if the KPI direction value is valid
func (d KPIDirection) IsValid() bool {
	switch d {
	case UpGood, DownGood:
		return true
	}
	return false
}

// KPI is a tracked metric with historical values
type KPI struct {
	ID        string       `json:"id"` // UUID
	Name      string       `json:"name"`
	Unit      string       `json:"unit,omitempty"`
	Direction KPIDirection `json:"direction"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate checks if the KPI has valid field values
func (k *KPI) Validate() error {
	if strings.TrimSpace(k.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !k.Direction.IsValid() {
		return fmt.Errorf("invalid direction: %s", k.Direction)
	}
	return nil
}

// KPIPoint is one dated observation of a KPI
type KPIPoint struct {
	KPIID      string    `json:"kpi_id"`
	ObservedAt time.Time `json:"observed_at"`
	Value      float64   `json:"value"`
}

// Notification is an entry in the in-app notifications panel
type Notification struct {
	ID          string    `json:"id"` // UUID
	RecipientID string    `json:"recipient_id"`
	Kind        string    `json:"kind"` // e.g. "duty_reminder", "task_assigned"
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Mode selects which half of the application a menu config applies to
type Mode string

const (
	ModePeople  Mode = "people"
	ModeProduct Mode = "product"
)

// IsValid checks if the mode value is valid
func (m Mode) IsValid() bool {
	switch m {
	case ModePeople, ModeProduct:
		return true
	}
	return false
}

// UserSettings is a per-member settings document. Empty fields mean
// "unset"; PutSettings merges non-empty fields over the stored row.
type UserSettings struct {
	MemberID    string    `json:"member_id"`
	Theme       string    `json:"theme,omitempty"`  // "light", "dark", "system"
	Locale      string    `json:"locale,omitempty"` // BCP 47 tag
	WeekStart   string    `json:"week_start,omitempty"`
	DefaultMode Mode      `json:"default_mode,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MenuItem references a navigation destination inside a folder
type MenuItem struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
}

// MenuFolder is an ordered group of menu items
type MenuFolder struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// MenuConfig is a per-member, per-mode navigation arrangement.
// Folder and item order is preserved exactly as stored.
type MenuConfig struct {
	MemberID  string       `json:"member_id"`
	Mode      Mode         `json:"mode"`
	Folders   []MenuFolder `json:"folders"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Validate checks folder and item keys are present and unique
func (c *MenuConfig) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("invalid mode: %s", c.Mode)
	}
	seen := make(map[string]bool)
	for _, f := range c.Folders {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("folder name is required")
		}
		for _, it := range f.Items {
			if it.Key == "" {
				return fmt.Errorf("item key is required in folder %q", f.Name)
			}
			if seen[it.Key] {
				return fmt.Errorf("duplicate menu item key: %s", it.Key)
			}
			seen[it.Key] = true
		}
	}
	return nil
}

// EmailPrefs holds per-member email notification preferences.
// Preferences only; nothing in this repo sends mail.
type EmailPrefs struct {
	MemberID  string          `json:"member_id"`
	Digest    DigestFrequency `json:"digest"`
	Kinds     map[string]bool `json:"kinds,omitempty"` // per-notification-kind opt-in
	UpdatedAt time.Time       `json:"updated_at"`
}

// DigestFrequency controls email digest cadence
type DigestFrequency string

const (
	DigestOff    DigestFrequency = "off"
	DigestDaily  DigestFrequency = "daily"
	DigestWeekly DigestFrequency = "weekly"
)

// IsValid checks if the digest frequency value is valid
func (d DigestFrequency) IsValid() bool {
	switch d {
	case DigestOff, DigestDaily, DigestWeekly:
		return true
	}
	return false
}

// Event is an audit trail entry recorded alongside every mutation
type Event struct {
	ID         int64     `json:"id"`
	EntityKind string    `json:"entity_kind"` // "task", "member", "duty", ...
	EntityID   string    `json:"entity_id"`
	EventType  EventType `json:"event_type"`
	Actor      string    `json:"actor"`
	OldValue   *string   `json:"old_value,omitempty"`
	NewValue   *string   `json:"new_value,omitempty"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventType identifies what happened to an entity
type EventType string

const (
	EventCreated       EventType = "created"
	EventUpdated       EventType = "updated"
	EventClosed        EventType = "closed"
	EventDeleted       EventType = "deleted"
	EventCommented     EventType = "commented"
	EventStatusChanged EventType = "status_changed"
	EventSynced        EventType = "synced"
)

// Statistics summarizes store contents for the status command and API
type Statistics struct {
	TotalTasks          int `json:"total_tasks"`
	OpenTasks           int `json:"open_tasks"`
	InProgressTasks     int `json:"in_progress_tasks"`
	BlockedTasks        int `json:"blocked_tasks"`
	DoneTasks           int `json:"done_tasks"`
	SyncItems           int `json:"sync_items"`
	ActiveMembers       int `json:"active_members"`
	ActiveDuties        int `json:"active_duties"`
	ActiveGoals         int `json:"active_goals"`
	UnreadNotifications int `json:"unread_notifications"`
}
