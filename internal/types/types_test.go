package types

import (
	"strings"
	"testing"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr string
	}{
		{
			name: "valid task",
			task: Task{Title: "Fix login bug", Status: StatusOpen, Priority: 2, TaskType: TypeBug},
		},
		{
			name:    "missing title",
			task:    Task{Status: StatusOpen, TaskType: TypeTask},
			wantErr: "title is required",
		},
		{
			name:    "title too long",
			task:    Task{Title: strings.Repeat("x", 501), Status: StatusOpen, TaskType: TypeTask},
			wantErr: "500 characters",
		},
		{
			name:    "priority out of range",
			task:    Task{Title: "t", Status: StatusOpen, Priority: 5, TaskType: TypeTask},
			wantErr: "priority",
		},
		{
			name:    "invalid status",
			task:    Task{Title: "t", Status: "resolved", TaskType: TypeTask},
			wantErr: "invalid status",
		},
		{
			name:    "sync enabled without external key",
			task:    Task{Title: "t", Status: StatusOpen, TaskType: TypeTask, SyncEnabled: true},
			wantErr: "external_key",
		},
		{
			name: "sync enabled with external key",
			task: Task{Title: "t", Status: StatusOpen, TaskType: TypeTask, SyncEnabled: true, ExternalKey: "PROJ-42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	g := Goal{Title: "Reduce bug backlog", OwnerID: "m1", Status: GoalActive, Progress: 50}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	g.Progress = 120
	if err := g.Validate(); err == nil {
		t.Fatal("expected error for progress > 100")
	}

	g.Progress = 10
	g.Status = "paused"
	if err := g.Validate(); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestMenuConfigValidate(t *testing.T) {
	cfg := MenuConfig{
		MemberID: "m1",
		Mode:     ModePeople,
		Folders: []MenuFolder{
			{Name: "Team", Items: []MenuItem{{Key: "members"}, {Key: "duties"}}},
			{Name: "Planning", Items: []MenuItem{{Key: "goals"}}},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	cfg.Folders[1].Items[0].Key = "members" // duplicate across folders
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for duplicate item key")
	}

	cfg.Mode = "admin"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestEnumValidity(t *testing.T) {
	if !DutyOnCall.IsValid() || !DutyDevOps.IsValid() {
		t.Error("expected duty kinds to be valid")
	}
	if DutyKind("vacation").IsValid() {
		t.Error("expected unknown duty kind to be invalid")
	}
	if DigestFrequency("hourly").IsValid() {
		t.Error("expected unknown digest frequency to be invalid")
	}
	if !UpGood.IsValid() || KPIDirection("sideways").IsValid() {
		t.Error("KPI direction validity mismatch")
	}
}
