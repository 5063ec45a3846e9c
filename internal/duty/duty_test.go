package duty

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/storage/sqlite"
	"github.com/crewdeck/crewdeck/internal/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		duty    types.Duty
		wantErr bool
	}{
		{
			name: "valid single day",
			duty: types.Duty{MemberID: "m1", Kind: types.DutyOnCall,
				StartDate: day(2026, 9, 1), EndDate: day(2026, 9, 1)},
		},
		{
			name: "valid week",
			duty: types.Duty{MemberID: "m1", Kind: types.DutyDevOps,
				StartDate: day(2026, 9, 1), EndDate: day(2026, 9, 7)},
		},
		{
			name: "end before start",
			duty: types.Duty{MemberID: "m1", Kind: types.DutyOnCall,
				StartDate: day(2026, 9, 7), EndDate: day(2026, 9, 1)},
			wantErr: true,
		},
		{
			name: "missing member",
			duty: types.Duty{Kind: types.DutyOnCall,
				StartDate: day(2026, 9, 1), EndDate: day(2026, 9, 1)},
			wantErr: true,
		},
		{
			name: "bad kind",
			duty: types.Duty{MemberID: "m1", Kind: "vacation",
				StartDate: day(2026, 9, 1), EndDate: day(2026, 9, 1)},
			wantErr: true,
		},
		{
			name: "range too long",
			duty: types.Duty{MemberID: "m1", Kind: types.DutyOnCall,
				StartDate: day(2026, 1, 1), EndDate: day(2027, 6, 1)},
			wantErr: true,
		},
		{
			name:    "zero dates",
			duty:    types.Duty{MemberID: "m1", Kind: types.DutyOnCall},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.duty)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	mk := func(s, e time.Time) *types.Duty {
		return &types.Duty{StartDate: s, EndDate: e}
	}

	tests := []struct {
		name string
		a, b *types.Duty
		want bool
	}{
		{"disjoint", mk(day(2026, 9, 1), day(2026, 9, 5)), mk(day(2026, 9, 10), day(2026, 9, 12)), false},
		{"adjacent days do not overlap", mk(day(2026, 9, 1), day(2026, 9, 5)), mk(day(2026, 9, 6), day(2026, 9, 8)), false},
		{"shared boundary day overlaps", mk(day(2026, 9, 1), day(2026, 9, 5)), mk(day(2026, 9, 5), day(2026, 9, 8)), true},
		{"contained", mk(day(2026, 9, 1), day(2026, 9, 30)), mk(day(2026, 9, 10), day(2026, 9, 12)), true},
		{"identical", mk(day(2026, 9, 1), day(2026, 9, 5)), mk(day(2026, 9, 1), day(2026, 9, 5)), true},
		{"single days equal", mk(day(2026, 9, 3), day(2026, 9, 3)), mk(day(2026, 9, 3), day(2026, 9, 3)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Symmetric
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsNormalizesTimes(t *testing.T) {
	// Ranges entered with stray times still compare by calendar day
	a := &types.Duty{
		StartDate: time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 5, 1, 0, 0, 0, time.UTC),
	}
	b := &types.Duty{
		StartDate: time.Date(2026, 9, 5, 22, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
	}
	if !Overlaps(a, b) {
		t.Error("expected overlap on the shared calendar day")
	}
}

func TestCheckConflicts(t *testing.T) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	member := &types.Member{Name: "Grace", Email: "grace@example.com"}
	if err := store.CreateMember(ctx, member, "test"); err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}

	existing := &types.Duty{MemberID: member.ID, Kind: types.DutyOnCall,
		StartDate: day(2026, 9, 1), EndDate: day(2026, 9, 7)}
	if err := store.CreateDuty(ctx, existing, "test"); err != nil {
		t.Fatalf("Failed to create duty: %v", err)
	}

	// Overlapping same-kind duty conflicts
	candidate := &types.Duty{MemberID: member.ID, Kind: types.DutyOnCall,
		StartDate: day(2026, 9, 7), EndDate: day(2026, 9, 10)}
	conflicts, err := CheckConflicts(ctx, store, candidate)
	if err != nil {
		t.Fatalf("CheckConflicts failed: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].DutyID != existing.ID {
		t.Errorf("Expected conflict with %s, got %+v", existing.ID, conflicts)
	}

	// Different kind in the same window is fine
	candidate = &types.Duty{MemberID: member.ID, Kind: types.DutyDevOps,
		StartDate: day(2026, 9, 1), EndDate: day(2026, 9, 7)}
	conflicts, err = CheckConflicts(ctx, store, candidate)
	if err != nil {
		t.Fatalf("CheckConflicts failed: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("Expected no conflicts across kinds, got %+v", conflicts)
	}

	// Updating the existing duty doesn't conflict with itself
	moved := &types.Duty{ID: existing.ID, MemberID: member.ID, Kind: types.DutyOnCall,
		StartDate: day(2026, 9, 2), EndDate: day(2026, 9, 8)}
	conflicts, err = CheckConflicts(ctx, store, moved)
	if err != nil {
		t.Fatalf("CheckConflicts failed: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("Expected self-overlap to be ignored, got %+v", conflicts)
	}

	// Unknown member errors
	candidate = &types.Duty{MemberID: "nope", Kind: types.DutyOnCall,
		StartDate: day(2026, 9, 1), EndDate: day(2026, 9, 1)}
	if _, err := CheckConflicts(ctx, store, candidate); err == nil {
		t.Error("Expected error for unknown member")
	}

	// Inactive member errors
	if err := store.DeactivateMember(ctx, member.ID, "test"); err != nil {
		t.Fatalf("Failed to deactivate member: %v", err)
	}
	candidate = &types.Duty{MemberID: member.ID, Kind: types.DutyOnCall,
		StartDate: day(2026, 10, 1), EndDate: day(2026, 10, 2)}
	if _, err := CheckConflicts(ctx, store, candidate); err == nil {
		t.Error("Expected error for inactive member")
	}
}

func TestCoverageGaps(t *testing.T) {
	duties := []*types.Duty{
		{Kind: types.DutyOnCall, StartDate: day(2026, 9, 1), EndDate: day(2026, 9, 3)},
		{Kind: types.DutyOnCall, StartDate: day(2026, 9, 6), EndDate: day(2026, 9, 7)},
		{Kind: types.DutyDevOps, StartDate: day(2026, 9, 4), EndDate: day(2026, 9, 5)},
	}

	gaps := CoverageGaps(duties, day(2026, 9, 1), day(2026, 9, 7), types.DutyOnCall)
	if len(gaps) != 2 {
		t.Fatalf("Expected 2 gap days, got %d: %v", len(gaps), gaps)
	}
	if !gaps[0].Equal(day(2026, 9, 4)) || !gaps[1].Equal(day(2026, 9, 5)) {
		t.Errorf("Expected gaps on Sep 4-5, got %v", gaps)
	}

	// Fully covered window
	gaps = CoverageGaps(duties, day(2026, 9, 1), day(2026, 9, 3), types.DutyOnCall)
	if len(gaps) != 0 {
		t.Errorf("Expected no gaps, got %v", gaps)
	}

	// Inverted window
	if gaps := CoverageGaps(duties, day(2026, 9, 7), day(2026, 9, 1), types.DutyOnCall); gaps != nil {
		t.Errorf("Expected nil for inverted window, got %v", gaps)
	}
}
