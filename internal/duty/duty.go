// Package duty validates duty assignments and detects scheduling conflicts.
//
// Duties are inclusive date ranges with date-only granularity: a duty that
// ends September 7 and one that starts September 7 conflict. All checks
// normalize timestamps to UTC midnight first so callers can pass whatever
// time-of-day their input parsing produced.
package duty

import (
	"context"
	"fmt"
	"time"

	"github.com/crewdeck/crewdeck/internal/types"
)

// maxRangeDays caps a single duty range. Anything longer is almost
// certainly a data-entry mistake (a year-long on-call shift).
const maxRangeDays = 370

// Store is the subset of storage the checker needs
type Store interface {
	GetMember(ctx context.Context, id string) (*types.Member, error)
	ListOverlappingDuties(ctx context.Context, memberID string, kind types.DutyKind, start, end time.Time) ([]*types.Duty, error)
	ListDuties(ctx context.Context, filter types.DutyFilter) ([]*types.Duty, error)
}

// Day truncates t to UTC midnight
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize rewrites the duty's dates to UTC midnight in place
func Normalize(d *types.Duty) {
	d.StartDate = Day(d.StartDate)
	d.EndDate = Day(d.EndDate)
}

// Validate checks field-level constraints. It does not touch storage;
// conflict detection is CheckConflicts.
func Validate(d *types.Duty) error {
	if d.MemberID == "" {
		return fmt.Errorf("member_id is required")
	}
	if !d.Kind.IsValid() {
		return fmt.Errorf("invalid duty kind: %s", d.Kind)
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required")
	}
	start, end := Day(d.StartDate), Day(d.EndDate)
	if end.Before(start) {
		return fmt.Errorf("end_date %s is before start_date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxRangeDays {
		return fmt.Errorf("duty range is %d days; maximum is %d", days, maxRangeDays)
	}
	return nil
}

// Overlaps reports whether two duties' inclusive date ranges intersect.
// Kind and member are not considered; that's the caller's filter.
func Overlaps(a, b *types.Duty) bool {
	aStart, aEnd := Day(a.StartDate), Day(a.EndDate)
	bStart, bEnd := Day(b.StartDate), Day(b.EndDate)
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// Conflict describes one existing duty that blocks a new assignment
type Conflict struct {
	DutyID    string         `json:"duty_id"`
	Kind      types.DutyKind `json:"kind"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
}

// CheckConflicts validates d and returns the existing duties of the same
// kind for the same member whose ranges intersect d's. When d carries an
// ID (update path) that duty is excluded from the result. The member must
// exist and be active.
func CheckConflicts(ctx context.Context, store Store, d *types.Duty) ([]Conflict, error) {
	Normalize(d)
	if err := Validate(d); err != nil {
		return nil, err
	}

	member, err := store.GetMember(ctx, d.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("member %s not found", d.MemberID)
	}
	if !member.Active {
		return nil, fmt.Errorf("member %s is inactive", d.MemberID)
	}

	existing, err := store.ListOverlappingDuties(ctx, d.MemberID, d.Kind, d.StartDate, d.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check for overlapping duties: %w", err)
	}

	var conflicts []Conflict
	for _, e := range existing {
		if e.ID == d.ID {
			continue
		}
		conflicts = append(conflicts, Conflict{
			DutyID:    e.ID,
			Kind:      e.Kind,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
		})
	}
	return conflicts, nil
}

// CoverageGaps returns every day in [from, to] (inclusive, normalized to
// UTC midnight) not covered by any duty of the given kind. The panel shows
// these as scheduling warnings.
func CoverageGaps(duties []*types.Duty, from, to time.Time, kind types.DutyKind) []time.Time {
	from, to = Day(from), Day(to)
	if to.Before(from) {
		return nil
	}

	covered := make(map[time.Time]bool)
	for _, d := range duties {
		if d.Kind != kind {
			continue
		}
		for day := Day(d.StartDate); !day.After(Day(d.EndDate)); day = day.AddDate(0, 0, 1) {
			covered[day] = true
		}
	}

	var gaps []time.Time
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !covered[day] {
			gaps = append(gaps, day)
		}
	}
	return gaps
}
