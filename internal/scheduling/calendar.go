// Package scheduling holds the availability engine: calendar resolution,
// blackout checking, conflict detection, capacity evaluation and slot
// generation. Every component is a pure read over injected sources; the
// booking service sequences them and owns the writes.
package scheduling

import (
	"context"
	"errors"
	"fmt"

	"slotwise/pkg/model"
	"slotwise/pkg/timeofday"
)

// ErrOwnerNotFound distinguishes "this location/staff does not exist" from
// "exists but closed that day". Sources return it on unknown owner ids.
var ErrOwnerNotFound = errors.New("schedule owner not found")

// ScheduleSource looks up one weekly schedule entry. A nil entry with nil
// error means no entry exists for that day-of-week (treated as closed).
type ScheduleSource interface {
	DaySchedule(ctx context.Context, kind model.OwnerKind, ownerID string, weekday int) (*model.DaySchedule, error)
}

// Window is the resolved working hours for one owner on one date.
type Window struct {
	Open  bool
	Hours timeofday.Interval
	Break *timeofday.Interval
}

// Admission classifies how a window treats a proposed interval.
type Admission int

const (
	AdmitOK Admission = iota
	AdmitClosed
	AdmitOutsideHours
	AdmitBreakOverlap
)

// Admits checks that the interval lies fully inside the working hours and
// does not overlap the break. Touching the break boundary is legal.
func (w Window) Admits(iv timeofday.Interval) Admission {
	if !w.Open {
		return AdmitClosed
	}
	if !w.Hours.Contains(iv) {
		return AdmitOutsideHours
	}
	if w.Break != nil && w.Break.Overlaps(iv) {
		return AdmitBreakOverlap
	}
	return AdmitOK
}

// CalendarResolver resolves the effective working window for a location or
// staff member on a calendar date. Location and staff schedules are stored
// independently but resolved with identical logic.
type CalendarResolver struct {
	schedules ScheduleSource
}

func NewCalendarResolver(schedules ScheduleSource) *CalendarResolver {
	return &CalendarResolver{schedules: schedules}
}

// ResolveWindow reports the owner's window for the date, or a closed window
// when no entry exists or the entry is marked not open. An unknown owner
// surfaces as ErrOwnerNotFound, never as closed.
func (r *CalendarResolver) ResolveWindow(ctx context.Context, kind model.OwnerKind, ownerID, date string) (Window, error) {
	weekday, err := timeofday.Weekday(date)
	if err != nil {
		return Window{}, err
	}

	entry, err := r.schedules.DaySchedule(ctx, kind, ownerID, int(weekday))
	if err != nil {
		return Window{}, err
	}
	if entry == nil || !entry.Open {
		return Window{}, nil
	}
	if err := entry.Check(); err != nil {
		return Window{}, fmt.Errorf("malformed schedule entry for %s %s: %w", kind, ownerID, err)
	}

	return Window{Open: true, Hours: *entry.Hours, Break: entry.Break}, nil
}
