package scheduling

import (
	"context"
	"fmt"

	"slotwise/pkg/model"
	"slotwise/pkg/timeofday"
)

// StaffSource enumerates the staff assigned to a location.
type StaffSource interface {
	StaffByLocation(ctx context.Context, tenantID, locationID string) ([]*model.Staff, error)
}

// CapacityDecision is the outcome of one capacity evaluation: how many staff
// were structurally available for the interval and how many active bookings
// already overlap it.
type CapacityDecision struct {
	Capacity    int
	Overlapping int
}

// Fits reports whether one more booking still fits: capacity must strictly
// exceed the current overlap count.
func (d CapacityDecision) Fits() bool {
	return d.Capacity > d.Overlapping
}

// CapacityEvaluator decides staff-less bookings. Effective capacity is
// recomputed per query because staff availability is itself date- and
// time-dependent (windows, breaks, blackouts); a stale headcount would
// under- or over-admit.
type CapacityEvaluator struct {
	resolver  *CalendarResolver
	blackouts *BlackoutChecker
	staff     StaffSource
	bookings  BookingSource
}

func NewCapacityEvaluator(resolver *CalendarResolver, blackouts *BlackoutChecker, staff StaffSource, bookings BookingSource) *CapacityEvaluator {
	return &CapacityEvaluator{
		resolver:  resolver,
		blackouts: blackouts,
		staff:     staff,
		bookings:  bookings,
	}
}

// Evaluate computes the location's effective capacity for the interval and
// the number of overlapping active bookings. excludeID skips the booking
// being rescheduled. A location with zero assigned staff acts as a single
// implicit resource (capacity 1).
func (e *CapacityEvaluator) Evaluate(ctx context.Context, tenantID, locationID, date string, iv timeofday.Interval, excludeID string) (CapacityDecision, error) {
	assigned, err := e.staff.StaffByLocation(ctx, tenantID, locationID)
	if err != nil {
		return CapacityDecision{}, fmt.Errorf("failed to load staff for location %s: %w", locationID, err)
	}

	capacity := 0
	if len(assigned) == 0 {
		capacity = 1
	}
	for _, st := range assigned {
		if !st.Active {
			continue
		}
		available, err := e.staffAvailable(ctx, st, date, iv)
		if err != nil {
			return CapacityDecision{}, err
		}
		if available {
			capacity++
		}
	}

	existing, err := e.bookings.ActiveByLocationAndDate(ctx, tenantID, locationID, date)
	if err != nil {
		return CapacityDecision{}, fmt.Errorf("failed to load bookings for location %s: %w", locationID, err)
	}

	overlapping := 0
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !b.Status.Active() {
			continue
		}
		// Resource assignment is ignored here: every active booking at
		// the location consumes capacity for its interval.
		if b.Interval().Overlaps(iv) {
			overlapping++
		}
	}

	return CapacityDecision{Capacity: capacity, Overlapping: overlapping}, nil
}

// staffAvailable applies the structural checks: window open and covering
// the interval, no break overlap, no blackout.
func (e *CapacityEvaluator) staffAvailable(ctx context.Context, st *model.Staff, date string, iv timeofday.Interval) (bool, error) {
	window, err := e.resolver.ResolveWindow(ctx, model.OwnerStaff, st.ID, date)
	if err != nil {
		return false, err
	}
	if window.Admits(iv) != AdmitOK {
		return false, nil
	}

	result, err := e.blackouts.Check(ctx, st.ID, date, iv)
	if err != nil {
		return false, err
	}
	return !result.Blocked(), nil
}
