package scheduling

import (
	"context"
	"fmt"

	"slotwise/pkg/model"
	"slotwise/pkg/timeofday"
)

// BookingSource reads existing active (non-cancelled) bookings. Results are
// bounded by resource-or-location plus date, so every scan stays small.
type BookingSource interface {
	ActiveByStaffAndDate(ctx context.Context, tenantID, staffID, date string) ([]*model.Booking, error)
	ActiveByLocationAndDate(ctx context.Context, tenantID, locationID, date string) ([]*model.Booking, error)
}

// ConflictDetector finds overlapping active bookings on a single staff
// member. Staff-less bookings never reach it; capacity evaluation takes
// over for those.
type ConflictDetector struct {
	bookings BookingSource
}

func NewConflictDetector(bookings BookingSource) *ConflictDetector {
	return &ConflictDetector{bookings: bookings}
}

// FindConflict returns the first active booking on the staff member and date
// whose interval overlaps iv, or nil when the slot is free. excludeID skips
// the booking being rescheduled so it cannot conflict with itself.
//
// Two half-open intervals [s1,e1) and [s2,e2) conflict iff s1 < e2 && s2 < e1,
// which covers all three textbook cases: start inside, end inside, full
// containment.
func (d *ConflictDetector) FindConflict(ctx context.Context, tenantID, staffID, date string, iv timeofday.Interval, excludeID string) (*model.Booking, error) {
	existing, err := d.bookings.ActiveByStaffAndDate(ctx, tenantID, staffID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for staff %s: %w", staffID, err)
	}

	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !b.Status.Active() {
			continue
		}
		if b.Interval().Overlaps(iv) {
			return b, nil
		}
	}
	return nil, nil
}
