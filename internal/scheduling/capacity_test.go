package scheduling

import (
	"context"
	"testing"

	"slotwise/pkg/model"
)

func staffFixture(id string, active bool) *model.Staff {
	return &model.Staff{
		ID:          id,
		TenantID:    "t1",
		Name:        id,
		Active:      active,
		LocationIDs: []string{"loc1"},
	}
}

// Evaluator where every staff member is on an open 09:00-18:00 day with no
// break and no blackouts.
func newEvaluator(staff []*model.Staff, bookings []*model.Booking) *CapacityEvaluator {
	schedules := &mockScheduleSource{
		dayScheduleFunc: func(_ context.Context, _ model.OwnerKind, _ string, weekday int) (*model.DaySchedule, error) {
			return openDay(weekday, "09:00", "18:00"), nil
		},
	}
	resolver := NewCalendarResolver(schedules)
	blackouts := NewBlackoutChecker(&mockBlackoutSource{})
	staffSource := &mockStaffSource{
		staffByLocationFunc: func(_ context.Context, _, _ string) ([]*model.Staff, error) {
			return staff, nil
		},
	}
	bookingSource := &mockBookingSource{
		byLocationFunc: func(_ context.Context, _, _, _ string) ([]*model.Booking, error) {
			return bookings, nil
		},
	}
	return NewCapacityEvaluator(resolver, blackouts, staffSource, bookingSource)
}

func TestCapacity_SingleSlotLocationRejectsOverlap(t *testing.T) {
	// Zero assigned staff means the location behaves as one implicit
	// resource. With 10:00-11:00 already booked, 10:30-11:30 must not fit.
	existing := activeBooking("bkA", "", "2025-06-10", "10:00", "11:00")
	existing.StaffID = ""
	eval := newEvaluator(nil, []*model.Booking{existing})

	decision, err := eval.Evaluate(context.Background(), "t1", "loc1", "2025-06-10", iv("10:30", "11:30"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Capacity != 1 {
		t.Errorf("capacity = %d, want 1", decision.Capacity)
	}
	if decision.Overlapping != 1 {
		t.Errorf("overlapping = %d, want 1", decision.Overlapping)
	}
	if decision.Fits() {
		t.Error("second overlapping booking must not fit at capacity 1")
	}
}

func TestCapacity_NonOverlappingFits(t *testing.T) {
	existing := activeBooking("bkA", "", "2025-06-10", "10:00", "11:00")
	existing.StaffID = ""
	eval := newEvaluator(nil, []*model.Booking{existing})

	decision, err := eval.Evaluate(context.Background(), "t1", "loc1", "2025-06-10", iv("11:00", "12:00"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Fits() {
		t.Error("touching interval must fit")
	}
}

func TestCapacity_CountsAvailableStaff(t *testing.T) {
	staff := []*model.Staff{
		staffFixture("s1", true),
		staffFixture("s2", true),
		staffFixture("s3", false), // inactive, never counts
	}
	bookings := []*model.Booking{
		activeBooking("bk1", "s1", "2025-06-10", "10:00", "11:00"),
	}
	eval := newEvaluator(staff, bookings)

	decision, err := eval.Evaluate(context.Background(), "t1", "loc1", "2025-06-10", iv("10:30", "11:30"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Capacity != 2 {
		t.Errorf("capacity = %d, want 2 (inactive staff skipped)", decision.Capacity)
	}
	if decision.Overlapping != 1 {
		t.Errorf("overlapping = %d, want 1", decision.Overlapping)
	}
	if !decision.Fits() {
		t.Error("one free staff member remains, booking must fit")
	}
}

func TestCapacity_BlackedOutStaffReducesCapacity(t *testing.T) {
	schedules := &mockScheduleSource{
		dayScheduleFunc: func(_ context.Context, _ model.OwnerKind, _ string, weekday int) (*model.DaySchedule, error) {
			return openDay(weekday, "09:00", "18:00"), nil
		},
	}
	blackouts := NewBlackoutChecker(&mockBlackoutSource{
		blackoutsOnFunc: func(_ context.Context, staffID, _ string) ([]model.Blackout, error) {
			if staffID == "s2" {
				return []model.Blackout{wholeDayBlackout(staffID, "2025-06-10", "2025-06-10")}, nil
			}
			return nil, nil
		},
	})
	staffSource := &mockStaffSource{
		staffByLocationFunc: func(_ context.Context, _, _ string) ([]*model.Staff, error) {
			return []*model.Staff{staffFixture("s1", true), staffFixture("s2", true)}, nil
		},
	}
	bookingSource := &mockBookingSource{
		byLocationFunc: func(_ context.Context, _, _, _ string) ([]*model.Booking, error) {
			return []*model.Booking{activeBooking("bk1", "s1", "2025-06-10", "10:00", "11:00")}, nil
		},
	}
	eval := NewCapacityEvaluator(NewCalendarResolver(schedules), blackouts, staffSource, bookingSource)

	decision, err := eval.Evaluate(context.Background(), "t1", "loc1", "2025-06-10", iv("10:30", "11:30"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Capacity != 1 {
		t.Errorf("capacity = %d, want 1 (s2 blacked out)", decision.Capacity)
	}
	if decision.Fits() {
		t.Error("blackout must shrink capacity below demand")
	}
}

func TestCapacity_ExcludeSkipsOwnBooking(t *testing.T) {
	existing := activeBooking("bkA", "", "2025-06-10", "10:00", "11:00")
	existing.StaffID = ""
	eval := newEvaluator(nil, []*model.Booking{existing})

	decision, err := eval.Evaluate(context.Background(), "t1", "loc1", "2025-06-10", iv("10:30", "11:30"), "bkA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Fits() {
		t.Error("rescheduled booking must not count against itself")
	}
}

func TestCapacity_IgnoresCancelledBookings(t *testing.T) {
	cancelled := activeBooking("bkA", "", "2025-06-10", "10:00", "11:00")
	cancelled.StaffID = ""
	cancelled.Status = model.StatusCancelled
	eval := newEvaluator(nil, []*model.Booking{cancelled})

	decision, err := eval.Evaluate(context.Background(), "t1", "loc1", "2025-06-10", iv("10:30", "11:30"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Overlapping != 0 {
		t.Errorf("overlapping = %d, want 0", decision.Overlapping)
	}
	if !decision.Fits() {
		t.Error("cancelled booking must not consume capacity")
	}
}
