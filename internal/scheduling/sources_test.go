package scheduling

import (
	"context"

	"slotwise/pkg/model"
	"slotwise/pkg/timeofday"
)

// Func-field mocks so each test overrides only what it needs.

type mockScheduleSource struct {
	dayScheduleFunc func(ctx context.Context, kind model.OwnerKind, ownerID string, weekday int) (*model.DaySchedule, error)
}

func (m *mockScheduleSource) DaySchedule(ctx context.Context, kind model.OwnerKind, ownerID string, weekday int) (*model.DaySchedule, error) {
	if m.dayScheduleFunc != nil {
		return m.dayScheduleFunc(ctx, kind, ownerID, weekday)
	}
	return nil, nil
}

type mockBlackoutSource struct {
	blackoutsOnFunc func(ctx context.Context, staffID, date string) ([]model.Blackout, error)
}

func (m *mockBlackoutSource) BlackoutsOn(ctx context.Context, staffID, date string) ([]model.Blackout, error) {
	if m.blackoutsOnFunc != nil {
		return m.blackoutsOnFunc(ctx, staffID, date)
	}
	return nil, nil
}

type mockBookingSource struct {
	byStaffFunc    func(ctx context.Context, tenantID, staffID, date string) ([]*model.Booking, error)
	byLocationFunc func(ctx context.Context, tenantID, locationID, date string) ([]*model.Booking, error)
}

func (m *mockBookingSource) ActiveByStaffAndDate(ctx context.Context, tenantID, staffID, date string) ([]*model.Booking, error) {
	if m.byStaffFunc != nil {
		return m.byStaffFunc(ctx, tenantID, staffID, date)
	}
	return nil, nil
}

func (m *mockBookingSource) ActiveByLocationAndDate(ctx context.Context, tenantID, locationID, date string) ([]*model.Booking, error) {
	if m.byLocationFunc != nil {
		return m.byLocationFunc(ctx, tenantID, locationID, date)
	}
	return nil, nil
}

type mockStaffSource struct {
	staffByLocationFunc func(ctx context.Context, tenantID, locationID string) ([]*model.Staff, error)
}

func (m *mockStaffSource) StaffByLocation(ctx context.Context, tenantID, locationID string) ([]*model.Staff, error) {
	if m.staffByLocationFunc != nil {
		return m.staffByLocationFunc(ctx, tenantID, locationID)
	}
	return nil, nil
}

// Shared fixture helpers.

func iv(start, end string) timeofday.Interval {
	return timeofday.Interval{Start: timeofday.MustParse(start), End: timeofday.MustParse(end)}
}

func ivp(start, end string) *timeofday.Interval {
	r := iv(start, end)
	return &r
}

func openDay(weekday int, start, end string) *model.DaySchedule {
	return &model.DaySchedule{Weekday: weekday, Open: true, Hours: ivp(start, end)}
}

func openDayWithBreak(weekday int, start, end, breakStart, breakEnd string) *model.DaySchedule {
	d := openDay(weekday, start, end)
	d.Break = ivp(breakStart, breakEnd)
	return d
}

func activeBooking(id, staffID, date, start, end string) *model.Booking {
	return &model.Booking{
		ID:         id,
		TenantID:   "t1",
		LocationID: "loc1",
		ServiceID:  "svc1",
		StaffID:    staffID,
		ClientID:   "cl1",
		Date:       date,
		Start:      timeofday.MustParse(start),
		End:        timeofday.MustParse(end),
		Status:     model.StatusConfirmed,
	}
}
