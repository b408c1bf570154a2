package validator

import (
	"errors"
	"io"
	"strings"
	"testing"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/timeofday"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	return NewBookingValidator(log)
}

func validBooking() *model.Booking {
	return &model.Booking{
		TenantID:   "6651a1b2c3d4e5f6a7b8c9d0",
		LocationID: "6651a1b2c3d4e5f6a7b8c9d1",
		ServiceID:  "6651a1b2c3d4e5f6a7b8c9d2",
		ClientID:   "6651a1b2c3d4e5f6a7b8c9d3",
		Date:       "2025-06-10",
		Start:      timeofday.MustParse("10:00"),
		End:        timeofday.MustParse("11:00"),
		Status:     model.StatusPending,
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("expected valid booking, got: %v", err)
	}
}

func TestValidate_RejectsMissingFields(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name   string
		mutate func(*model.Booking)
		field  string
	}{
		{"missing tenant", func(b *model.Booking) { b.TenantID = "" }, "TenantID"},
		{"missing location", func(b *model.Booking) { b.LocationID = "" }, "LocationID"},
		{"missing service", func(b *model.Booking) { b.ServiceID = "" }, "ServiceID"},
		{"missing client", func(b *model.Booking) { b.ClientID = "" }, "ClientID"},
		{"missing date", func(b *model.Booking) { b.Date = "" }, "Date"},
		{"bad date format", func(b *model.Booking) { b.Date = "10/06/2025" }, "Date"},
		{"bad id format", func(b *model.Booking) { b.LocationID = "not-an-oid" }, "LocationID"},
		{"unknown status", func(b *model.Booking) { b.Status = "archived" }, "Status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			err := v.Validate(b)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error should mention %s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidate_RejectsBadIntervals(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"end equals start", "10:00", "10:00"},
		{"end before start", "11:00", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			b.Start = timeofday.MustParse(tt.start)
			b.End = timeofday.MustParse(tt.end)
			err := v.Validate(b)
			if err == nil {
				t.Fatal("expected interval rejection")
			}
			var ivErr IntervalError
			if !errors.As(err, &ivErr) {
				t.Errorf("interval rejection must be an IntervalError, got %T (%v)", err, err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := newTestValidator()

	start := timeofday.MustParse("10:00")
	end := timeofday.MustParse("11:00")
	badEnd := timeofday.MustParse("09:00")
	badDate := "2025/06/10"

	if err := v.ValidateUpdate(&model.BookingUpdate{Start: &start, End: &end}); err != nil {
		t.Errorf("valid pair rejected: %v", err)
	}
	if err := v.ValidateUpdate(&model.BookingUpdate{Start: &start}); err != nil {
		t.Errorf("one-sided time change must defer to merged validation: %v", err)
	}
	if err := v.ValidateUpdate(&model.BookingUpdate{Start: &start, End: &badEnd}); err == nil {
		t.Error("inverted pair must be rejected")
	}
	if err := v.ValidateUpdate(&model.BookingUpdate{Date: &badDate}); err == nil {
		t.Error("malformed date must be rejected")
	}
}
