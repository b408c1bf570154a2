package model

import (
	"fmt"

	"slotwise/pkg/timeofday"
)

// Blackout is a planned absence owned by a staff member: an inclusive civil
// date range, either whole-day or limited to a time-of-day window.
type Blackout struct {
	ID        string              `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TenantID  string              `json:"tenant_id" bson:"tenant_id" validate:"required,mongodb"`
	StaffID   string              `json:"staff_id" bson:"staff_id" validate:"required,mongodb"`
	StartDate string              `json:"start_date" bson:"start_date" validate:"required,civil_date"`
	EndDate   string              `json:"end_date" bson:"end_date" validate:"required,civil_date"`
	WholeDay  bool                `json:"whole_day" bson:"whole_day"`
	Window    *timeofday.Interval `json:"window,omitempty" bson:"window,omitempty"`
	Reason    string              `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
}

// Check enforces the blackout invariants: start date <= end date, and a
// partial-day blackout carries a valid time window.
func (b Blackout) Check() error {
	within, err := timeofday.DateWithin(b.StartDate, b.StartDate, b.EndDate)
	if err != nil {
		return err
	}
	if !within {
		return fmt.Errorf("blackout start date %s is after end date %s", b.StartDate, b.EndDate)
	}
	if !b.WholeDay {
		if b.Window == nil || !b.Window.IsValid() {
			return fmt.Errorf("partial-day blackout requires a valid time window")
		}
	}
	return nil
}

// Covers reports whether the blackout's date range contains the given civil
// date.
func (b Blackout) Covers(date string) (bool, error) {
	return timeofday.DateWithin(date, b.StartDate, b.EndDate)
}
