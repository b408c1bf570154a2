package model

import (
	"fmt"

	"slotwise/pkg/timeofday"
)

// OwnerKind distinguishes whose weekly schedule is being resolved. Location
// and staff schedules are stored independently but share the same shape and
// resolution logic.
type OwnerKind string

const (
	OwnerLocation OwnerKind = "location"
	OwnerStaff    OwnerKind = "staff"
)

// DaySchedule is one weekly schedule entry, owned by a location or a staff
// member (at most one per day-of-week). The owner's full week is replaced
// wholesale on edit; there are no partial day updates.
type DaySchedule struct {
	Weekday int                 `json:"weekday" bson:"weekday" validate:"min=0,max=6"`
	Open    bool                `json:"open" bson:"open"`
	Hours   *timeofday.Interval `json:"hours,omitempty" bson:"hours,omitempty"`
	Break   *timeofday.Interval `json:"break,omitempty" bson:"break,omitempty"`
}

// Check enforces the entry invariants: an open day needs a valid hours
// interval, and a break must be a valid sub-interval of the hours.
func (d DaySchedule) Check() error {
	if d.Weekday < 0 || d.Weekday > 6 {
		return fmt.Errorf("weekday %d out of range 0-6", d.Weekday)
	}
	if !d.Open {
		return nil
	}
	if d.Hours == nil || !d.Hours.IsValid() {
		return fmt.Errorf("open day %d has no valid hours", d.Weekday)
	}
	if d.Break != nil {
		if !d.Break.IsValid() {
			return fmt.Errorf("break %s on day %d is malformed", d.Break, d.Weekday)
		}
		if !d.Hours.Contains(*d.Break) {
			return fmt.Errorf("break %s on day %d falls outside hours %s", d.Break, d.Weekday, d.Hours)
		}
	}
	return nil
}
