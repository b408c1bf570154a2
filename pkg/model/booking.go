package model

import (
	"time"

	"slotwise/pkg/timeofday"
)

// Booking is the unit being scheduled. Date and times are civil values in
// the tenant's calendar, never shifted across a UTC day boundary. Location,
// service, staff and client are non-owning references into the catalog.
type Booking struct {
	ID         string              `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TenantID   string              `json:"tenant_id" bson:"tenant_id" validate:"required,mongodb"`
	LocationID string              `json:"location_id" bson:"location_id" validate:"required,mongodb"`
	ServiceID  string              `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	StaffID    string              `json:"staff_id,omitempty" bson:"staff_id,omitempty" validate:"omitempty,mongodb"`
	ClientID   string              `json:"client_id" bson:"client_id" validate:"required,mongodb"`
	Date       string              `json:"date" bson:"date" validate:"required,civil_date"`
	Start      timeofday.TimeOfDay `json:"start" bson:"start"`
	End        timeofday.TimeOfDay `json:"end" bson:"end"`
	Status     BookingStatus       `json:"status" bson:"status" validate:"required,oneof=pending confirmed completed cancelled no_show"`
	PriceCents int64               `json:"price_cents" bson:"price_cents" validate:"min=0"`
	Notes      string              `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedBy  string              `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy  string              `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time           `json:"updated_at,omitempty" bson:"updated_at,omitempty" validate:"omitempty"`
}

func (b *Booking) Interval() timeofday.Interval {
	return timeofday.Interval{Start: b.Start, End: b.End}
}

// BookingUpdate carries a partial reschedule/detail change. Pointer fields
// distinguish "not supplied" from zero values; the service merges it onto
// the stored booking and re-runs the full validation pipeline.
type BookingUpdate struct {
	LocationID *string              `json:"location_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID  *string              `json:"service_id,omitempty" validate:"omitempty,mongodb"`
	StaffID    *string              `json:"staff_id,omitempty" validate:"omitempty"`
	Date       *string              `json:"date,omitempty" validate:"omitempty,civil_date"`
	Start      *timeofday.TimeOfDay `json:"start,omitempty"`
	End        *timeofday.TimeOfDay `json:"end,omitempty"`
	Notes      *string              `json:"notes,omitempty" validate:"omitempty,max=500"`
	UpdatedBy  string               `json:"updated_by,omitempty"`
}
