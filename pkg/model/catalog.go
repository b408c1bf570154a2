package model

// Catalog entities are owned and mutated by the account/catalog subsystem.
// The scheduling core reads them by id and treats them as valid only within
// a single validation pass.

// Location is a physical branch with exactly one weekly schedule entry per
// day-of-week (some possibly closed).
type Location struct {
	ID       string        `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID string        `json:"tenant_id" bson:"tenant_id"`
	Name     string        `json:"name" bson:"name"`
	Address  string        `json:"address,omitempty" bson:"address,omitempty"`
	Active   bool          `json:"active" bson:"active"`
	Week     []DaySchedule `json:"week" bson:"week"`
}

// Staff is a bookable resource: it owns a weekly schedule and blackouts and
// is assigned to one or more locations.
type Staff struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID    string        `json:"tenant_id" bson:"tenant_id"`
	Name        string        `json:"name" bson:"name"`
	Active      bool          `json:"active" bson:"active"`
	LocationIDs []string      `json:"location_ids" bson:"location_ids"`
	Week        []DaySchedule `json:"week" bson:"week"`
}

// AssignedTo reports whether the staff member works at the given location.
func (s *Staff) AssignedTo(locationID string) bool {
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// Service sizes booking intervals and slot steps; otherwise inert to the
// scheduling core. Price is fixed-point cents, snapshotted onto bookings at
// creation time.
type Service struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID    string `json:"tenant_id" bson:"tenant_id"`
	Name        string `json:"name" bson:"name"`
	Active      bool   `json:"active" bson:"active"`
	DurationMin int    `json:"duration_min" bson:"duration_min"`
	PriceCents  int64  `json:"price_cents" bson:"price_cents"`
}

// Client is the person the booking is for. The core only needs existence
// and tenant ownership.
type Client struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID string `json:"tenant_id" bson:"tenant_id"`
	Name     string `json:"name" bson:"name"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
}
