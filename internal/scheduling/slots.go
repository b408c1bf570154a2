package scheduling

import (
	"context"

	"slotwise/pkg/model"
	"slotwise/pkg/timeofday"
)

// SlotRequest describes one availability query. StaffID is optional; when
// empty, slots are judged against the location's aggregate capacity.
type SlotRequest struct {
	TenantID    string
	LocationID  string
	StaffID     string
	Date        string
	DurationMin int
	StepMin     int
}

// Slot is one candidate interval with its availability verdict. Slots are
// independent of each other: no candidate's verdict depends on another
// candidate in the same response.
type Slot struct {
	Start     timeofday.TimeOfDay `json:"start"`
	End       timeofday.TimeOfDay `json:"end"`
	Available bool                `json:"available"`
}

// SlotGenerator walks a day's effective window at a fixed step and
// classifies each candidate using the same primitives the booking pipeline
// uses. It is read-only: results are a best-effort snapshot that a
// concurrent write can invalidate, so creates always re-validate.
type SlotGenerator struct {
	resolver  *CalendarResolver
	blackouts *BlackoutChecker
	conflicts *ConflictDetector
	capacity  *CapacityEvaluator
}

func NewSlotGenerator(resolver *CalendarResolver, blackouts *BlackoutChecker, conflicts *ConflictDetector, capacity *CapacityEvaluator) *SlotGenerator {
	return &SlotGenerator{
		resolver:  resolver,
		blackouts: blackouts,
		conflicts: conflicts,
		capacity:  capacity,
	}
}

// Generate resolves the effective window (staff window when a staff id is
// given, else the location window) and emits consecutive candidates of the
// service duration at the configured step. A closed day yields an empty
// list.
func (g *SlotGenerator) Generate(ctx context.Context, req SlotRequest) ([]Slot, error) {
	ownerKind := model.OwnerLocation
	ownerID := req.LocationID
	if req.StaffID != "" {
		ownerKind = model.OwnerStaff
		ownerID = req.StaffID
	}

	window, err := g.resolver.ResolveWindow(ctx, ownerKind, ownerID, req.Date)
	if err != nil {
		return nil, err
	}
	if !window.Open {
		return []Slot{}, nil
	}

	slots := []Slot{}
	for start := window.Hours.Start; start.Add(req.DurationMin) <= window.Hours.End; start = start.Add(req.StepMin) {
		iv := timeofday.Interval{Start: start, End: start.Add(req.DurationMin)}

		available, err := g.slotFree(ctx, req, window, iv)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{Start: iv.Start, End: iv.End, Available: available})
	}

	return slots, nil
}

func (g *SlotGenerator) slotFree(ctx context.Context, req SlotRequest, window Window, iv timeofday.Interval) (bool, error) {
	if window.Admits(iv) != AdmitOK {
		return false, nil
	}

	if req.StaffID != "" {
		blocked, err := g.blackouts.Check(ctx, req.StaffID, req.Date, iv)
		if err != nil {
			return false, err
		}
		if blocked.Blocked() {
			return false, nil
		}

		conflict, err := g.conflicts.FindConflict(ctx, req.TenantID, req.StaffID, req.Date, iv, "")
		if err != nil {
			return false, err
		}
		return conflict == nil, nil
	}

	decision, err := g.capacity.Evaluate(ctx, req.TenantID, req.LocationID, req.Date, iv, "")
	if err != nil {
		return false, err
	}
	return decision.Fits(), nil
}
