package scheduling

import (
	"context"
	"testing"

	"slotwise/pkg/model"
)

func wholeDayBlackout(staffID, from, until string) model.Blackout {
	return model.Blackout{
		ID:        "b-whole",
		TenantID:  "t1",
		StaffID:   staffID,
		StartDate: from,
		EndDate:   until,
		WholeDay:  true,
	}
}

func partialBlackout(id, staffID, date, start, end string) model.Blackout {
	return model.Blackout{
		ID:        id,
		TenantID:  "t1",
		StaffID:   staffID,
		StartDate: date,
		EndDate:   date,
		Window:    ivp(start, end),
	}
}

func TestBlackoutCheck_Free(t *testing.T) {
	checker := NewBlackoutChecker(&mockBlackoutSource{})

	result, err := checker.Check(context.Background(), "s1", "2025-05-01", iv("10:00", "11:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Blocked() {
		t.Error("expected free with no blackout rows")
	}
}

func TestBlackoutCheck_WholeDayBlocksAnyInterval(t *testing.T) {
	source := &mockBlackoutSource{
		blackoutsOnFunc: func(_ context.Context, staffID, _ string) ([]model.Blackout, error) {
			return []model.Blackout{wholeDayBlackout(staffID, "2025-05-01", "2025-05-01")}, nil
		},
	}
	checker := NewBlackoutChecker(source)

	for _, window := range [][2]string{{"00:00", "00:30"}, {"09:00", "10:00"}, {"23:00", "23:30"}} {
		result, err := checker.Check(context.Background(), "s1", "2025-05-01", iv(window[0], window[1]))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Kind != BlackoutWholeDay {
			t.Errorf("interval %s-%s: expected whole-day block, got %v", window[0], window[1], result.Kind)
		}
	}
}

func TestBlackoutCheck_WholeDayWinsOverPartial(t *testing.T) {
	source := &mockBlackoutSource{
		blackoutsOnFunc: func(_ context.Context, staffID, _ string) ([]model.Blackout, error) {
			return []model.Blackout{
				partialBlackout("b-part", staffID, "2025-05-01", "09:00", "10:00"),
				wholeDayBlackout(staffID, "2025-05-01", "2025-05-01"),
			}, nil
		},
	}

	result, err := NewBlackoutChecker(source).Check(context.Background(), "s1", "2025-05-01", iv("15:00", "16:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != BlackoutWholeDay {
		t.Errorf("expected whole-day verdict, got %v", result.Kind)
	}
}

func TestBlackoutCheck_MultiDayRange(t *testing.T) {
	source := &mockBlackoutSource{
		blackoutsOnFunc: func(_ context.Context, staffID, _ string) ([]model.Blackout, error) {
			return []model.Blackout{wholeDayBlackout(staffID, "2025-05-01", "2025-05-05")}, nil
		},
	}
	checker := NewBlackoutChecker(source)

	result, err := checker.Check(context.Background(), "s1", "2025-05-03", iv("10:00", "11:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != BlackoutWholeDay {
		t.Error("date inside the inclusive range must be blocked")
	}
}

func TestBlackoutCheck_PartialOverlapRules(t *testing.T) {
	source := &mockBlackoutSource{
		blackoutsOnFunc: func(_ context.Context, staffID, _ string) ([]model.Blackout, error) {
			return []model.Blackout{
				partialBlackout("b-am", staffID, "2025-05-01", "09:00", "10:00"),
				partialBlackout("b-pm", staffID, "2025-05-01", "15:00", "16:00"),
			}, nil
		},
	}
	checker := NewBlackoutChecker(source)

	tests := []struct {
		name    string
		start   string
		end     string
		blocked bool
		blockID string
	}{
		{"between the two blackouts", "11:00", "12:00", false, ""},
		{"touching first blackout end", "10:00", "11:00", false, ""},
		{"overlapping first", "09:30", "10:30", true, "b-am"},
		{"overlapping second", "14:30", "15:30", true, "b-pm"},
		{"inside second", "15:15", "15:45", true, "b-pm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := checker.Check(context.Background(), "s1", "2025-05-01", iv(tt.start, tt.end))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Blocked() != tt.blocked {
				t.Fatalf("blocked = %v, want %v", result.Blocked(), tt.blocked)
			}
			if tt.blocked {
				if result.Kind != BlackoutWindow {
					t.Errorf("expected window block, got %v", result.Kind)
				}
				if result.Blackout == nil || result.Blackout.ID != tt.blockID {
					t.Errorf("expected blocking row %s, got %+v", tt.blockID, result.Blackout)
				}
			}
		})
	}
}
