package scheduling

import (
	"context"
	"fmt"

	"slotwise/pkg/model"
	"slotwise/pkg/timeofday"
)

// BlackoutSource returns the blackout rows whose date range contains the
// given civil date.
type BlackoutSource interface {
	BlackoutsOn(ctx context.Context, staffID, date string) ([]model.Blackout, error)
}

type BlackoutKind int

const (
	BlackoutNone BlackoutKind = iota
	BlackoutWholeDay
	BlackoutWindow
)

// BlackoutResult carries the blocking row so rejections can name the exact
// absence that caused them.
type BlackoutResult struct {
	Kind     BlackoutKind
	Blackout *model.Blackout
}

func (r BlackoutResult) Blocked() bool {
	return r.Kind != BlackoutNone
}

// BlackoutChecker reports staff unavailability for a date and interval.
type BlackoutChecker struct {
	blackouts BlackoutSource
}

func NewBlackoutChecker(blackouts BlackoutSource) *BlackoutChecker {
	return &BlackoutChecker{blackouts: blackouts}
}

// Check scans every blackout covering the date. Any whole-day row blocks
// regardless of interval; otherwise each partial row is tested with the
// half-open overlap rule. Multiple disjoint partial blackouts may coexist on
// one date, so all rows are checked.
func (c *BlackoutChecker) Check(ctx context.Context, staffID, date string, iv timeofday.Interval) (BlackoutResult, error) {
	rows, err := c.blackouts.BlackoutsOn(ctx, staffID, date)
	if err != nil {
		return BlackoutResult{}, fmt.Errorf("failed to load blackouts for staff %s: %w", staffID, err)
	}

	for i := range rows {
		covers, err := rows[i].Covers(date)
		if err != nil {
			return BlackoutResult{}, err
		}
		if !covers {
			continue
		}
		if rows[i].WholeDay {
			return BlackoutResult{Kind: BlackoutWholeDay, Blackout: &rows[i]}, nil
		}
	}

	for i := range rows {
		covers, err := rows[i].Covers(date)
		if err != nil {
			return BlackoutResult{}, err
		}
		if !covers || rows[i].WholeDay || rows[i].Window == nil {
			continue
		}
		if rows[i].Window.Overlaps(iv) {
			return BlackoutResult{Kind: BlackoutWindow, Blackout: &rows[i]}, nil
		}
	}

	return BlackoutResult{Kind: BlackoutNone}, nil
}
