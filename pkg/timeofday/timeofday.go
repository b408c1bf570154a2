package timeofday

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a minute-of-day value (0 = midnight, 1439 = 23:59), local to
// the tenant's calendar. Keeping it an integer makes overlap arithmetic exact
// and avoids lexicographic string comparison bugs.
type TimeOfDay int

const MinutesPerDay = 24 * 60

// Parse converts a "HH:MM" string into a TimeOfDay.
func Parse(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("time of day must be in HH:MM format, got %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// MustParse is for constants and tests; it panics on malformed input.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted by the given number of minutes. The result may
// run past midnight; callers check Valid when that matters.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time of day must be a JSON string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Interval is a half-open time-of-day range [Start, End) within one calendar
// date.
type Interval struct {
	Start TimeOfDay `json:"start" bson:"start"`
	End   TimeOfDay `json:"end" bson:"end"`
}

// NewInterval builds a validated interval; start must be strictly before end.
func NewInterval(start, end TimeOfDay) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if !iv.IsValid() {
		return Interval{}, fmt.Errorf("invalid interval %s", iv)
	}
	return iv, nil
}

func (iv Interval) IsValid() bool {
	return iv.Start.Valid() && iv.End > iv.Start && iv.End <= MinutesPerDay
}

// Overlaps reports whether two half-open intervals share any minute.
// Touching boundaries (end of one equals start of the other) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Contains reports whether other lies fully inside iv. Matching boundaries
// count as inside.
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

// Minutes returns the interval length.
func (iv Interval) Minutes() int {
	return int(iv.End - iv.Start)
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}

// DateLayout is the wire format for calendar dates. Dates are never shifted
// across a UTC day boundary; they are plain civil dates in the tenant's
// calendar.
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format, got %q", s)
	}
	return d, nil
}

// Weekday resolves the day-of-week for a civil date string.
func Weekday(date string) (time.Weekday, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return d.Weekday(), nil
}

// DateWithin reports whether date falls inside the inclusive [from, until]
// civil date range.
func DateWithin(date, from, until string) (bool, error) {
	d, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	lo, err := ParseDate(from)
	if err != nil {
		return false, err
	}
	hi, err := ParseDate(until)
	if err != nil {
		return false, err
	}
	return !d.Before(lo) && !d.After(hi), nil
}
