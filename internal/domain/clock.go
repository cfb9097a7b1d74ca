package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time expressed in minutes after midnight.
type TimeOfDay int

// MinutesPerDay bounds TimeOfDay values.
const MinutesPerDay TimeOfDay = 24 * 60

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS". Seconds are truncated.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", value)
}

// MustTimeOfDay parses value and panics on error. Intended for literals.
func MustTimeOfDay(value string) TimeOfDay {
	t, err := ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// Interval is a half-open [Start, End) window on one calendar date.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Valid reports whether the interval is non-empty and within one day.
func (i Interval) Valid() bool {
	return i.Start.Valid() && i.End > i.Start && i.End <= MinutesPerDay
}

// Overlaps uses half-open semantics: intervals that only touch do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Minutes returns the interval length.
func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return d, nil
}

// TruncateDate drops the clock part, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
