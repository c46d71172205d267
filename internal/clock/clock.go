// Package clock isolates the current-time dependency so date-boundary
// logic can be tested against a fixed instant.
package clock

import "time"

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for times of day.
	TimeLayout = "15:04"
)

// Clock supplies "now" and "today" to the scheduling engine. All dates
// and times are naive local calendar values.
type Clock interface {
	Now() time.Time
	Today() string
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Today() string {
	return time.Now().Format(DateLayout)
}

// FixedClock always reports the same instant. Used in tests.
type FixedClock struct {
	Instant time.Time
}

func NewFixed(instant time.Time) FixedClock {
	return FixedClock{Instant: instant}
}

func (f FixedClock) Now() time.Time {
	return f.Instant
}

func (f FixedClock) Today() string {
	return f.Instant.Format(DateLayout)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a well-formed zero-padded HH:MM time.
// Zero-padding matters: it makes lexicographic order equal chronological
// order for both dates and times of day.
func ValidTime(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// MinutesOfDay converts an HH:MM string to minutes since midnight.
// Callers must validate the string first.
func MinutesOfDay(s string) int {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// AddDays shifts an ISO date string by n calendar days.
func AddDays(date string, n int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}
