package util

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DateFormat is the calendar date layout used in every persisted record.
	DateFormat = "2006-01-02"

	// ClockFormat is the hour:minute layout of movement times.
	ClockFormat = "15:04"

	// StampFormat is the minute-precision timestamp used by alerts and users.
	StampFormat = "2006-01-02 15:04"

	// FileStampFormat names backups and exports.
	FileStampFormat = "20060102-150405"
)

// Clock abstracts the current time so stamping can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a manually driven clock for tests and demos.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the frozen time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// FormatClock formats a time as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format(ClockFormat)
}

// FormatStamp formats a time as YYYY-MM-DD HH:MM.
func FormatStamp(t time.Time) string {
	return t.Format(StampFormat)
}

// ParseDate parses a YYYY-MM-DD date in loc, or UTC when loc is nil.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseStamp parses a YYYY-MM-DD HH:MM timestamp.
func ParseStamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(StampFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// DaysSince calculates the number of calendar days between two dates.
func DaysSince(from, to time.Time) int {
	from = StartOfDay(from)
	to = StartOfDay(to.In(from.Location()))

	return int(to.Sub(from).Hours() / 24)
}

// StartOfDay returns midnight of the given day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WindowStart returns the first calendar date included in an N-day window
// ending today, as a YYYY-MM-DD string. Dates in that format compare
// correctly as strings.
func WindowStart(now time.Time, days int) string {
	return FormatDate(StartOfDay(now).AddDate(0, 0, -days))
}

// RelativeDays renders a day difference the way the dashboards show it.
func RelativeDays(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days > 1:
		return fmt.Sprintf("%d days ago", days)
	case days == -1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", -days)
	}
}
