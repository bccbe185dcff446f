package timecalc

import (
	"fmt"
	"time"
)

const (
	// Layout is the fixed-width entry timestamp format (yymmdd HH:MM).
	Layout = "060102 15:04"
	// DateLayout is the day-file key format (yymmdd).
	DateLayout = "060102"
)

// FormatError reports a string that does not match the timestamp layout.
type FormatError struct {
	Value  string
	Layout string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: want format %q", e.Value, e.Layout)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Clock allows deterministic time for tests.
type Clock interface {
	Now() time.Time
}

// RealClock uses time.Now.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock returns a settable constant time.
type FixedClock struct{ t time.Time }

func NewFixedClock(t time.Time) *FixedClock { return &FixedClock{t: t} }
func (f *FixedClock) Now() time.Time        { return f.t }

// Set moves the clock to t.
func (f *FixedClock) Set(t time.Time) { f.t = t }

// Advance moves the clock forward by d.
func (f *FixedClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

// Format renders t as "yymmdd HH:MM".
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a "yymmdd HH:MM" string in local time.
func Parse(s string) (time.Time, error) {
	if len(s) != len(Layout) {
		return time.Time{}, &FormatError{Value: s, Layout: Layout}
	}
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, &FormatError{Value: s, Layout: Layout, Err: err}
	}
	return t, nil
}

// DateKey renders the yymmdd key of the day containing t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey reads a yymmdd key as local midnight of that day.
func ParseDateKey(key string) (time.Time, error) {
	if len(key) != len(DateLayout) {
		return time.Time{}, &FormatError{Value: key, Layout: DateLayout}
	}
	t, err := time.ParseInLocation(DateLayout, key, time.Local)
	if err != nil {
		return time.Time{}, &FormatError{Value: key, Layout: DateLayout, Err: err}
	}
	return t, nil
}

// Truncate drops seconds and below, keeping local wall-clock minutes.
func Truncate(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
}

// Now returns the clock's current local time truncated to the minute.
func Now(clk Clock) time.Time {
	return Truncate(clk.Now())
}

// TodayKey returns the yymmdd key of the current day.
func TodayKey(clk Clock) string {
	return DateKey(Now(clk))
}

// PreviousMidnight returns 00:00 of the current day.
func PreviousMidnight(clk Clock) time.Time {
	return StartOfDay(Now(clk))
}

// NextMidnight returns 23:59 of the given day. The minute short of true
// midnight keeps a closing entry inside its own day file.
func NextMidnight(dateKey string) (time.Time, error) {
	day, err := ParseDateKey(dateKey)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, time.Local), nil
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDurationClock formats d as H:MM:SS with unbounded hours.
func FormatDurationClock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	seconds := int64(d / time.Second)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}

// FormatDuration formats d as a short human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(d time.Duration) string {
	seconds := int64(d / time.Second)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}
