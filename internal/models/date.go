package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates ("2025-01-15").
const DateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day and no timezone.
// Ship dates live in the warehouse's calendar, so every comparison against
// "today" must be a calendar comparison. Storing an instant instead would
// shift dates by a day depending on the server timezone, which is exactly
// the bug this type exists to prevent. Internally the date is pinned to
// midnight UTC.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date, in the instant's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %v", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

// String returns the date in wire format.
func (d Date) String() string { return d.t.Format(DateLayout) }

// Weekday returns the short weekday label ("Mon") used by the weekly chart.
func (d Date) Weekday() string { return d.t.Format("Mon") }

// MonthName returns the full month name ("January").
func (d Date) MonthName() string { return d.t.Month().String() }

// Before reports whether d falls strictly before other on the calendar.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d falls strictly after other on the calendar.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Time returns the date as midnight UTC, for handing to database drivers.
func (d Date) Time() time.Time { return d.t }

// MarshalJSON encodes the date as a quoted "2006-01-02" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted "2006-01-02" string or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("invalid date: empty")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
