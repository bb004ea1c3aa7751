package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar days
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone component.
// The zero value means "no date".
type Date struct {
	t time.Time
}

// NewDate builds a Date, normalizing overflowing months and days like time.Date
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// DateOf returns the calendar day of t as seen in loc
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar day in loc
func Today(now time.Time, loc *time.Location) Date {
	return DateOf(now, loc)
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

// IsZero reports whether the date is unset
func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays returns the date n days later (earlier for negative n)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// AddMonthsClamped moves n months from d keeping d's day-of-month,
// clamped to the length of the target month.
func (d Date) AddMonthsClamped(n int) Date {
	return MonthDay(d.Year(), d.Month()+time.Month(n), d.Day())
}

// MonthDay returns day-of-month day in the given month, clamped to its length
func MonthDay(year int, month time.Month, day int) Date {
	first := NewDate(year, month, 1)
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

// DaysIn returns the number of days in the month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the number of days from d to other (negative if other is earlier)
func (d Date) DaysUntil(other Date) int {
	// Unix seconds, not Sub: a Duration saturates after ~292 years
	return int((other.t.Unix() - d.t.Unix()) / secondsPerDay)
}

// MonthsUntil returns the number of whole calendar months from d's month to other's month
func (d Date) MonthsUntil(other Date) int {
	return (other.Year()-d.Year())*12 + int(other.Month()) - int(d.Month())
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1
func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

// Time returns midnight UTC of the day
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when unset
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" or null
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
