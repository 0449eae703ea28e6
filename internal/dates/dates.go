// Package dates provides a timezone-free calendar date value.
package dates

import (
	"fmt"
	"time"
)

// Date is a calendar day (no time component, no location).
// The zero value means "unscheduled".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse parses a date in YYYY-MM-DD form.
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// FromTime truncates a time to its calendar day.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current local calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// IsZero reports whether d is the unscheduled sentinel.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String returns the zero-padded YYYY-MM-DD form. Lexicographic order
// of this form matches chronological order.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare returns -1, 0 or 1 ordering d against other chronologically.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// AddMonths returns the first day of the month n months away from d's
// month. Used for month navigation; pinning to day 1 avoids the
// 31st-to-shorter-month carryover.
func (d Date) AddMonths(n int) Date {
	y := d.Year
	m := int(d.Month) - 1 + n
	y += m / 12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	return Date{Year: y, Month: time.Month(m + 1), Day: 1}
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	// Day 0 of the next month is the last day of this one.
	t := time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}

// Weekday returns the day of the week for d (Sunday = 0).
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// MonthGrid returns the cells of a Sunday-first month grid for d's
// month. Leading cells before day 1 are zero Dates.
func (d Date) MonthGrid() []Date {
	first := Date{Year: d.Year, Month: d.Month, Day: 1}
	cells := make([]Date, 0, 42)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, Date{})
	}
	for day := 1; day <= d.DaysInMonth(); day++ {
		cells = append(cells, Date{Year: d.Year, Month: d.Month, Day: day})
	}
	return cells
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
