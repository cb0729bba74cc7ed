package engine

import (
	"fmt"
	"time"
)

// Date is a local calendar day with no time-of-day and no timezone.
//
// All arithmetic is done on midnight instants constructed in UTC, so the host
// timezone can never shift a day boundary underneath offset counting. The UTC
// location here is an arithmetic detail only; a Date still means "this wall
// calendar day wherever the user is".
type Date struct {
	Year  int
	Month int // 1..12
	Day   int // 1..31
}

// ParseDate parses a "YYYY-MM-DD" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// DateOf truncates a time.Time to its calendar day in that time's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

// DaysUntil returns the whole-day offset from d to other.
// Positive when other is after d.
func (d Date) DaysUntil(other Date) int {
	return int(other.time().Sub(d.time()) / (24 * time.Hour))
}

// MonthsUntil counts whole calendar-month steps from d to other,
// ignoring the day-of-month.
func (d Date) MonthsUntil(other Date) int {
	return (other.Year-d.Year)*12 + (other.Month - d.Month)
}

func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }
func (d Date) After(other Date) bool  { return d.time().After(other.time()) }

// Weekday returns the day of week with 0 = Sunday .. 6 = Saturday.
func (d Date) Weekday() int { return int(d.time().Weekday()) }

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	first := time.Date(d.Year, time.Month(d.Month), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// ParseClock parses an "HH:MM" 24-hour string into minutes since midnight.
func ParseClock(s string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return hh*60 + mm, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
