package engine

import (
	"fmt"
)

// ShouldGenerateForDate reports whether a template governed by rule produces
// an occurrence on date.
//
// A nil rule or Frequency none means a one-off task, which always "occurs".
// An unrecognized frequency produces no occurrences (callers that want a
// diagnostic run ValidateRule separately).
//
// Occurrence-count limits (end after N occurrences) are not implemented:
// they would require counting prior instances, which this pure predicate
// cannot do. Known limitation.
func ShouldGenerateForDate(rule *RecurrenceRule, date Date) bool {
	if rule == nil || rule.Frequency == "" || rule.Frequency == FreqNone {
		return true
	}
	if !withinBounds(rule, date) {
		return false
	}

	switch rule.Frequency {
	case FreqDaily:
		return matchesDaily(rule, date)
	case FreqWeekly:
		return matchesWeekly(rule, date)
	case FreqMonthly:
		return matchesMonthly(rule, date)
	case FreqYearly:
		return matchesYearly(rule, date)
	case FreqCustom:
		return matchesCustom(rule, date)
	default:
		return false
	}
}

// withinBounds applies the optional inclusive [StartDate, EndDate] fence.
// A malformed bound is treated as unset; ValidateRule reports it.
func withinBounds(rule *RecurrenceRule, date Date) bool {
	if rule.StartDate != "" {
		if start, err := ParseDate(rule.StartDate); err == nil && date.Before(start) {
			return false
		}
	}
	if rule.EndDate != "" {
		if end, err := ParseDate(rule.EndDate); err == nil && date.After(end) {
			return false
		}
	}
	return true
}

func interval(rule *RecurrenceRule) int {
	if rule.Interval <= 1 {
		return 1
	}
	return rule.Interval
}

// startAnchor returns the rule's start date when set and parseable.
// Interval alignment needs an anchor; without one every candidate aligns.
func startAnchor(rule *RecurrenceRule) (Date, bool) {
	if rule.StartDate == "" {
		return Date{}, false
	}
	d, err := ParseDate(rule.StartDate)
	return d, err == nil
}

func matchesDaily(rule *RecurrenceRule, date Date) bool {
	n := interval(rule)
	if n == 1 {
		return true
	}
	start, ok := startAnchor(rule)
	if !ok {
		return true
	}
	days := start.DaysUntil(date)
	return days >= 0 && days%n == 0
}

func matchesWeekly(rule *RecurrenceRule, date Date) bool {
	if !containsInt(rule.DaysOfWeek, date.Weekday()) {
		return false
	}
	n := interval(rule)
	if n == 1 {
		return true
	}
	start, ok := startAnchor(rule)
	if !ok {
		return true
	}
	days := start.DaysUntil(date)
	if days < 0 {
		return false
	}
	return (days/7)%n == 0
}

func matchesMonthly(rule *RecurrenceRule, date Date) bool {
	if !matchesDayOfMonth(rule.DayOfMonth, date) {
		return false
	}
	n := interval(rule)
	if n == 1 {
		return true
	}
	start, ok := startAnchor(rule)
	if !ok {
		return true
	}
	months := start.MonthsUntil(date)
	return months >= 0 && months%n == 0
}

func matchesYearly(rule *RecurrenceRule, date Date) bool {
	if rule.Month != 0 && rule.Month != date.Month {
		return false
	}
	if !matchesDayOfMonth(rule.DayOfMonth, date) {
		return false
	}
	n := interval(rule)
	if n == 1 {
		return true
	}
	start, ok := startAnchor(rule)
	if !ok {
		return true
	}
	years := date.Year - start.Year
	return years >= 0 && years%n == 0
}

// matchesDayOfMonth checks the 1..31 / LastDayOfMonth constraint.
// 0 means no constraint.
func matchesDayOfMonth(dom int, date Date) bool {
	switch {
	case dom == 0:
		return true
	case dom == LastDayOfMonth:
		return date.Day == date.DaysInMonth()
	default:
		return date.Day == dom
	}
}

func matchesCustom(rule *RecurrenceRule, date Date) bool {
	wd := date.Weekday()
	switch rule.CustomPattern {
	case PatternWeekdays, PatternBusinessDays:
		return wd >= 1 && wd <= 5
	case PatternWeekends:
		return wd == 0 || wd == 6
	case PatternNthWeekday:
		if rule.Weekday == nil || rule.Nth < 1 {
			return false
		}
		if wd != *rule.Weekday {
			return false
		}
		return (date.Day-1)/7+1 == rule.Nth
	case PatternLastWeekday:
		if rule.Weekday == nil || wd != *rule.Weekday {
			return false
		}
		// Last occurrence iff one week later rolls into the next month.
		return date.AddDays(7).Month != date.Month
	default:
		return false
	}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// nextOccurrenceScanDays bounds the forward scan of NextOccurrence.
const nextOccurrenceScanDays = 366

// NextOccurrence scans forward day-by-day from the day after `from` and
// returns the first date the rule matches, or false if none occurs within a
// year.
func NextOccurrence(rule *RecurrenceRule, from Date) (Date, bool) {
	for i := 1; i <= nextOccurrenceScanDays; i++ {
		d := from.AddDays(i)
		if ShouldGenerateForDate(rule, d) {
			return d, true
		}
	}
	return Date{}, false
}

// OccurrencesInRange enumerates every date in [start, end] (inclusive) the
// rule matches. Used by calendar/preview callers, not by the scheduler.
func OccurrencesInRange(rule *RecurrenceRule, start, end Date) []Date {
	if end.Before(start) {
		return nil
	}
	var out []Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		if ShouldGenerateForDate(rule, d) {
			out = append(out, d)
		}
	}
	return out
}

// ValidateRule performs structural validation and returns human-readable
// problems. It does not check semantic consistency between fields the active
// frequency does not use.
func ValidateRule(rule *RecurrenceRule) []string {
	if rule == nil {
		return nil
	}
	var problems []string

	switch rule.Frequency {
	case "", FreqNone, FreqDaily, FreqWeekly, FreqMonthly, FreqYearly, FreqCustom:
	default:
		problems = append(problems, fmt.Sprintf("unknown frequency %q", rule.Frequency))
	}

	if rule.Interval < 0 {
		problems = append(problems, "interval must be a positive integer")
	}

	var start, end Date
	var haveStart, haveEnd bool
	if rule.StartDate != "" {
		d, err := ParseDate(rule.StartDate)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid startDate %q", rule.StartDate))
		} else {
			start, haveStart = d, true
		}
	}
	if rule.EndDate != "" {
		d, err := ParseDate(rule.EndDate)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid endDate %q", rule.EndDate))
		} else {
			end, haveEnd = d, true
		}
	}
	if haveStart && haveEnd && end.Before(start) {
		problems = append(problems, "startDate must be before endDate")
	}

	for _, wd := range rule.DaysOfWeek {
		if wd < 0 || wd > 6 {
			problems = append(problems, fmt.Sprintf("daysOfWeek value %d out of range 0-6", wd))
		}
	}

	if rule.DayOfMonth != 0 && rule.DayOfMonth != LastDayOfMonth && (rule.DayOfMonth < 1 || rule.DayOfMonth > 31) {
		problems = append(problems, fmt.Sprintf("dayOfMonth %d out of range 1-31 (or -1 for last day)", rule.DayOfMonth))
	}

	if rule.Month != 0 && (rule.Month < 1 || rule.Month > 12) {
		problems = append(problems, fmt.Sprintf("month %d out of range 1-12", rule.Month))
	}

	if rule.Frequency == FreqCustom {
		switch rule.CustomPattern {
		case PatternWeekdays, PatternWeekends, PatternBusinessDays:
		case PatternNthWeekday:
			if rule.Weekday == nil {
				problems = append(problems, "nth-weekday requires a weekday")
			}
			if rule.Nth < 1 || rule.Nth > 5 {
				problems = append(problems, "nth-weekday requires nth in 1-5")
			}
		case PatternLastWeekday:
			if rule.Weekday == nil {
				problems = append(problems, "last-weekday requires a weekday")
			}
		default:
			problems = append(problems, fmt.Sprintf("unknown custom pattern %q", rule.CustomPattern))
		}
		if rule.Weekday != nil && (*rule.Weekday < 0 || *rule.Weekday > 6) {
			problems = append(problems, fmt.Sprintf("weekday %d out of range 0-6", *rule.Weekday))
		}
	}

	return problems
}
