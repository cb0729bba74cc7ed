package engine

import "testing"

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error: %v", s, err)
	}
	return d
}

func TestParseDate(t *testing.T) {
	t.Parallel()
	d := mustDate(t, "2026-02-28")
	if d.Year != 2026 || d.Month != 2 || d.Day != 28 {
		t.Fatalf("unexpected date: %+v", d)
	}
	if d.String() != "2026-02-28" {
		t.Fatalf("String() = %s", d.String())
	}

	for _, bad := range []string{"", "2026-13-01", "2026-02-30", "26-02-28", "2026/02/28"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q): expected error", bad)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		from string
		days int
		want string
	}{
		{name: "simple", from: "2026-03-10", days: 5, want: "2026-03-15"},
		{name: "month rollover", from: "2026-01-31", days: 1, want: "2026-02-01"},
		{name: "leap day", from: "2024-02-28", days: 1, want: "2024-02-29"},
		{name: "year rollover", from: "2025-12-31", days: 1, want: "2026-01-01"},
		{name: "backwards", from: "2026-03-01", days: -1, want: "2026-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := mustDate(t, tt.from)
			got := from.AddDays(tt.days)
			if got.String() != tt.want {
				t.Fatalf("AddDays(%d) = %s, want %s", tt.days, got, tt.want)
			}
			if from.DaysUntil(got) != tt.days {
				t.Fatalf("DaysUntil = %d, want %d", from.DaysUntil(got), tt.days)
			}
		})
	}
}

func TestWeekdayAndMonthLength(t *testing.T) {
	t.Parallel()
	// 2026-08-31 is a Monday.
	if wd := mustDate(t, "2026-08-31").Weekday(); wd != 1 {
		t.Fatalf("Weekday = %d, want 1", wd)
	}
	if wd := mustDate(t, "2026-08-30").Weekday(); wd != 0 {
		t.Fatalf("Weekday = %d, want 0 (Sunday)", wd)
	}
	if n := mustDate(t, "2024-02-01").DaysInMonth(); n != 29 {
		t.Fatalf("DaysInMonth(2024-02) = %d, want 29", n)
	}
	if n := mustDate(t, "2026-04-15").DaysInMonth(); n != 30 {
		t.Fatalf("DaysInMonth(2026-04) = %d, want 30", n)
	}
}

func TestMonthsUntil(t *testing.T) {
	t.Parallel()
	a := mustDate(t, "2026-01-15")
	if got := a.MonthsUntil(mustDate(t, "2026-04-02")); got != 3 {
		t.Fatalf("MonthsUntil = %d, want 3", got)
	}
	if got := a.MonthsUntil(mustDate(t, "2027-02-01")); got != 13 {
		t.Fatalf("MonthsUntil = %d, want 13", got)
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		minutes int
		ok      bool
	}{
		{raw: "00:00", minutes: 0, ok: true},
		{raw: "06:30", minutes: 390, ok: true},
		{raw: "23:59", minutes: 1439, ok: true},
		{raw: "24:00", ok: false},
		{raw: "12:60", ok: false},
		{raw: "9:30", ok: false},
		{raw: "", ok: false},
		{raw: "noon", ok: false},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.raw)
		if tt.ok != (err == nil) {
			t.Fatalf("ParseClock(%q) err = %v, ok = %v", tt.raw, err, tt.ok)
		}
		if tt.ok && got != tt.minutes {
			t.Fatalf("ParseClock(%q) = %d, want %d", tt.raw, got, tt.minutes)
		}
	}

	if s := FormatClock(590); s != "09:50" {
		t.Fatalf("FormatClock(590) = %s", s)
	}
}
