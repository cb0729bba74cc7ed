package reminder

import (
	"strings"
	"testing"

	"dayplan/internal/engine"
)

func TestFormatDay(t *testing.T) {
	t.Parallel()
	date, _ := engine.ParseDate("2026-08-31")
	names := map[string]string{"standup": "Daily standup"}

	t.Run("success with blocks", func(t *testing.T) {
		t.Parallel()
		res := engine.ScheduleResult{
			Success: true,
			Schedule: []engine.ScheduleBlock{
				{TemplateID: "standup", StartTime: "10:00", EndTime: "10:15"},
				{TemplateID: "review", StartTime: "10:15", EndTime: "11:00"},
			},
			TotalTasks:     3,
			ScheduledTasks: 2,
			Advisories:     []string{"crunch_time_min_duration_used:review"},
			Sleep:          engine.SleepSchedule{WakeTime: "07:00", SleepTime: "23:00"},
		}
		got := FormatDay(date, res, names)
		for _, want := range []string{
			"2026-08-31",
			"10:00-10:15  Daily standup",
			"10:15-11:00  review", // unknown id falls back to the id
			"2 of 3 tasks fit",
			"crunch_time_min_duration_used:review",
			"23:00 to 07:00",
		} {
			if !strings.Contains(got, want) {
				t.Fatalf("summary missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("empty day", func(t *testing.T) {
		t.Parallel()
		res := engine.ScheduleResult{Success: true, Schedule: []engine.ScheduleBlock{}}
		if got := FormatDay(date, res, nil); !strings.Contains(got, "Nothing scheduled") {
			t.Fatalf("unexpected summary: %s", got)
		}
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		res := engine.ScheduleResult{
			Success: false,
			Error:   engine.ErrImpossibleSchedule,
			Message: "mandatory tasks need 600 minutes but only 480 are awake",
		}
		got := FormatDay(date, res, nil)
		if !strings.Contains(got, engine.ErrImpossibleSchedule) || !strings.Contains(got, "600 minutes") {
			t.Fatalf("unexpected summary: %s", got)
		}
	})
}
