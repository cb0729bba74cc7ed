package planner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dayplan/internal/engine"
	"dayplan/internal/storage"
	logx "dayplan/pkg/logx"
)

func newTestService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.Config{Path: filepath.Join(t.TempDir(), "test.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(store, logx.Nop(), true), store
}

func TestPlanForCachesAndInvalidates(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()
	date, _ := engine.ParseDate("2026-08-31")

	tpl := engine.TaskTemplate{
		ID: "walk", Name: "Walk", IsActive: true, Priority: 3,
		Scheduling: engine.SchedulingFlexible, TimeWindow: engine.WindowMorning,
		DurationMinutes: 30,
	}
	if err := svc.SaveTemplate(ctx, tpl); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}

	res, err := svc.PlanFor(ctx, date, "")
	if err != nil || !res.Success || res.ScheduledTasks != 1 {
		t.Fatalf("PlanFor: res=%+v err=%v", res, err)
	}
	if _, ok, _ := store.GetCachedSchedule(ctx, date); !ok {
		t.Fatal("result should be cached")
	}

	// A same-day skip invalidates that date and removes the task.
	err = svc.SetInstance(ctx, engine.TaskInstance{
		TemplateID: "walk", Date: "2026-08-31", Status: engine.StatusSkipped,
	})
	if err != nil {
		t.Fatalf("SetInstance: %v", err)
	}
	if _, ok, _ := store.GetCachedSchedule(ctx, date); ok {
		t.Fatal("cache should be invalidated by instance write")
	}

	res, err = svc.PlanFor(ctx, date, "")
	if err != nil || res.TotalTasks != 0 {
		t.Fatalf("skipped task still scheduled: res=%+v err=%v", res, err)
	}
}

func TestPlanForCurrentTimeBypassesCache(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()
	date, _ := engine.ParseDate("2026-08-31")

	if _, err := svc.PlanFor(ctx, date, "09:15"); err != nil {
		t.Fatalf("PlanFor: %v", err)
	}
	if _, ok, _ := store.GetCachedSchedule(ctx, date); ok {
		t.Fatal("time-dependent results must not be cached")
	}
}

func TestSaveTemplateValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	bad := []engine.TaskTemplate{
		{ID: "", Scheduling: engine.SchedulingFlexible, DurationMinutes: 30},
		{ID: "a", Scheduling: engine.SchedulingFlexible, DurationMinutes: 0},
		{ID: "b", Scheduling: engine.SchedulingFixed, DefaultTime: "25:00", DurationMinutes: 30},
		{ID: "c", Scheduling: "sometimes", DurationMinutes: 30},
		{ID: "d", Scheduling: engine.SchedulingFlexible, DurationMinutes: 30, MinDurationMinutes: 45},
		{ID: "e", Scheduling: engine.SchedulingFlexible, DurationMinutes: 30, Priority: 9},
		{ID: "f", Scheduling: engine.SchedulingFlexible, DurationMinutes: 30,
			Recurrence: &engine.RecurrenceRule{Frequency: "sometimes"}},
	}
	for _, tpl := range bad {
		if err := svc.SaveTemplate(ctx, tpl); err == nil {
			t.Fatalf("expected validation error for %+v", tpl)
		}
	}
}

func TestImportTemplatesYAML(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "tasks.yaml")
	body := `
templates:
  - id: standup
    taskName: Daily standup
    isMandatory: true
    isActive: true
    schedulingType: fixed
    defaultTime: "10:00"
    durationMinutes: 15
    recurrenceRule:
      frequency: custom
      customPattern: weekdays
  - id: review
    taskName: Code review
    isActive: true
    priority: 4
    schedulingType: flexible
    timeWindow: morning
    durationMinutes: 45
    minDurationMinutes: 15
    dependsOn: standup
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	n, err := svc.ImportTemplates(ctx, path)
	if err != nil {
		t.Fatalf("ImportTemplates: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d, want 2", n)
	}

	got, err := store.GetTemplate(ctx, "review")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if got.DependsOn != "standup" || got.MinDurationMinutes != 15 {
		t.Fatalf("imported template mismatch: %+v", got)
	}
}

func TestImportTemplatesRejectsInvalidFile(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "tasks.yaml")
	body := `
templates:
  - id: ok
    taskName: Fine
    isActive: true
    schedulingType: flexible
    durationMinutes: 30
  - id: broken
    taskName: Nope
    isActive: true
    schedulingType: fixed
    durationMinutes: 30
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	// "broken" is fixed without a defaultTime; nothing may be written.
	if _, err := svc.ImportTemplates(ctx, path); err == nil {
		t.Fatal("expected validation error")
	}
	if got, _ := store.ListTemplates(ctx); len(got) != 0 {
		t.Fatalf("partial import happened: %+v", got)
	}
}
