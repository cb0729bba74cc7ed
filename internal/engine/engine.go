package engine

import (
	"fmt"
	"sort"
	"strings"
)

// GenerateSchedule computes one day's schedule from task templates, per-day
// instances, and sleep settings.
//
// It is a pure function: no I/O, no ambient clock (the optional currentTime
// is an explicit "HH:MM" argument, empty = unknown), no mutation of inputs.
// Identical inputs produce identical output, so callers may cache the result
// keyed by (date, inputs) and invoke it concurrently without locking.
//
// Pass order: filter applicable templates, check the mandatory workload fits
// the awake window at all, pin anchors (manual overrides first, then fixed
// defaults), then greedily place flexible tasks in dependency+priority order.
// A flexible task that fits nowhere is silently left out of the schedule;
// the only hard failure is impossible_schedule.
func GenerateSchedule(settings Settings, templates []TaskTemplate, instances []TaskInstance, date Date, override *DailyOverride, currentTime string) ScheduleResult {
	wake, sleep := awakeWindow(settings, override)
	sleepUsed := SleepSchedule{
		WakeTime:     FormatClock(wake),
		SleepTime:    FormatClock(sleep),
		DesiredHours: settings.DesiredSleepHours,
	}

	byTemplate := make(map[string]TaskInstance, len(instances))
	for _, in := range instances {
		if in.Date == "" || in.Date == date.String() {
			byTemplate[in.TemplateID] = in
		}
	}

	// Filter: active, occurs today, not closed out by a same-day instance.
	// Postponed mirrors skip semantics for today's placement.
	var todays []TaskTemplate
	for _, t := range templates {
		if !t.IsActive {
			continue
		}
		if !ShouldGenerateForDate(t.Recurrence, date) {
			continue
		}
		if in, ok := byTemplate[t.ID]; ok && in.Status.Terminal() {
			continue
		}
		todays = append(todays, t)
	}

	// Up-front impossibility check on the mandatory load only. No partial
	// placement is attempted when it cannot fit.
	mandatory := 0
	for _, t := range todays {
		if t.IsMandatory {
			mandatory += t.DurationMinutes
		}
	}
	if mandatory > sleep-wake {
		return ScheduleResult{
			Success:    false,
			Schedule:   []ScheduleBlock{},
			Sleep:      sleepUsed,
			TotalTasks: len(todays),
			Error:      ErrImpossibleSchedule,
			Message: fmt.Sprintf("mandatory tasks need %d minutes but only %d are awake",
				mandatory, sleep-wake),
		}
	}

	var (
		busy       []busyInterval
		blocks     []ScheduleBlock
		advisories []string
		endOf      = make(map[string]int, len(todays)) // template id -> placed end
		anchored   = make(map[string]bool, len(todays))
	)

	place := func(t TaskTemplate, start int) {
		end := start + t.DurationMinutes
		blocks = append(blocks, ScheduleBlock{
			TemplateID: t.ID,
			StartTime:  FormatClock(start),
			EndTime:    FormatClock(end),
		})
		busy = pushBusy(busy, busyInterval{Start: start, End: end, Anchor: t.IsMandatory})
		endOf[t.ID] = end
		anchored[t.ID] = true
	}

	// Anchors, strict precedence: a manual per-day override beats the
	// template's own fixed default.
	for _, t := range todays {
		in, ok := byTemplate[t.ID]
		if !ok || in.ModifiedStartTime == "" {
			continue
		}
		if start, err := ParseClock(in.ModifiedStartTime); err == nil {
			place(t, start)
		}
	}
	for _, t := range todays {
		if t.Scheduling != SchedulingFixed || anchored[t.ID] {
			continue
		}
		if start, err := ParseClock(t.DefaultTime); err == nil {
			place(t, start)
		}
	}

	// Flexibles: dependency order first, then a stable sort by descending
	// priority so equal-priority tasks keep their dependency-safe order.
	var flexibles []TaskTemplate
	for _, t := range todays {
		if t.Scheduling == SchedulingFixed || anchored[t.ID] {
			continue
		}
		flexibles = append(flexibles, t)
	}
	flexibles, cyclic := orderByDependency(flexibles)
	if len(cyclic) > 0 {
		advisories = append(advisories, "dependency_cycle_detected:"+strings.Join(cyclic, ","))
	}
	sort.SliceStable(flexibles, func(i, j int) bool {
		return flexibles[i].Priority > flexibles[j].Priority
	})

	now := -1
	if currentTime != "" {
		if m, err := ParseClock(currentTime); err == nil {
			now = m
		}
	}

	for _, t := range flexibles {
		winStart, winEnd := windowRange(t.TimeWindow)
		if winStart < wake {
			winStart = wake
		}
		if winEnd > sleep {
			winEnd = sleep
		}
		if winEnd <= winStart {
			continue
		}

		candidate := winStart
		if t.DependsOn != "" {
			if end, ok := endOf[t.DependsOn]; ok && end > candidate {
				candidate = end
			}
		}
		// Don't schedule flexible work in the past relative to "now", but
		// only when now actually falls inside this task's window.
		if now >= winStart && now < winEnd && now > candidate {
			candidate = now
		}

		s, ok := nextSlot(busy, winStart, winEnd, candidate, t.DurationMinutes,
			crunch{MinDuration: t.MinDurationMinutes, AnchorOnly: true})
		if !ok {
			continue // unplaceable today; visible via ScheduledTasks < TotalTasks
		}
		if s.UsedFallback {
			advisories = append(advisories, "crunch_time_min_duration_used:"+t.ID)
		}
		blocks = append(blocks, ScheduleBlock{
			TemplateID: t.ID,
			StartTime:  FormatClock(s.Start),
			EndTime:    FormatClock(s.End),
		})
		busy = pushBusy(busy, busyInterval{Start: s.Start, End: s.End})
		endOf[t.ID] = s.End
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].StartTime < blocks[j].StartTime
	})
	if blocks == nil {
		blocks = []ScheduleBlock{}
	}

	return ScheduleResult{
		Success:        true,
		Schedule:       blocks,
		Sleep:          sleepUsed,
		TotalTasks:     len(todays),
		ScheduledTasks: len(blocks),
		Advisories:     advisories,
	}
}

// awakeWindow resolves the effective wake/sleep pair in minutes since
// midnight. A daily override replaces the pair wholesale; a partial override
// (only one side set) is ignored. Unparseable settings fall back to the
// 06:00-23:00 day window.
func awakeWindow(settings Settings, override *DailyOverride) (wake, sleep int) {
	wakeStr, sleepStr := settings.DefaultWakeTime, settings.DefaultSleepTime
	if override != nil && override.WakeTime != "" && override.SleepTime != "" {
		wakeStr, sleepStr = override.WakeTime, override.SleepTime
	}

	wake, sleep = dayWindowStart, dayWindowEnd
	if m, err := ParseClock(wakeStr); err == nil {
		wake = m
	}
	if m, err := ParseClock(sleepStr); err == nil {
		sleep = m
	}
	return wake, sleep
}
