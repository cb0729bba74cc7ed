package reminder

import (
	"fmt"
	"strings"

	"dayplan/internal/engine"
)

// FormatDay renders a schedule result as a plain-text day summary.
// names maps template ids to display names; unknown ids fall back to the id.
func FormatDay(date engine.Date, res engine.ScheduleResult, names map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Plan for %s\n", date)

	if !res.Success {
		fmt.Fprintf(&b, "⚠️ %s", res.Error)
		if res.Message != "" {
			fmt.Fprintf(&b, ": %s", res.Message)
		}
		return b.String()
	}
	if len(res.Schedule) == 0 {
		b.WriteString("Nothing scheduled. Enjoy the free day.")
		return b.String()
	}

	for _, block := range res.Schedule {
		fmt.Fprintf(&b, "%s-%s  %s\n", block.StartTime, block.EndTime,
			displayName(names, block.TemplateID))
	}
	if res.ScheduledTasks < res.TotalTasks {
		fmt.Fprintf(&b, "(%d of %d tasks fit today)\n", res.ScheduledTasks, res.TotalTasks)
	}
	for _, adv := range res.Advisories {
		fmt.Fprintf(&b, "⚠️ %s\n", adv)
	}
	fmt.Fprintf(&b, "😴 %s to %s", res.Sleep.SleepTime, res.Sleep.WakeTime)
	return b.String()
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
