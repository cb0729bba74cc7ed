package engine

// SchedulingType says how a template is placed on the timeline.
type SchedulingType string

const (
	SchedulingFixed    SchedulingType = "fixed"
	SchedulingFlexible SchedulingType = "flexible"
)

// TimeWindow names the clock range a flexible task may land in.
type TimeWindow string

const (
	WindowMorning   TimeWindow = "morning"
	WindowAfternoon TimeWindow = "afternoon"
	WindowEvening   TimeWindow = "evening"
	WindowAnytime   TimeWindow = "anytime"
)

// InstanceStatus is the per-day state of a template occurrence.
type InstanceStatus string

const (
	StatusPending   InstanceStatus = "pending"
	StatusCompleted InstanceStatus = "completed"
	StatusSkipped   InstanceStatus = "skipped"
	StatusPostponed InstanceStatus = "postponed"
)

// Terminal reports whether the status removes the task from the day.
func (s InstanceStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusPostponed
}

// Frequency is the base cadence of a recurrence rule.
type Frequency string

const (
	FreqNone    Frequency = "none"
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
	FreqCustom  Frequency = "custom"
)

// CustomPattern selects a named pattern for Frequency == custom.
type CustomPattern string

const (
	PatternWeekdays     CustomPattern = "weekdays"
	PatternWeekends     CustomPattern = "weekends"
	PatternNthWeekday   CustomPattern = "nth-weekday"
	PatternLastWeekday  CustomPattern = "last-weekday"
	PatternBusinessDays CustomPattern = "business-days"
)

// LastDayOfMonth is the sentinel DayOfMonth meaning "last calendar day".
const LastDayOfMonth = -1

// RecurrenceRule describes when a template produces occurrences.
//
// It is a pure value: evaluating it never mutates it. Zero values mean
// "unset" (Interval 0 is treated as 1, DayOfMonth/Month 0 mean no
// constraint). Weekday is a pointer because 0 is a valid value (Sunday).
type RecurrenceRule struct {
	Frequency Frequency `json:"frequency"`
	Interval  int       `json:"interval,omitempty"`

	// Inclusive bounds, "YYYY-MM-DD". Empty = unbounded.
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	// Weekly: 0 = Sunday .. 6 = Saturday.
	DaysOfWeek []int `json:"daysOfWeek,omitempty"`

	// Monthly/yearly: 1..31, or LastDayOfMonth.
	DayOfMonth int `json:"dayOfMonth,omitempty"`
	// Yearly: 1..12.
	Month int `json:"month,omitempty"`

	// Custom patterns.
	CustomPattern CustomPattern `json:"customPattern,omitempty"`
	Weekday       *int          `json:"weekday,omitempty"` // nth-weekday, last-weekday
	Nth           int           `json:"nth,omitempty"`     // nth-weekday: 1..5
}

// TaskTemplate is a recurring or one-off task definition. Templates are
// immutable inputs to the engine; editing and soft deletion happen in the
// template store.
type TaskTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"taskName"`
	IsMandatory bool           `json:"isMandatory,omitempty"`
	Priority    int            `json:"priority,omitempty"` // 1..5, higher first
	IsActive    bool           `json:"isActive"`
	Scheduling  SchedulingType `json:"schedulingType"`

	DefaultTime string     `json:"defaultTime,omitempty"` // HH:MM, required when fixed
	TimeWindow  TimeWindow `json:"timeWindow,omitempty"`  // used when flexible

	DurationMinutes    int `json:"durationMinutes"`
	MinDurationMinutes int `json:"minDurationMinutes,omitempty"` // crunch-time floor, 0 = none

	DependsOn  string          `json:"dependsOn,omitempty"` // at most one prerequisite id
	Recurrence *RecurrenceRule `json:"recurrenceRule,omitempty"`
}

// TaskInstance is a per-date modification of a template's default behavior.
type TaskInstance struct {
	TemplateID        string         `json:"templateId"`
	Date              string         `json:"date"` // YYYY-MM-DD
	Status            InstanceStatus `json:"status"`
	ModifiedStartTime string         `json:"modifiedStartTime,omitempty"` // HH:MM manual anchor
	CompletedAt       string         `json:"completedAt,omitempty"`
}

// Settings holds per-user sleep defaults.
type Settings struct {
	DesiredSleepHours float64 `json:"desiredSleepDuration"` // informational
	DefaultWakeTime   string  `json:"defaultWakeTime"`      // HH:MM
	DefaultSleepTime  string  `json:"defaultSleepTime"`     // HH:MM
}

// DailyOverride replaces the wake/sleep pair for a single computation.
// Both fields must be set; a partial pair is ignored.
type DailyOverride struct {
	WakeTime  string `json:"wakeTime,omitempty"`
	SleepTime string `json:"sleepTime,omitempty"`
}

// ScheduleBlock is one placed task.
type ScheduleBlock struct {
	TemplateID string `json:"templateId"`
	StartTime  string `json:"startTime"` // HH:MM
	EndTime    string `json:"endTime"`   // HH:MM
}

// SleepSchedule echoes the wake/sleep window a computation actually used.
type SleepSchedule struct {
	WakeTime     string  `json:"wakeTime"`
	SleepTime    string  `json:"sleepTime"`
	DesiredHours float64 `json:"desiredSleepDuration"`
}

// ScheduleResult is the engine's only output. It is disposable: recompute it
// from scratch whenever an input changes.
type ScheduleResult struct {
	Success        bool            `json:"success"`
	Schedule       []ScheduleBlock `json:"schedule"`
	Sleep          SleepSchedule   `json:"sleepSchedule"`
	TotalTasks     int             `json:"totalTasks"`
	ScheduledTasks int             `json:"scheduledTasks"`
	Advisories     []string        `json:"advisories,omitempty"`
	Error          string          `json:"error,omitempty"`
	Message        string          `json:"message,omitempty"`
}

// ErrImpossibleSchedule is the only engine-level failure code: the mandatory
// workload does not fit in the awake window.
const ErrImpossibleSchedule = "impossible_schedule"

// Time-window boundaries (minutes since midnight). Fixed constants per the
// product contract; flexible windows are additionally clamped to the awake
// window at placement time.
const (
	morningStart   = 6 * 60
	morningEnd     = 12 * 60
	afternoonEnd   = 18 * 60
	eveningEnd     = 23 * 60
	dayWindowStart = morningStart
	dayWindowEnd   = eveningEnd
)

// windowRange resolves a TimeWindow to its clock bounds.
// Unknown values fall back to anytime.
func windowRange(w TimeWindow) (start, end int) {
	switch w {
	case WindowMorning:
		return morningStart, morningEnd
	case WindowAfternoon:
		return morningEnd, afternoonEnd
	case WindowEvening:
		return afternoonEnd, eveningEnd
	default:
		return dayWindowStart, dayWindowEnd
	}
}
