package config

// Config is the root of dayplan's configuration file (YAML or JSON).
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
// Unknown fields are rejected so typos fail loudly at load time.
type Config struct {
	Logging  LoggingConfig   `json:"logging"`
	Storage  StorageConfig   `json:"storage"`
	Planner  PlannerConfig   `json:"planner,omitempty"`
	Reminder ReminderConfig  `json:"reminder,omitempty"`
	Telegram *TelegramConfig `json:"telegram,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"` // trace|debug|info|warn|error
	Console *bool       `json:"console,omitempty"`
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// ConsoleEnabled defaults to true when the field is omitted.
func (l LoggingConfig) ConsoleEnabled() bool {
	return l.Console == nil || *l.Console
}

type StorageConfig struct {
	// Path of the SQLite database file. Empty means "./dayplan.db".
	Path string `json:"path,omitempty"`
	// BusyTimeout is a Go duration string; 0 means the driver default.
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

type PlannerConfig struct {
	// Cache controls whether computed schedules are persisted per date.
	// Results are always recomputable, so this is purely a cost knob.
	// Omitted means enabled.
	Cache *bool `json:"cache,omitempty"`
}

func (p PlannerConfig) CacheEnabled() bool {
	return p.Cache == nil || *p.Cache
}

// ReminderConfig controls the serve-mode reminder pipeline.
type ReminderConfig struct {
	Enabled bool `json:"enabled,omitempty"`

	// RegenerateAt is the local "HH:MM" at which the day's schedule is
	// recomputed and announced. Empty means "00:05".
	RegenerateAt string `json:"regenerate_at,omitempty"`

	// LeadTime is how far before a block's start its reminder fires.
	// Empty means "0s" (fire exactly at the start time).
	LeadTime string `json:"lead_time,omitempty"`

	// RatePerSec caps outbound reminder sends. 0 means 1.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type TelegramConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Token   string `json:"token,omitempty"`
	// ChatID is the only chat the bot talks to (commands + reminders).
	ChatID int64 `json:"chat_id,omitempty"`
	// PollTimeout is a Go duration string; empty means "10s".
	PollTimeout string `json:"poll_timeout,omitempty"`
}
