package config

import (
	"fmt"
	"regexp"
	"strings"
)

var reClock = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Validate checks cross-field consistency the JSON decoder cannot.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}

	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}

	if c.Reminder.Enabled {
		if at := c.Reminder.RegenerateAt; at != "" && !reClock.MatchString(at) {
			return fmt.Errorf("reminder.regenerate_at: invalid time %q (want HH:MM)", at)
		}
		if _, err := ParseDurationField("reminder.lead_time", c.Reminder.LeadTime); err != nil {
			return err
		}
		if c.Telegram == nil || !c.Telegram.Enabled {
			return fmt.Errorf("reminder.enabled requires telegram.enabled")
		}
	}

	if c.Telegram != nil && c.Telegram.Enabled {
		if strings.TrimSpace(c.Telegram.Token) == "" {
			return fmt.Errorf("telegram.token is required when telegram.enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram.enabled")
		}
		if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
			return err
		}
	}

	return nil
}
