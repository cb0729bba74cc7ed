package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestManagerParseYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
logging:
  level: debug
  console: true
storage:
  path: ./test.db
  busy_timeout: 2s
reminder:
  enabled: false
  regenerate_at: "00:05"
`)
	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Storage.Path != "./test.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestManagerRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
logging:
  level: info
storge:
  path: ./oops.db
`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for misspelled section")
	}
}

func TestManagerParseJSON(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{"logging":{"level":"info"},"storage":{"path":"./x.db"}}`)
	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Logging.ConsoleEnabled() {
		t.Fatal("console should default to enabled")
	}
	if !cfg.Planner.CacheEnabled() {
		t.Fatal("cache should default to enabled")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "empty", cfg: Config{}, ok: true},
		{name: "bad level", cfg: Config{Logging: LoggingConfig{Level: "loud"}}, ok: false},
		{
			name: "reminder without telegram",
			cfg:  Config{Reminder: ReminderConfig{Enabled: true}},
			ok:   false,
		},
		{
			name: "bad regenerate_at",
			cfg: Config{
				Reminder: ReminderConfig{Enabled: true, RegenerateAt: "25:00"},
				Telegram: &TelegramConfig{Enabled: true, Token: "t", ChatID: 1},
			},
			ok: false,
		},
		{
			name: "telegram missing token",
			cfg:  Config{Telegram: &TelegramConfig{Enabled: true, ChatID: 1}},
			ok:   false,
		},
		{
			name: "full valid",
			cfg: Config{
				Reminder: ReminderConfig{Enabled: true, RegenerateAt: "00:05", LeadTime: "5m"},
				Telegram: &TelegramConfig{Enabled: true, Token: "t", ChatID: 1},
			},
			ok: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok != (err == nil) {
				t.Fatalf("Validate = %v, ok = %v", err, tt.ok)
			}
		})
	}
}
