package storage

import (
	"context"
	"database/sql"
	"errors"

	"dayplan/internal/engine"
)

// defaultSettings is what a fresh database plans with until the user says
// otherwise.
var defaultSettings = engine.Settings{
	DesiredSleepHours: 8,
	DefaultWakeTime:   "07:00",
	DefaultSleepTime:  "23:00",
}

// GetSettings returns the stored sleep settings, or sensible defaults when
// none have been saved yet.
func (s *Store) GetSettings(ctx context.Context) (engine.Settings, error) {
	var out engine.Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT sleep_hours, wake_time, sleep_time FROM settings WHERE id = 1`,
	).Scan(&out.DesiredSleepHours, &out.DefaultWakeTime, &out.DefaultSleepTime)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultSettings, nil
	}
	if err != nil {
		return engine.Settings{}, err
	}
	return out, nil
}

// PutSettings stores the singleton sleep settings row.
func (s *Store) PutSettings(ctx context.Context, settings engine.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings(id, sleep_hours, wake_time, sleep_time) VALUES(1,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		     sleep_hours=excluded.sleep_hours,
		     wake_time=excluded.wake_time,
		     sleep_time=excluded.sleep_time`,
		settings.DesiredSleepHours, settings.DefaultWakeTime, settings.DefaultSleepTime,
	)
	return err
}
