package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dayplan/internal/engine"
)

// GetCachedSchedule returns the stored result for a date, if any.
// The cache is disposable: any decode problem reads as a miss.
func (s *Store) GetCachedSchedule(ctx context.Context, date engine.Date) (engine.ScheduleResult, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM schedule_cache WHERE date = ?`, date.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.ScheduleResult{}, false, nil
	}
	if err != nil {
		return engine.ScheduleResult{}, false, err
	}
	var res engine.ScheduleResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return engine.ScheduleResult{}, false, nil
	}
	return res, true, nil
}

// PutCachedSchedule stores a computed result keyed by date.
func (s *Store) PutCachedSchedule(ctx context.Context, date engine.Date, res engine.ScheduleResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO schedule_cache(date, result, computed_at) VALUES(?,?,?)
		 ON CONFLICT(date) DO UPDATE SET
		     result=excluded.result, computed_at=excluded.computed_at`,
		date.String(), string(b), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// InvalidateSchedule drops the cached result for one date.
func (s *Store) InvalidateSchedule(ctx context.Context, date engine.Date) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM schedule_cache WHERE date = ?`, date.String())
	return err
}

// InvalidateAllSchedules drops every cached result. Used when templates or
// settings change, since those affect every date.
func (s *Store) InvalidateAllSchedules(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM schedule_cache`)
	return err
}
