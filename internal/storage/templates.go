package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dayplan/internal/engine"
)

// PutTemplate inserts or replaces a task template. The recurrence rule is
// stored as JSON; everything the engine reads round-trips through here.
func (s *Store) PutTemplate(ctx context.Context, t engine.TaskTemplate) error {
	if t.ID == "" {
		return errors.New("template id is required")
	}
	var recurrence any
	if t.Recurrence != nil {
		b, err := json.Marshal(t.Recurrence)
		if err != nil {
			return fmt.Errorf("marshal recurrence: %w", err)
		}
		recurrence = string(b)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates(id, name, is_mandatory, priority, is_active, scheduling,
		                       default_time, time_window, duration_min, min_duration_min,
		                       depends_on, recurrence, created_at, updated_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		     name=excluded.name, is_mandatory=excluded.is_mandatory,
		     priority=excluded.priority, is_active=excluded.is_active,
		     scheduling=excluded.scheduling, default_time=excluded.default_time,
		     time_window=excluded.time_window, duration_min=excluded.duration_min,
		     min_duration_min=excluded.min_duration_min, depends_on=excluded.depends_on,
		     recurrence=excluded.recurrence, updated_at=excluded.updated_at`,
		t.ID, t.Name, boolInt(t.IsMandatory), t.Priority, boolInt(t.IsActive),
		string(t.Scheduling), nullStr(t.DefaultTime), nullStr(string(t.TimeWindow)),
		t.DurationMinutes, t.MinDurationMinutes, nullStr(t.DependsOn), recurrence,
		now, now,
	)
	return err
}

// ListTemplates returns every template, active or not, in stable id order.
func (s *Store) ListTemplates(ctx context.Context) ([]engine.TaskTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_mandatory, priority, is_active, scheduling,
		        default_time, time_window, duration_min, min_duration_min,
		        depends_on, recurrence
		 FROM templates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.TaskTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTemplate fetches one template by id. Returns ErrNotFound when absent.
func (s *Store) GetTemplate(ctx context.Context, id string) (engine.TaskTemplate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, is_mandatory, priority, is_active, scheduling,
		        default_time, time_window, duration_min, min_duration_min,
		        depends_on, recurrence
		 FROM templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.TaskTemplate{}, ErrNotFound
	}
	return t, err
}

// DeactivateTemplate soft-deletes: the row stays for history, the scheduler
// stops seeing it.
func (s *Store) DeactivateTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE templates SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (engine.TaskTemplate, error) {
	var (
		t                                 engine.TaskTemplate
		mandatory, active                 int
		scheduling                        string
		defTime, window, depends, recJSON sql.NullString
	)
	err := row.Scan(&t.ID, &t.Name, &mandatory, &t.Priority, &active, &scheduling,
		&defTime, &window, &t.DurationMinutes, &t.MinDurationMinutes, &depends, &recJSON)
	if err != nil {
		return engine.TaskTemplate{}, err
	}
	t.IsMandatory = mandatory != 0
	t.IsActive = active != 0
	t.Scheduling = engine.SchedulingType(scheduling)
	t.DefaultTime = strOrEmpty(defTime)
	t.TimeWindow = engine.TimeWindow(strOrEmpty(window))
	t.DependsOn = strOrEmpty(depends)
	if recJSON.Valid && recJSON.String != "" {
		var rule engine.RecurrenceRule
		if err := json.Unmarshal([]byte(recJSON.String), &rule); err != nil {
			return engine.TaskTemplate{}, fmt.Errorf("template %s: bad recurrence json: %w", t.ID, err)
		}
		t.Recurrence = &rule
	}
	return t, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
