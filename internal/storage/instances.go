package storage

import (
	"context"
	"database/sql"
	"errors"

	"dayplan/internal/engine"
)

// UpsertInstance records a per-date modification of a template: a status
// change, a manual start override, or both.
func (s *Store) UpsertInstance(ctx context.Context, in engine.TaskInstance) error {
	if in.TemplateID == "" || in.Date == "" {
		return errors.New("instance requires template id and date")
	}
	if in.Status == "" {
		in.Status = engine.StatusPending
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO instances(template_id, date, status, modified_start_time, completed_at)
		 VALUES(?,?,?,?,?)
		 ON CONFLICT(template_id, date) DO UPDATE SET
		     status=excluded.status,
		     modified_start_time=excluded.modified_start_time,
		     completed_at=excluded.completed_at`,
		in.TemplateID, in.Date, string(in.Status),
		nullStr(in.ModifiedStartTime), nullStr(in.CompletedAt),
	)
	return err
}

// ListInstances returns all instances recorded for one date.
func (s *Store) ListInstances(ctx context.Context, date engine.Date) ([]engine.TaskInstance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT template_id, date, status, modified_start_time, completed_at
		 FROM instances WHERE date = ? ORDER BY template_id`, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.TaskInstance
	for rows.Next() {
		var (
			in             engine.TaskInstance
			status         string
			modified, done sql.NullString
		)
		if err := rows.Scan(&in.TemplateID, &in.Date, &status, &modified, &done); err != nil {
			return nil, err
		}
		in.Status = engine.InstanceStatus(status)
		in.ModifiedStartTime = strOrEmpty(modified)
		in.CompletedAt = strOrEmpty(done)
		out = append(out, in)
	}
	return out, rows.Err()
}

// DeleteInstance removes a per-date modification, restoring template defaults.
func (s *Store) DeleteInstance(ctx context.Context, templateID string, date engine.Date) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM instances WHERE template_id = ? AND date = ?`, templateID, date.String())
	return err
}
