package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"dayplan/internal/config"
	"dayplan/internal/engine"
	"dayplan/internal/storage"
	logx "dayplan/pkg/logx"
)

type Service struct {
	store *storage.Store
	log   logx.Logger
	cache bool
}

func New(store *storage.Store, log logx.Logger, cacheEnabled bool) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{store: store, log: log, cache: cacheEnabled}
}

// PlanFor computes (or retrieves) the schedule for one date.
//
// currentTime ("HH:MM", empty = unknown) makes the result time-dependent, so
// only currentTime-free computations are served from or written to the cache.
func (s *Service) PlanFor(ctx context.Context, date engine.Date, currentTime string) (engine.ScheduleResult, error) {
	cacheable := s.cache && currentTime == ""
	if cacheable {
		if res, ok, err := s.store.GetCachedSchedule(ctx, date); err != nil {
			return engine.ScheduleResult{}, err
		} else if ok {
			s.log.Debug("schedule served from cache", logx.String("date", date.String()))
			return res, nil
		}
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return engine.ScheduleResult{}, fmt.Errorf("load settings: %w", err)
	}
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return engine.ScheduleResult{}, fmt.Errorf("load templates: %w", err)
	}
	instances, err := s.store.ListInstances(ctx, date)
	if err != nil {
		return engine.ScheduleResult{}, fmt.Errorf("load instances: %w", err)
	}

	res := engine.GenerateSchedule(settings, templates, instances, date, nil, currentTime)
	s.log.Info("schedule computed",
		logx.String("date", date.String()),
		logx.Bool("success", res.Success),
		logx.Int("scheduled", res.ScheduledTasks),
		logx.Int("total", res.TotalTasks))
	if len(res.Advisories) > 0 {
		s.log.Warn("schedule advisories", logx.String("date", date.String()),
			logx.Strs("advisories", res.Advisories))
	}

	if cacheable && res.Success {
		if err := s.store.PutCachedSchedule(ctx, date, res); err != nil {
			s.log.Warn("schedule cache write failed", logx.Err(err))
		}
	}
	return res, nil
}

// TemplateNames maps template ids to display names, for rendering schedules.
func (s *Service) TemplateNames(ctx context.Context) (map[string]string, error) {
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(templates))
	for _, t := range templates {
		names[t.ID] = t.Name
	}
	return names, nil
}

// InvalidateCache drops every cached schedule. Called on config reloads,
// where a changed knob may affect how future results are computed.
func (s *Service) InvalidateCache(ctx context.Context) error {
	return s.store.InvalidateAllSchedules(ctx)
}

// SaveTemplate validates and stores a template, then drops every cached
// schedule (a template change can affect any date).
func (s *Service) SaveTemplate(ctx context.Context, t engine.TaskTemplate) error {
	if err := ValidateTemplate(t); err != nil {
		return err
	}
	if err := s.store.PutTemplate(ctx, t); err != nil {
		return err
	}
	return s.store.InvalidateAllSchedules(ctx)
}

// DeactivateTemplate soft-deletes a template and invalidates the cache.
func (s *Service) DeactivateTemplate(ctx context.Context, id string) error {
	if err := s.store.DeactivateTemplate(ctx, id); err != nil {
		return err
	}
	return s.store.InvalidateAllSchedules(ctx)
}

// SetInstance records a per-date status/override and invalidates that date.
func (s *Service) SetInstance(ctx context.Context, in engine.TaskInstance) error {
	date, err := engine.ParseDate(in.Date)
	if err != nil {
		return err
	}
	if in.ModifiedStartTime != "" {
		if _, err := engine.ParseClock(in.ModifiedStartTime); err != nil {
			return err
		}
	}
	if err := s.store.UpsertInstance(ctx, in); err != nil {
		return err
	}
	return s.store.InvalidateSchedule(ctx, date)
}

// UpdateSettings stores new sleep defaults and invalidates everything.
func (s *Service) UpdateSettings(ctx context.Context, settings engine.Settings) error {
	if _, err := engine.ParseClock(settings.DefaultWakeTime); err != nil {
		return fmt.Errorf("wake time: %w", err)
	}
	if _, err := engine.ParseClock(settings.DefaultSleepTime); err != nil {
		return fmt.Errorf("sleep time: %w", err)
	}
	if err := s.store.PutSettings(ctx, settings); err != nil {
		return err
	}
	return s.store.InvalidateAllSchedules(ctx)
}

// templateFile is the import format: a "templates" list in YAML or JSON.
type templateFile struct {
	Templates []engine.TaskTemplate `json:"templates"`
}

// LoadTemplateFile strictly decodes a template definitions file.
// It shares the YAML-to-JSON path with the config loader.
func LoadTemplateFile(path string) ([]engine.TaskTemplate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jb, _, err := config.CoerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	var f templateFile
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid template file: trailing data")
		}
		return nil, err
	}
	return f.Templates, nil
}

// ImportTemplates loads a definitions file and saves every template in it.
// The whole file is validated before anything is written.
func (s *Service) ImportTemplates(ctx context.Context, path string) (int, error) {
	templates, err := LoadTemplateFile(path)
	if err != nil {
		return 0, err
	}
	for _, t := range templates {
		if err := ValidateTemplate(t); err != nil {
			return 0, fmt.Errorf("template %s: %w", t.ID, err)
		}
	}
	for _, t := range templates {
		if err := s.store.PutTemplate(ctx, t); err != nil {
			return 0, err
		}
	}
	if err := s.store.InvalidateAllSchedules(ctx); err != nil {
		return 0, err
	}
	return len(templates), nil
}

// ValidateTemplate checks a template for structural problems before storage.
func ValidateTemplate(t engine.TaskTemplate) error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("durationMinutes must be positive")
	}
	if t.MinDurationMinutes < 0 || t.MinDurationMinutes > t.DurationMinutes {
		return fmt.Errorf("minDurationMinutes must be in 0..durationMinutes")
	}
	switch t.Scheduling {
	case engine.SchedulingFixed:
		if _, err := engine.ParseClock(t.DefaultTime); err != nil {
			return fmt.Errorf("fixed template needs a valid defaultTime: %w", err)
		}
	case engine.SchedulingFlexible:
		switch t.TimeWindow {
		case "", engine.WindowMorning, engine.WindowAfternoon, engine.WindowEvening, engine.WindowAnytime:
		default:
			return fmt.Errorf("unknown timeWindow %q", t.TimeWindow)
		}
	default:
		return fmt.Errorf("unknown schedulingType %q", t.Scheduling)
	}
	if t.Priority < 0 || t.Priority > 5 {
		return fmt.Errorf("priority must be in 0..5")
	}
	if problems := engine.ValidateRule(t.Recurrence); len(problems) > 0 {
		return fmt.Errorf("recurrence: %s", strings.Join(problems, "; "))
	}
	return nil
}
