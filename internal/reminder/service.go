package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"dayplan/internal/engine"
	"dayplan/internal/planner"
	logx "dayplan/pkg/logx"
)

// Sender delivers a reminder text to wherever the user reads them.
// The Telegram adapter is the only implementation today.
type Sender interface {
	SendText(ctx context.Context, text string) error
}

type Config struct {
	Enabled      bool
	RegenerateAt string        // local "HH:MM"; empty means 00:05
	LeadTime     time.Duration // how far before a block's start to remind
	RatePerSec   int           // outbound send cap; 0 means 1
}

// Service regenerates the day's schedule every morning and fires one-shot
// reminders at (or LeadTime before) each scheduled block's start.
//
// The engine stays clock-free; this service is where wall time enters the
// system.
type Service struct {
	mu sync.Mutex

	cfg     Config
	log     logx.Logger
	planner *planner.Service
	sender  Sender
	limiter *rate.Limiter

	c      *cron.Cron
	timers []*time.Timer
}

func New(cfg Config, pl *planner.Service, sender Sender, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	rps := cfg.RatePerSec
	if rps < 1 {
		rps = 1
	}
	return &Service{
		cfg:     cfg,
		log:     log,
		planner: pl,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Start announces today immediately, then schedules the daily regeneration.
func (s *Service) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	at := s.cfg.RegenerateAt
	if at == "" {
		at = "00:05"
	}
	minutes, err := engine.ParseClock(at)
	if err != nil {
		return fmt.Errorf("regenerate_at: %w", err)
	}

	s.mu.Lock()
	if s.c != nil {
		s.mu.Unlock()
		return nil
	}
	s.c = cron.New(cron.WithLocation(time.Local))
	spec := fmt.Sprintf("%d %d * * *", minutes%60, minutes/60)
	_, err = s.c.AddFunc(spec, func() { s.regenerate(ctx) })
	if err != nil {
		s.c = nil
		s.mu.Unlock()
		return fmt.Errorf("register daily job: %w", err)
	}
	s.c.Start()
	s.mu.Unlock()

	s.log.Info("reminder service started", logx.String("regenerate_at", at))
	s.regenerate(ctx)
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()

	for _, t := range timers {
		_ = t.Stop()
	}
	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
		}
	}
	s.log.Info("reminder service stopped")
}

// regenerate recomputes today, announces the plan, and re-arms the per-block
// reminder timers. Safe to call repeatedly; each call replaces the timers.
func (s *Service) regenerate(ctx context.Context) {
	now := time.Now()
	today := engine.DateOf(now)
	clock := engine.FormatClock(now.Hour()*60 + now.Minute())

	res, err := s.planner.PlanFor(ctx, today, clock)
	if err != nil {
		s.log.Error("daily plan failed", logx.Err(err), logx.String("date", today.String()))
		return
	}

	names, err := s.planner.TemplateNames(ctx)
	if err != nil {
		s.log.Warn("template names unavailable", logx.Err(err))
		names = map[string]string{}
	}

	s.send(ctx, FormatDay(today, res, names))
	s.armTimers(ctx, now, res, names)
}

func (s *Service) armTimers(ctx context.Context, now time.Time, res engine.ScheduleResult, names map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.timers {
		_ = t.Stop()
	}
	s.timers = nil
	if s.c == nil {
		return // stopped between regenerate and here
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, b := range res.Schedule {
		start, err := engine.ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		fireAt := midnight.Add(time.Duration(start)*time.Minute - s.cfg.LeadTime)
		delay := time.Until(fireAt)
		if delay <= 0 {
			continue // already past; the day summary covered it
		}
		block := b
		name := displayName(names, block.TemplateID)
		s.timers = append(s.timers, time.AfterFunc(delay, func() {
			s.send(ctx, fmt.Sprintf("⏰ %s — %s to %s", name, block.StartTime, block.EndTime))
		}))
	}
	s.log.Debug("reminders armed", logx.Int("count", len(s.timers)))
}

func (s *Service) send(ctx context.Context, text string) {
	if err := s.limiter.Wait(ctx); err != nil {
		return
	}
	if err := s.sender.SendText(ctx, text); err != nil {
		s.log.Warn("reminder send failed", logx.Err(err))
	}
}
