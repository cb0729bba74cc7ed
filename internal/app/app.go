package app

import (
	"context"
	"fmt"
	"sync"

	"dayplan/internal/config"
	"dayplan/internal/planner"
	"dayplan/internal/reminder"
	"dayplan/internal/storage"
	"dayplan/internal/telegram"
	logx "dayplan/pkg/logx"
)

// App wires the serve-mode pipeline: config manager, storage, planner,
// Telegram surface, and the reminder loop. One-shot CLI commands build the
// lighter pieces themselves; App exists for the long-running daemon.
type App struct {
	cfgm *config.Manager

	log  logx.Logger
	logs *logx.Service

	store   *storage.Store
	planner *planner.Service
	bot     *telegram.Bot
	rem     *reminder.Service

	cfgCh       chan *config.Config
	watchCancel context.CancelFunc
	watchWG     sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(mapLogging(cfg.Logging))
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))
	cfgm.SetValidator(func(_ context.Context, c *config.Config) error {
		return c.Validate()
	})

	sc, err := mapStorage(cfg.Storage)
	if err != nil {
		logSvc.Close()
		return nil, err
	}
	store, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		logSvc.Close()
		return nil, err
	}

	pl := planner.New(store, log.With(logx.String("comp", "planner")), cfg.Planner.CacheEnabled())

	a := &App{
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		store:   store,
		planner: pl,
	}

	if cfg.Telegram != nil && cfg.Telegram.Enabled {
		tc, err := mapTelegram(cfg.Telegram)
		if err != nil {
			a.closeBase()
			return nil, err
		}
		bot, err := telegram.New(tc, pl, log.With(logx.String("comp", "telegram")))
		if err != nil {
			a.closeBase()
			return nil, err
		}
		a.bot = bot
	}

	if cfg.Reminder.Enabled {
		if a.bot == nil {
			a.closeBase()
			return nil, fmt.Errorf("reminder.enabled requires an enabled telegram section")
		}
		rc, err := mapReminder(cfg.Reminder)
		if err != nil {
			a.closeBase()
			return nil, err
		}
		a.rem = reminder.New(rc, pl, a.bot, log.With(logx.String("comp", "reminder")))
	}

	return a, nil
}

func (a *App) Start(ctx context.Context) error {
	// The watcher loops until its context is cancelled, so it runs in the
	// background; Stop cancels it and waits for it to drain.
	wctx, cancel := context.WithCancel(ctx)
	a.watchCancel = cancel
	a.watchWG.Add(1)
	go func() {
		defer a.watchWG.Done()
		if err := a.cfgm.Watch(wctx); err != nil {
			a.log.Warn("config watch exited", logx.Err(err))
		}
	}()

	// Hot-apply logging changes and drop stale cached schedules; everything
	// else takes effect on restart.
	a.cfgCh = a.cfgm.Subscribe(1)
	go func() {
		for cfg := range a.cfgCh {
			a.logs.Apply(mapLogging(cfg.Logging))
			if err := a.planner.InvalidateCache(ctx); err != nil {
				a.log.Warn("cache invalidation after reload failed", logx.Err(err))
			}
			a.log.Info("config reapplied")
		}
	}()

	if a.bot != nil {
		if err := a.bot.Start(ctx); err != nil {
			return fmt.Errorf("telegram start: %w", err)
		}
	}
	if a.rem != nil {
		if err := a.rem.Start(ctx); err != nil {
			return fmt.Errorf("reminder start: %w", err)
		}
	}

	a.log.Info("dayplan started")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if a.rem != nil {
		a.rem.Stop(ctx)
	}
	if a.bot != nil {
		_ = a.bot.Stop(ctx)
	}
	if a.watchCancel != nil {
		a.watchCancel()
		a.watchCancel = nil
		a.watchWG.Wait()
	}
	if a.cfgCh != nil {
		a.cfgm.Unsubscribe(a.cfgCh)
		a.cfgCh = nil
	}
	a.log.Info("dayplan stopped")
	a.closeBase()
	return nil
}

func (a *App) closeBase() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logs != nil {
		_ = a.logs.Close()
	}
}

// OpenPlanner builds just the storage-backed planner for one-shot CLI
// commands. The returned cleanup closes the store and the log sinks.
func OpenPlanner(cfgPath string) (*planner.Service, logx.Logger, func(), error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, logx.Logger{}, nil, err
	}

	logSvc, log := logx.New(mapLogging(cfg.Logging))

	sc, err := mapStorage(cfg.Storage)
	if err != nil {
		logSvc.Close()
		return nil, logx.Logger{}, nil, err
	}
	store, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		logSvc.Close()
		return nil, logx.Logger{}, nil, err
	}

	pl := planner.New(store, log.With(logx.String("comp", "planner")), cfg.Planner.CacheEnabled())
	cleanup := func() {
		_ = store.Close()
		_ = logSvc.Close()
	}
	return pl, log, cleanup, nil
}

func mapLogging(lc config.LoggingConfig) logx.Config {
	return logx.Config{
		Level:   lc.Level,
		Console: lc.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: lc.File.Enabled,
			Path:    lc.File.Path,
		},
	}
}

func mapStorage(sc config.StorageConfig) (storage.Config, error) {
	busy, err := config.ParseDurationOrDefault("storage.busy_timeout", sc.BusyTimeout, 0)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{Path: sc.Path, BusyTimeout: busy}, nil
}

func mapTelegram(tc *config.TelegramConfig) (telegram.Config, error) {
	poll, err := config.ParseDurationOrDefault("telegram.poll_timeout", tc.PollTimeout, 0)
	if err != nil {
		return telegram.Config{}, err
	}
	return telegram.Config{Token: tc.Token, ChatID: tc.ChatID, PollTimeout: poll}, nil
}

func mapReminder(rc config.ReminderConfig) (reminder.Config, error) {
	lead, err := config.ParseDurationOrDefault("reminder.lead_time", rc.LeadTime, 0)
	if err != nil {
		return reminder.Config{}, err
	}
	return reminder.Config{
		Enabled:      true,
		RegenerateAt: rc.RegenerateAt,
		LeadTime:     lead,
		RatePerSec:   rc.RatePerSec,
	}, nil
}
