package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"dayplan/internal/engine"
	"dayplan/internal/planner"
	"dayplan/internal/reminder"
	logx "dayplan/pkg/logx"
)

type Config struct {
	Token       string
	ChatID      int64 // the only chat the bot talks to
	PollTimeout time.Duration
}

// Bot is the Telegram surface: it answers /today and /tomorrow for the
// configured chat and implements reminder.Sender for outbound pings.
type Bot struct {
	cfg     Config
	log     logx.Logger
	planner *planner.Service
	bot     *tele.Bot

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	runWG   sync.WaitGroup

	// stopOnce guards the poller stop handshake: telebot's Stop blocks
	// forever when called again after the poll loop has exited.
	stopOnce sync.Once
}

func New(cfg Config, pl *planner.Service, log logx.Logger) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is empty")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}
	return &Bot{cfg: cfg, log: log, planner: pl, bot: b}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.runMu.Lock()
	if b.running {
		b.runMu.Unlock()
		return nil
	}
	b.running = true
	rctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.runWG.Add(1)
	b.runMu.Unlock()

	b.bot.Handle("/today", b.authorized(func(c tele.Context) error {
		now := time.Now()
		clock := engine.FormatClock(now.Hour()*60 + now.Minute())
		return b.replyWithPlan(rctx, c, engine.DateOf(now), clock)
	}))
	b.bot.Handle("/tomorrow", b.authorized(func(c tele.Context) error {
		return b.replyWithPlan(rctx, c, engine.DateOf(time.Now()).AddDays(1), "")
	}))

	go func() {
		defer b.runWG.Done()
		go func() {
			<-rctx.Done()
			b.stopPoller()
		}()
		b.log.Info("telegram polling started", logx.Int64("chat_id", b.cfg.ChatID))
		b.bot.Start() // blocks until Stop
	}()
	return nil
}

func (b *Bot) Stop(ctx context.Context) error {
	b.runMu.Lock()
	cancel := b.cancel
	b.cancel = nil
	wasRunning := b.running
	b.running = false
	b.runMu.Unlock()

	if !wasRunning {
		return nil
	}
	if cancel != nil {
		cancel()
	}
	go b.stopPoller()

	done := make(chan struct{})
	go func() {
		b.runWG.Wait()
		close(done)
	}()

	// Don't let a pending getUpdates long-poll hold up shutdown.
	grace := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if rem := time.Until(dl); rem > 0 && rem < grace {
			grace = rem
		}
	}
	t := time.NewTimer(grace)
	defer t.Stop()

	select {
	case <-done:
		b.log.Info("telegram polling stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		b.log.Warn("telegram stop grace elapsed; continuing shutdown")
		return nil
	}
}

// stopPoller stops the telebot poll loop exactly once, whichever shutdown
// path gets there first.
func (b *Bot) stopPoller() {
	b.stopOnce.Do(b.bot.Stop)
}

// SendText implements reminder.Sender against the configured chat.
func (b *Bot) SendText(_ context.Context, text string) error {
	_, err := b.bot.Send(&tele.Chat{ID: b.cfg.ChatID}, text)
	return err
}

// authorized drops messages from any chat other than the configured one.
func (b *Bot) authorized(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Chat() == nil || c.Chat().ID != b.cfg.ChatID {
			b.log.Debug("ignoring message from unknown chat")
			return nil
		}
		return next(c)
	}
}

func (b *Bot) replyWithPlan(ctx context.Context, c tele.Context, date engine.Date, clock string) error {
	res, err := b.planner.PlanFor(ctx, date, clock)
	if err != nil {
		b.log.Error("plan request failed", logx.Err(err), logx.String("date", date.String()))
		return c.Send("Something went wrong, check the logs.")
	}
	names, err := b.planner.TemplateNames(ctx)
	if err != nil {
		names = map[string]string{}
	}
	return c.Send(reminder.FormatDay(date, res, names))
}

var _ reminder.Sender = (*Bot)(nil)
