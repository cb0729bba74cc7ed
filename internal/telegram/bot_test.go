package telegram

import (
	"context"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	logx "dayplan/pkg/logx"
)

func newOfflineBot(t *testing.T) *Bot {
	t.Helper()
	tb, err := tele.NewBot(tele.Settings{
		Token:   "test-token",
		Offline: true,
		Poller:  &tele.LongPoller{Timeout: time.Second},
	})
	if err != nil {
		t.Fatalf("tele.NewBot: %v", err)
	}
	return &Bot{
		cfg: Config{Token: "test-token", ChatID: 42},
		log: logx.Nop(),
		bot: tb,
	}
}

func TestStopPollerIsOneShot(t *testing.T) {
	t.Parallel()
	b := newOfflineBot(t)
	ctx := context.Background()

	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := b.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// A late shutdown path reaching the poller again must return instead of
	// blocking on telebot's stop handshake.
	done := make(chan struct{})
	go func() {
		b.stopPoller()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("repeated poller stop blocked")
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()
	b := newOfflineBot(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := b.Stop(ctx); err != nil {
		t.Fatalf("Stop before Start: %v", err)
	}
}
