package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"

	"hyperwatch/src/connectors"
	"hyperwatch/src/model"
)

// RunFunc produces the rendered report for one wallet (the one-shot
// pipeline). SendFunc delivers text to one chat.
type (
	RunFunc  func(ctx context.Context, addr model.WalletAddress) (string, error)
	SendFunc func(chatID int64, text string) error
)

// Tracker owns the registry of per-user recurring tracking jobs. Invariant:
// at most one live job per chat ID; Track replaces atomically (the old job's
// timer can never fire once the new one is registered). All jobs die on
// Shutdown.
type Tracker struct {
	interval   time.Duration
	runTimeout time.Duration
	run        RunFunc
	send       SendFunc

	mu     sync.Mutex
	jobs   map[int64]*job
	closed bool

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type job struct {
	wallet model.WalletAddress
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config, run RunFunc, send SendFunc) *Tracker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	runTimeout := cfg.RunTimeout
	if runTimeout <= 0 {
		runTimeout = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		interval:   interval,
		runTimeout: runTimeout,
		run:        run,
		send:       send,
		jobs:       make(map[int64]*job),
		baseCtx:    ctx,
		cancel:     cancel,
	}
}

// Track starts tracking a wallet for a chat, replacing any existing job for
// the same chat. The previous job is cancelled and fully drained before the
// new one registers, then an immediate delivery runs so the user gets first
// feedback without waiting a whole period. Returns whether an existing job
// was replaced.
func (t *Tracker) Track(chatID int64, wallet model.WalletAddress) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false
	}

	replaced := false
	if old, ok := t.jobs[chatID]; ok {
		old.cancel()
		<-old.done
		replaced = true
	}

	ctx, cancel := context.WithCancel(t.baseCtx)
	j := &job{wallet: wallet, cancel: cancel, done: make(chan struct{})}
	t.jobs[chatID] = j

	t.wg.Add(1)
	go t.loop(ctx, chatID, j)

	logger.WithFields(map[string]interface{}{
		"chat":     chatID,
		"wallet":   wallet.String(),
		"replaced": replaced,
	}).Info("tracking job registered")
	return replaced
}

// Stop cancels the chat's tracking job if one exists. Stopping an untracked
// chat is a no-op and reports false.
func (t *Tracker) Stop(chatID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[chatID]
	if !ok {
		return false
	}
	j.cancel()
	<-j.done
	delete(t.jobs, chatID)

	logger.WithField("chat", chatID).Info("tracking job stopped")
	return true
}

// Tracked returns the wallet currently tracked for a chat, if any.
func (t *Tracker) Tracked(chatID int64) (model.WalletAddress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.jobs[chatID]
	if !ok {
		return "", false
	}
	return j.wallet, true
}

// Len reports the number of live jobs.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.jobs)
}

// Shutdown cancels every live job and waits for their loops to drain, so no
// timer fires against a torn-down delivery channel.
func (t *Tracker) Shutdown() {
	t.mu.Lock()
	t.closed = true
	t.cancel()
	t.jobs = make(map[int64]*job)
	t.mu.Unlock()

	t.wg.Wait()
	logger.Info("tracker shut down, all jobs cancelled")
}

func (t *Tracker) loop(ctx context.Context, chatID int64, j *job) {
	defer t.wg.Done()
	defer close(j.done)

	t.deliver(ctx, chatID, j.wallet)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.deliver(ctx, chatID, j.wallet)
		}
	}
}

// deliver runs one fetch-report-deliver tick. Pipeline errors degrade to an
// error summary, delivery failures are swallowed: neither kills the job.
func (t *Tracker) deliver(ctx context.Context, chatID int64, wallet model.WalletAddress) {
	if ctx.Err() != nil {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, t.runTimeout)
	defer cancel()

	text, err := t.run(runCtx, wallet)
	if err != nil {
		var upErr *connectors.UpstreamError
		if errors.As(err, &upErr) {
			text = fmt.Sprintf("⚠️ Could not fetch data for `%s`: %s", wallet, upErr.Cause)
		} else {
			text = fmt.Sprintf("⚠️ Could not fetch data for `%s`.", wallet)
		}
		logger.WithError(err).WithField("chat", chatID).Warn("tracking tick fetch failed")
	}

	if err := t.send(chatID, text); err != nil {
		// User may have blocked the bot; the job stays alive until an
		// explicit stop.
		logger.WithError(err).WithField("chat", chatID).Warn("tracking tick delivery failed")
	}
}
