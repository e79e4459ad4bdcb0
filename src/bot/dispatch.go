package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	logger "github.com/sirupsen/logrus"

	"hyperwatch/src/connectors"
	"hyperwatch/src/model"
)

// Reporter produces a rendered one-shot wallet report.
type Reporter interface {
	WalletReport(ctx context.Context, addr model.WalletAddress) (string, error)
}

// TrackControl is the slice of the tracking scheduler the command handlers
// need: start/replace and stop.
type TrackControl interface {
	Track(chatID int64, wallet model.WalletAddress) bool
	Stop(chatID int64) bool
}

type handlerFunc func(ctx context.Context, chatID int64, args string)

// Dispatcher routes inbound chat commands to handlers. Dispatch is total:
// every update resolves to exactly one outbound message, or a silent ignore
// when the update carries no usable chat text.
type Dispatcher struct {
	messenger  Messenger
	reporter   Reporter
	tracks     TrackControl
	trackEvery time.Duration
	handlers   map[string]handlerFunc
}

func NewDispatcher(m Messenger, reporter Reporter, tracks TrackControl, trackEvery time.Duration) *Dispatcher {
	if trackEvery <= 0 {
		trackEvery = 10 * time.Minute
	}
	d := &Dispatcher{
		messenger:  m,
		reporter:   reporter,
		tracks:     tracks,
		trackEvery: trackEvery,
	}
	d.handlers = map[string]handlerFunc{
		"start":      d.handleStart,
		"wallet":     d.handleWallet,
		"track":      d.handleTrack,
		"stopwallet": d.handleStopWallet,
	}
	return d
}

// HandleUpdate processes one inbound Telegram update. Handlers may block on
// venue I/O, so callers run this on its own goroutine per update.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil {
		message = update.EditedMessage
	}
	if message == nil || message.Chat == nil || strings.TrimSpace(message.Text) == "" {
		return // irrelevant update, ignore silently
	}

	chatID := message.Chat.ID
	command := message.Command()
	if command == "" {
		d.reply(chatID, "Unrecognized input.\nUse /start to see the available commands.", ModePlain)
		return
	}

	handler, ok := d.handlers[command]
	if !ok {
		d.reply(chatID, "Unknown command.\nUse /start to see the available commands.", ModePlain)
		return
	}
	handler(ctx, chatID, strings.TrimSpace(message.CommandArguments()))
}

func (d *Dispatcher) reply(chatID int64, text string, mode ParseMode) {
	if err := d.messenger.Send(chatID, text, mode); err != nil {
		logger.WithError(err).WithField("chat", chatID).Warn("failed to send reply")
	}
}

func (d *Dispatcher) usageInstructions() string {
	return strings.Join([]string{
		"👋 *Hyperwatch*",
		"",
		"Check *positions*, *open orders* and *recent fills* for any Hyperliquid wallet.",
		"",
		"`/wallet <address>` — one-shot report",
		fmt.Sprintf("`/track <address>` — send a fresh report every %s", formatInterval(d.trackEvery)),
		"`/stopwallet` — stop tracking",
		"",
		"Example:",
		"`/wallet 0xc2a30212a8ddac9e123944d6e29faddce994e5f2`",
		"",
		"You can also paste a HyperDash trader URL and the address is picked up automatically.",
	}, "\n")
}

func (d *Dispatcher) handleStart(_ context.Context, chatID int64, _ string) {
	d.reply(chatID, d.usageInstructions(), ModeMarkdown)
}

func (d *Dispatcher) handleWallet(ctx context.Context, chatID int64, args string) {
	addr, ok := d.resolveAddress(chatID, args)
	if !ok {
		return
	}
	d.reply(chatID, d.buildReport(ctx, addr), ModeMarkdown)
}

func (d *Dispatcher) handleTrack(_ context.Context, chatID int64, args string) {
	addr, ok := d.resolveAddress(chatID, args)
	if !ok {
		return
	}
	replaced := d.tracks.Track(chatID, addr)
	every := formatInterval(d.trackEvery)
	if replaced {
		d.reply(chatID, fmt.Sprintf("✅ Now tracking `%s` (previous wallet replaced). Updates every %s.", addr, every), ModeMarkdown)
		return
	}
	d.reply(chatID, fmt.Sprintf("✅ Now tracking `%s`. Updates every %s.", addr, every), ModeMarkdown)
}

// formatInterval renders the tracking period for chat text, e.g. "10 minutes".
func formatInterval(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}

func (d *Dispatcher) handleStopWallet(_ context.Context, chatID int64, _ string) {
	if d.tracks.Stop(chatID) {
		d.reply(chatID, "🛑 Tracking stopped.", ModePlain)
		return
	}
	d.reply(chatID, "ℹ️ Nothing tracked.", ModePlain)
}

// resolveAddress validates the command argument and emits corrective
// guidance on failure. No upstream call is attempted for invalid input.
func (d *Dispatcher) resolveAddress(chatID int64, args string) (model.WalletAddress, bool) {
	if args == "" {
		d.reply(chatID, "⚠️ Provide an address. Example:\n`/wallet 0xabc…1234`", ModeMarkdown)
		return "", false
	}
	addr, err := model.ExtractWalletAddress(args)
	if err != nil {
		d.reply(chatID, "❌ Invalid address. Use a 42-char EVM address starting with `0x`, or paste a HyperDash trader URL.", ModeMarkdown)
		return "", false
	}
	return addr, true
}

func (d *Dispatcher) buildReport(ctx context.Context, addr model.WalletAddress) string {
	text, err := d.reporter.WalletReport(ctx, addr)
	if err != nil {
		var upErr *connectors.UpstreamError
		if errors.As(err, &upErr) {
			return fmt.Sprintf("⚠️ Error fetching data: %s.", upErr.Cause)
		}
		logger.WithError(err).Error("wallet report failed")
		return "⚠️ Error fetching data, please try again later."
	}
	return text
}
