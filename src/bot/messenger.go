package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	logger "github.com/sirupsen/logrus"
)

// ParseMode selects the outbound text format.
type ParseMode string

const (
	ModePlain    ParseMode = ""
	ModeMarkdown ParseMode = tgbotapi.ModeMarkdown
	ModeHTML     ParseMode = tgbotapi.ModeHTML
)

// maxChunkLen stays under Telegram's ~4096-char message ceiling with room
// for markup entities.
const maxChunkLen = 3900

// Messenger delivers text to a chat. The Telegram implementation chunks
// long messages; tests substitute an in-memory fake.
type Messenger interface {
	Send(chatID int64, text string, mode ParseMode) error
}

// TelegramMessenger sends through the Bot API, splitting oversized text on
// safe boundaries and sending the chunks in order.
type TelegramMessenger struct {
	api *tgbotapi.BotAPI
}

func NewTelegramMessenger(api *tgbotapi.BotAPI) *TelegramMessenger {
	return &TelegramMessenger{api: api}
}

func (m *TelegramMessenger) Send(chatID int64, text string, mode ParseMode) error {
	for i, chunk := range SplitMessage(text, maxChunkLen) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = string(mode)
		msg.DisableWebPagePreview = true
		if _, err := m.api.Send(msg); err != nil {
			return fmt.Errorf("send chunk %d: %w", i, err)
		}
	}
	return nil
}

// SplitMessage splits text into chunks of at most max bytes, preferring
// newline boundaries so markup lines stay intact. A single line longer than
// max is split hard.
func SplitMessage(text string, max int) []string {
	if max <= 0 || len(text) <= max {
		return []string{text}
	}

	var chunks []string
	for len(text) > max {
		cut := strings.LastIndexByte(text[:max], '\n')
		if cut <= 0 {
			// Hard split; back off so a multi-byte rune is never bisected.
			cut = max
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = max
			}
		}
		chunks = append(chunks, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	return chunks
}

// NewBotAPI connects to Telegram and logs the authorized identity.
func NewBotAPI(cfg Config) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	api.Debug = cfg.Debug
	logger.WithField("account", api.Self.UserName).Info("authorized on telegram")
	return api, nil
}

// SetWebhook registers the webhook callback URL with Telegram.
func SetWebhook(api *tgbotapi.BotAPI, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	logger.WithField("url", url).Info("webhook registered")
	return nil
}

// DeleteWebhook removes the webhook registration on shutdown.
func DeleteWebhook(api *tgbotapi.BotAPI) {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.WithError(err).Warn("failed to delete webhook")
		return
	}
	logger.Info("webhook deleted")
}
