package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"hyperwatch/src/bot"
	"hyperwatch/src/connectors"
	"hyperwatch/src/controller"
	"hyperwatch/src/handler"
	"hyperwatch/src/server"
	"hyperwatch/src/tracker"
)

type Service struct{}

// Start wires the full service and blocks until SIGINT/SIGTERM. Update
// delivery is webhook when WEBHOOK_URL is set, long polling otherwise; the
// health endpoint is served either way.
func (s *Service) Start() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	venueCfg := connectors.GetConfig()
	venue := connectors.NewVenue(venueCfg)
	pipeline := controller.NewPipeline(venue, controller.GetConfig(), venueCfg.FillLimit)

	botCfg := bot.GetConfig()
	api, err := bot.NewBotAPI(botCfg)
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to Telegram")
		return err
	}
	messenger := bot.NewTelegramMessenger(api)

	trackCfg := tracker.GetConfig()
	watch := tracker.New(trackCfg, pipeline.WalletReport, func(chatID int64, text string) error {
		return messenger.Send(chatID, text, bot.ModeMarkdown)
	})
	dispatcher := bot.NewDispatcher(messenger, pipeline, watch, trackCfg.Interval)

	port := server.GetConfig().Port

	if botCfg.WebhookURL != "" {
		if err := bot.SetWebhook(api, botCfg.WebhookURL); err != nil {
			logrus.WithError(err).Error("Failed to register webhook")
			return err
		}
		router := server.NewRouter(handler.WebhookHandler(ctx, dispatcher))
		server.StartServer(ctx, port, router)
		bot.DeleteWebhook(api)
	} else {
		go server.StartServer(ctx, port, server.NewRouter(nil))
		runLongPoll(ctx, api, dispatcher, botCfg)
	}

	watch.Shutdown()
	logrus.Info("Service stopped")
	return nil
}

// runLongPoll consumes the update channel until ctx is cancelled. Each
// update is dispatched on its own goroutine so a slow venue fetch never
// stalls the stream.
func runLongPoll(ctx context.Context, api *tgbotapi.BotAPI, dispatcher *bot.Dispatcher, cfg bot.Config) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(cfg.RequestTimeout / time.Second)

	updates := api.GetUpdatesChan(u)
	logrus.Info("Long polling for updates")

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go dispatcher.HandleUpdate(ctx, update)
		}
	}
}
