package handler

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	logger "github.com/sirupsen/logrus"
)

type updateDispatcher interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// WebhookHandler returns a handler for Telegram webhook callbacks. The
// update is dispatched on its own goroutine so the callback returns fast;
// Telegram retries on non-200, so a malformed body is the only rejection.
func WebhookHandler(baseCtx context.Context, dispatcher updateDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logger.WithError(err).Warn("malformed webhook payload")
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		go dispatcher.HandleUpdate(baseCtx, update)
		w.WriteHeader(http.StatusOK)
	}
}
