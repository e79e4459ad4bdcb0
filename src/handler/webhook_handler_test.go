package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

type mockDispatcher struct {
	mu      sync.Mutex
	updates []tgbotapi.Update
	seen    chan struct{}
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{seen: make(chan struct{}, 8)}
}

func (m *mockDispatcher) HandleUpdate(_ context.Context, update tgbotapi.Update) {
	m.mu.Lock()
	m.updates = append(m.updates, update)
	m.mu.Unlock()
	m.seen <- struct{}{}
}

func (m *mockDispatcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

func TestWebhookHandler_DispatchesDecodedUpdate(t *testing.T) {
	dispatcher := newMockDispatcher()
	h := WebhookHandler(context.Background(), dispatcher)

	body := `{"update_id":77,"message":{"message_id":1,"chat":{"id":42},"text":"/start","entities":[{"type":"bot_command","offset":0,"length":6}]}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	select {
	case <-dispatcher.seen:
	case <-time.After(time.Second):
		t.Fatal("update was not dispatched")
	}

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	assert.Equal(t, 77, dispatcher.updates[0].UpdateID)
	assert.Equal(t, int64(42), dispatcher.updates[0].Message.Chat.ID)
	assert.Equal(t, "/start", dispatcher.updates[0].Message.Text)
}

func TestWebhookHandler_MalformedBodyRejected(t *testing.T) {
	dispatcher := newMockDispatcher()
	h := WebhookHandler(context.Background(), dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, dispatcher.count())
}

func TestWebhookHandler_EmptyUpdateStillAccepted(t *testing.T) {
	dispatcher := newMockDispatcher()
	h := WebhookHandler(context.Background(), dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	// Dispatch decides what to ignore; the transport always acks.
	assert.Equal(t, http.StatusOK, rec.Code)
	select {
	case <-dispatcher.seen:
	case <-time.After(time.Second):
		t.Fatal("update was not dispatched")
	}
}
