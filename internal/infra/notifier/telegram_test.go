package notifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskaros/reminder-engine/internal/domain"
	"github.com/oskaros/reminder-engine/internal/infra/notifier"
)

func mustUserID(t *testing.T, v int64) domain.UserID {
	t.Helper()

	userID, err := domain.NewUserID(v)
	require.NoError(t, err)

	return userID
}

func TestTelegramSend(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := notifier.NewTelegramNotifier(notifier.TelegramConfig{
		Token:   "test-token",
		BaseURL: srv.URL,
	})

	err := n.Send(context.Background(), mustUserID(t, 42), "⏰ time to stretch")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, float64(42), gotBody["chat_id"])
	assert.Equal(t, "⏰ time to stretch", gotBody["text"])
}

func TestTelegramSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	n := notifier.NewTelegramNotifier(notifier.TelegramConfig{
		Token:   "test-token",
		BaseURL: srv.URL,
	})

	err := n.Send(context.Background(), mustUserID(t, 42), "hello")
	require.ErrorIs(t, err, notifier.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramSendConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := notifier.NewTelegramNotifier(notifier.TelegramConfig{
		Token:   "test-token",
		BaseURL: srv.URL,
	})

	err := n.Send(context.Background(), mustUserID(t, 42), "hello")
	assert.Error(t, err)
}
