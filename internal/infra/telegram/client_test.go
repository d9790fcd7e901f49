package telegram

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

func newOfflineBot(t *testing.T, handler http.HandlerFunc) *telebot.Bot {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := telebot.NewBot(telebot.Settings{
		URL:     srv.URL,
		Token:   "123:test",
		Offline: true,
		Client:  srv.Client(),
	})
	require.NoError(t, err)
	return b
}

func TestTelebotAdapter_SendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	b := newOfflineBot(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":7,"date":1700000000,"chat":{"id":-100500,"type":"group"},"text":"hello"}}`)
	})

	err := NewTelebotAdapter(b).SendMessage(-100500, "hello", nil)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/sendMessage"), gotPath)
	assert.Equal(t, "-100500", gotBody["chat_id"])
	assert.Equal(t, "hello", gotBody["text"])
}

func TestTelebotAdapter_SendMessageError(t *testing.T) {
	b := newOfflineBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	})

	err := NewTelebotAdapter(b).SendMessage(1, "hello", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
