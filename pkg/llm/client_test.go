package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"city-pet-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletionJSON(content string) string {
	body := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func newTestClient(baseURL string) Client {
	return NewClient(config.LLMConfig{
		APIKey:              "test-key",
		BaseURL:             baseURL,
		Model:               "deepseek-chat",
		TimeoutSeconds:      5,
		MaxAttempts:         2,
		RetryBackoffSeconds: 1,
	})
}

func TestClient_ChatSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req["model"])
		assert.Equal(t, false, req["stream"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionJSON("Dogs are great.")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.Chat(context.Background(), []Message{
		{Role: "system", Content: "You are a vet assistant."},
		{Role: "user", Content: "Tell me about dogs."},
	})

	require.NoError(t, err)
	assert.Equal(t, "Dogs are great.", answer)
}

func TestClient_ChatRetriesThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(chatCompletionJSON("second try")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	start := time.Now()
	answer, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.NoError(t, err)
	assert.Equal(t, "second try", answer)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	// 两次尝试之间应有约 1 秒的退避
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestClient_ChatExhaustsAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClient_ChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}

func TestClient_ContextCancelDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Chat(ctx, []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Available(t *testing.T) {
	assert.True(t, NewClient(config.LLMConfig{APIKey: "key"}).Available())
	assert.False(t, NewClient(config.LLMConfig{}).Available())
}
