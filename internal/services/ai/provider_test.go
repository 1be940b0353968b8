// File: internal/services/ai/provider_test.go
package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venkyai/venky-chat/internal/domain"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.Timeout = 5 * time.Second
	return cfg
}

func history(contents ...string) []domain.Message {
	msgs := make([]domain.Message, 0, len(contents))
	for i, c := range contents {
		sender := domain.SenderUser
		if i%2 == 1 {
			sender = domain.SenderAssistant
		}
		msgs = append(msgs, domain.NewMessage(c, sender))
	}
	return msgs
}

func TestBuildTranscript(t *testing.T) {
	transcript := buildTranscript(history("q1", "a1", "q2"), "system rules")

	require.Len(t, transcript, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, transcript[0].Role)
	assert.Equal(t, "system rules", transcript[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, transcript[1].Role)
	assert.Equal(t, "q1", transcript[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, transcript[2].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, transcript[3].Role)
}

func fakeOpenAIServer(t *testing.T, content string, gotReq *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotReq != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(gotReq))
		}
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProviderComplete(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	server := fakeOpenAIServer(t, "Stockholm", &gotReq)
	defer server.Close()

	cfg := testConfig()
	cfg.BaseURL = server.URL
	provider := NewOpenAIProvider(cfg)

	reply, err := provider.Complete(context.Background(), history("capital of Sweden?"), "be helpful")
	require.NoError(t, err)
	assert.Equal(t, "Stockholm", reply)

	assert.Equal(t, cfg.Model, gotReq.Model)
	assert.InDelta(t, 0.7, gotReq.Temperature, 0.001)
	assert.Equal(t, 1000, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "be helpful", gotReq.Messages[0].Content)
}

func TestOpenAIProviderEmptyCompletionFallsBack(t *testing.T) {
	server := fakeOpenAIServer(t, "", nil)
	defer server.Close()

	cfg := testConfig()
	cfg.BaseURL = server.URL
	provider := NewOpenAIProvider(cfg)

	reply, err := provider.Complete(context.Background(), history("hi"), "be helpful")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestOpenAIProviderTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.BaseURL = server.URL
	provider := NewOpenAIProvider(cfg)

	_, err := provider.Complete(context.Background(), history("hi"), "be helpful")
	require.Error(t, err)

	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ErrTypeProvider, aiErr.Type)
}

func TestProxyProviderComplete(t *testing.T) {
	var gotAuth string
	var gotReq proxyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "via proxy"}},
			},
		})
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.APIKey = ""
	cfg.ProxyURL = server.URL
	cfg.ProxySharedSecret = "shared-secret"
	provider := NewProxyProvider(cfg)

	reply, err := provider.Complete(context.Background(), history("q1", "a1"), "be helpful")
	require.NoError(t, err)
	assert.Equal(t, "via proxy", reply)

	assert.Equal(t, "Bearer shared-secret", gotAuth)
	assert.Equal(t, "be helpful", gotReq.SystemPrompt)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "assistant", gotReq.Messages[1].Role)
}

func TestProxyProviderEmptyCompletionFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.ProxyURL = server.URL
	cfg.ProxySharedSecret = "shared-secret"
	provider := NewProxyProvider(cfg)

	reply, err := provider.Complete(context.Background(), history("hi"), "be helpful")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestProxyProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.ProxyURL = server.URL
	cfg.ProxySharedSecret = "wrong"
	provider := NewProxyProvider(cfg)

	_, err := provider.Complete(context.Background(), history("hi"), "be helpful")
	require.Error(t, err)

	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ErrTypeProvider, aiErr.Type)
}
