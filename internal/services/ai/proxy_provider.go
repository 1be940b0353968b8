// File: internal/services/ai/proxy_provider.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/venkyai/venky-chat/internal/domain"
)

// ProxyProvider sends completions through the edge proxy. The proxy
// holds the real provider key; the client authenticates with a shared
// bearer secret and never sees the credential.
type ProxyProvider struct {
	config *Config
	client *http.Client
}

// proxyRequest is the wire shape accepted by the edge proxy.
type proxyRequest struct {
	Messages     []proxyMessage `json:"messages"`
	SystemPrompt string         `json:"systemPrompt"`
}

type proxyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// proxyResponse matches the provider response the proxy relays verbatim.
type proxyResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewProxyProvider(config *Config) *ProxyProvider {
	return &ProxyProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (p *ProxyProvider) Complete(ctx context.Context, history []domain.Message, systemPrompt string) (string, error) {
	messages := make([]proxyMessage, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Sender == domain.SenderAssistant {
			role = "assistant"
		}
		messages = append(messages, proxyMessage{Role: role, Content: msg.Content})
	}

	body, err := json.Marshal(proxyRequest{Messages: messages, SystemPrompt: systemPrompt})
	if err != nil {
		return "", NewProviderError("proxy_completion", "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.ProxyURL, bytes.NewReader(body))
	if err != nil {
		return "", NewProviderError("proxy_completion", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.ProxySharedSecret)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", NewProviderError("proxy_completion", "proxy request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", NewProviderError("proxy_completion",
			fmt.Sprintf("proxy returned status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewProviderError("proxy_completion", "failed to read proxy response", err)
	}

	var parsed proxyResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", NewProviderError("proxy_completion", "failed to parse proxy response", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return FallbackReply, nil
	}
	return parsed.Choices[0].Message.Content, nil
}
