// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/venkyai/venky-chat/internal/domain"
)

// OpenAIProvider calls the chat-completion endpoint directly with the
// configured API key.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, history []domain.Message, systemPrompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    buildTranscript(history, systemPrompt),
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return "", NewProviderError("completion", "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return FallbackReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// buildTranscript places the system instruction first and replays the
// full history in order. No windowing, no summarization.
func buildTranscript(history []domain.Message, systemPrompt string) []openai.ChatCompletionMessage {
	transcript := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	transcript = append(transcript, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Sender == domain.SenderAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		transcript = append(transcript, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	return transcript
}
