// File: internal/services/ai_service.go
package services

import (
	"context"

	"github.com/venkyai/venky-chat/internal/domain"
	"github.com/venkyai/venky-chat/internal/services/ai"
)

// AIService mediates between the chat flow and the generation
// provider. It owns provider selection: direct OpenAI-compatible calls
// when an API key is configured, or the edge proxy when a proxy URL is
// set.
type AIService struct {
	config   *ai.Config
	provider ai.CompletionProvider
	logger   Logger
}

func NewAIService(config *ai.Config, logger Logger) (*AIService, error) {
	if err := config.Validate(); err != nil {
		return nil, ai.NewConfigError(err.Error())
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	var provider ai.CompletionProvider
	if config.ProxyURL != "" {
		provider = ai.NewProxyProvider(config)
	} else {
		provider = ai.NewOpenAIProvider(config)
	}

	return &AIService{
		config:   config,
		provider: provider,
		logger:   logger,
	}, nil
}

// Complete generates one assistant reply for the given conversation
// history. The full history is replayed behind the system instruction;
// there is no token budgeting. Provider failures come back as
// *ai.AIError; an empty completion resolves to ai.FallbackReply.
func (s *AIService) Complete(ctx context.Context, history []domain.Message, systemPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	reply, err := s.provider.Complete(ctx, history, systemPrompt)
	if err != nil {
		s.logger.Error("completion failed", "error", err, "history_len", len(history))
		return "", err
	}

	s.logger.Debug("completion succeeded", "history_len", len(history), "reply_len", len(reply))
	return reply, nil
}
