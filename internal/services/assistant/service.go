// File: internal/services/assistant/service.go
package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/venkyai/venky-chat/internal/domain"
	"github.com/venkyai/venky-chat/internal/repository/assistant"
)

// Logger matches services.Logger without importing the parent package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service resolves and updates the shared system instruction. Reads
// fail soft to the built-in default; updates propagate failure because
// the admin command path must know whether the mutation landed.
//
// The last successfully resolved or written value is cached in memory.
// There is no push invalidation across instances; concurrent readers
// may observe stale values, which is accepted.
type Service struct {
	repo   assistant.ConfigRepository
	logger Logger

	mu     sync.RWMutex
	cached string
}

func NewService(repo assistant.ConfigRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		cached: domain.DefaultSystemPrompt,
	}
}

// SystemPrompt returns the current system instruction. On any read
// error or missing document it logs and returns the built-in default
// rather than failing.
func (s *Service) SystemPrompt(ctx context.Context) string {
	config, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Warn("falling back to default system prompt", "error", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.cached
	}

	s.mu.Lock()
	s.cached = config.SystemPrompt
	s.mu.Unlock()
	return config.SystemPrompt
}

// UpdateSystemPrompt overwrites the singleton document. Failure is
// surfaced to the caller; the cache is only re-assigned on success.
func (s *Service) UpdateSystemPrompt(ctx context.Context, prompt string) error {
	if err := s.repo.Put(ctx, &domain.AssistantConfig{SystemPrompt: prompt}); err != nil {
		s.logger.Error("system prompt update failed", "error", err)
		return fmt.Errorf("updating system prompt: %w", err)
	}

	s.mu.Lock()
	s.cached = prompt
	s.mu.Unlock()

	s.logger.Info("system prompt updated", "prompt_len", len(prompt))
	return nil
}
