// File: internal/services/assistant/service_test.go
package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venkyai/venky-chat/internal/domain"
)

type fakeConfigRepo struct {
	stored   *domain.AssistantConfig
	getErr   error
	putErr   error
	putCalls int
}

func (f *fakeConfigRepo) Get(_ context.Context) (*domain.AssistantConfig, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stored == nil {
		return nil, errors.New("not found")
	}
	return f.stored, nil
}

func (f *fakeConfigRepo) Put(_ context.Context, config *domain.AssistantConfig) error {
	f.putCalls++
	if f.putErr != nil {
		return f.putErr
	}
	f.stored = config
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

func TestSystemPromptFallsBackToDefault(t *testing.T) {
	repo := &fakeConfigRepo{getErr: errors.New("store unavailable")}
	s := NewService(repo, noopLogger{})

	assert.Equal(t, domain.DefaultSystemPrompt, s.SystemPrompt(context.Background()))
}

func TestSystemPromptReadsStoredValue(t *testing.T) {
	repo := &fakeConfigRepo{stored: &domain.AssistantConfig{SystemPrompt: "be terse"}}
	s := NewService(repo, noopLogger{})

	assert.Equal(t, "be terse", s.SystemPrompt(context.Background()))
}

func TestSystemPromptUsesCacheWhenReadFails(t *testing.T) {
	repo := &fakeConfigRepo{stored: &domain.AssistantConfig{SystemPrompt: "be terse"}}
	s := NewService(repo, noopLogger{})

	require.Equal(t, "be terse", s.SystemPrompt(context.Background()))

	// Later reads fail; the last resolved value survives.
	repo.getErr = errors.New("store unavailable")
	assert.Equal(t, "be terse", s.SystemPrompt(context.Background()))
}

func TestUpdateSystemPrompt(t *testing.T) {
	repo := &fakeConfigRepo{}
	s := NewService(repo, noopLogger{})

	require.NoError(t, s.UpdateSystemPrompt(context.Background(), "new rules"))
	assert.Equal(t, 1, repo.putCalls)
	assert.Equal(t, "new rules", repo.stored.SystemPrompt)
	assert.Equal(t, "new rules", s.SystemPrompt(context.Background()))
}

func TestUpdateSystemPromptPropagatesFailure(t *testing.T) {
	repo := &fakeConfigRepo{putErr: errors.New("write refused")}
	s := NewService(repo, noopLogger{})

	err := s.UpdateSystemPrompt(context.Background(), "new rules")
	require.Error(t, err)

	// Cache unchanged on failure.
	repo.getErr = errors.New("store unavailable")
	assert.Equal(t, domain.DefaultSystemPrompt, s.SystemPrompt(context.Background()))
}
