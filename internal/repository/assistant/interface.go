// File: internal/repository/assistant/interface.go
package assistant

import (
	"context"

	"github.com/venkyai/venky-chat/internal/domain"
)

// ConfigRepository stores the single shared assistant configuration
// document. There is exactly one live copy; Put overwrites it, last
// write wins.
type ConfigRepository interface {
	Get(ctx context.Context) (*domain.AssistantConfig, error)
	Put(ctx context.Context, config *domain.AssistantConfig) error
}
