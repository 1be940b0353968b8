// File: internal/services/ai/interface.go
package ai

import (
	"context"

	"github.com/venkyai/venky-chat/internal/domain"
)

// CompletionProvider turns a conversation history plus a system
// instruction into one assistant reply. The system instruction is
// always the first entry of the transcript; all prior messages are
// replayed in chronological order with no truncation.
//
// A transport or API failure yields an *AIError. An empty completion
// is a soft success: the provider returns FallbackReply instead.
type CompletionProvider interface {
	Complete(ctx context.Context, history []domain.Message, systemPrompt string) (string, error)
}
