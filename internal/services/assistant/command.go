// File: internal/services/assistant/command.go
package assistant

import (
	"context"
	"strings"
)

// AdminPolicy decides whether a user may issue admin commands. It is
// injected so tests can substitute policies.
type AdminPolicy interface {
	IsPrivileged(ctx context.Context, userID uint) bool
}

// AdminPolicyFunc adapts a function to the AdminPolicy interface.
type AdminPolicyFunc func(ctx context.Context, userID uint) bool

func (f AdminPolicyFunc) IsPrivileged(ctx context.Context, userID uint) bool {
	return f(ctx, userID)
}

// Command is a recognized, authorized admin command: the proposed new
// system instruction. An empty NewPrompt means the command carried no
// payload and should be absorbed without changing anything.
type Command struct {
	NewPrompt string
}

// Interpreter detects the in-band admin command inside user messages.
// Detection matches the configured prefix against the raw text,
// case-sensitively and without trimming. A matching message from a
// non-privileged sender is not a command; it falls through to ordinary
// message handling.
type Interpreter struct {
	prefix string
	policy AdminPolicy
}

func NewInterpreter(prefix string, policy AdminPolicy) *Interpreter {
	return &Interpreter{prefix: prefix, policy: policy}
}

// Interpret classifies a message. The second return is false when the
// message should be handled as ordinary conversational content.
func (i *Interpreter) Interpret(ctx context.Context, userID uint, text string) (Command, bool) {
	if i.prefix == "" || !strings.HasPrefix(text, i.prefix) {
		return Command{}, false
	}
	if !i.policy.IsPrivileged(ctx, userID) {
		return Command{}, false
	}
	return Command{NewPrompt: strings.TrimSpace(text[len(i.prefix):])}, true
}
