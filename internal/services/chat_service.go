// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/venkyai/venky-chat/internal/domain"
	"github.com/venkyai/venky-chat/internal/repository/session"
	"github.com/venkyai/venky-chat/internal/services/assistant"
)

// SendOutcome describes what a SendMessage call did.
type SendOutcome string

const (
	// OutcomeReply: a user turn and an assistant reply were appended.
	OutcomeReply SendOutcome = "reply"
	// OutcomeGenerationError: generation failed; the apology turn was
	// appended instead and the session was still persisted.
	OutcomeGenerationError SendOutcome = "generation_error"
	// OutcomePromptUpdated: the message was an authorized admin command
	// and the system prompt was changed. No turns were appended.
	OutcomePromptUpdated SendOutcome = "prompt_updated"
	// OutcomePromptUnchanged: an authorized admin command with an empty
	// payload. Absorbed; nothing changed, nothing was generated.
	OutcomePromptUnchanged SendOutcome = "prompt_unchanged"
)

// Completer generates one assistant reply from a conversation history
// and a system instruction. Satisfied by *AIService.
type Completer interface {
	Complete(ctx context.Context, history []domain.Message, systemPrompt string) (string, error)
}

// ChatService drives the session lifecycle: interpreting admin
// commands, appending turns, mediating generation, and persisting the
// result.
type ChatService struct {
	sessionRepo      session.SessionRepository
	aiService        Completer
	assistantService *assistant.Service
	interpreter      *assistant.Interpreter
	logger           Logger
}

func NewChatService(
	sessionRepo session.SessionRepository,
	aiService Completer,
	assistantService *assistant.Service,
	interpreter *assistant.Interpreter,
	logger Logger,
) (*ChatService, error) {
	if sessionRepo == nil {
		return nil, errors.New("session repository is required")
	}
	if aiService == nil {
		return nil, errors.New("AI service is required")
	}
	if assistantService == nil {
		return nil, errors.New("assistant service is required")
	}
	if interpreter == nil {
		return nil, errors.New("command interpreter is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ChatService{
		sessionRepo:      sessionRepo,
		aiService:        aiService,
		assistantService: assistantService,
		interpreter:      interpreter,
		logger:           logger,
	}, nil
}

// NewSession creates a fresh, empty session. Nothing is persisted
// until the first assistant (or error) turn lands.
func (s *ChatService) NewSession() domain.ChatSession {
	return domain.NewChatSession()
}

// GetUserSessions lists the user's sessions, most recently updated
// first. Store errors degrade to an empty list: a stale or missing
// session list never blocks the user from chatting.
func (s *ChatService) GetUserSessions(ctx context.Context, userID uint) []domain.ChatSession {
	sessions, err := s.sessionRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("session list load failed, returning empty list", "user_id", userID, "error", err)
		return []domain.ChatSession{}
	}
	return sessions
}

// GetSession returns one session owned by the user.
func (s *ChatService) GetSession(ctx context.Context, userID uint, sessionID string) (*domain.ChatSession, error) {
	return s.sessionRepo.FindByID(ctx, userID, sessionID)
}

// DeleteSession removes one session owned by the user.
func (s *ChatService) DeleteSession(ctx context.Context, userID uint, sessionID string) error {
	return s.sessionRepo.Delete(ctx, userID, sessionID)
}

// SendMessage processes one user message against a session and returns
// the resulting session snapshot.
//
// An authorized admin command short-circuits: the system prompt is
// updated (or the command absorbed when empty) and the session is
// returned untouched, with no generation and no persistence. Otherwise
// the user turn is appended, generation runs over the full history,
// and the assistant reply or the fixed apology turn is appended. The
// session is persisted exactly once with the final state; persistence
// failures propagate.
//
// The message must be non-empty after trimming; the handler enforces
// that before calling.
func (s *ChatService) SendMessage(ctx context.Context, userID uint, sess domain.ChatSession, text string) (domain.ChatSession, SendOutcome, error) {
	if cmd, ok := s.interpreter.Interpret(ctx, userID, text); ok {
		if cmd.NewPrompt == "" {
			s.logger.Info("admin command with empty payload absorbed", "user_id", userID)
			return sess, OutcomePromptUnchanged, nil
		}
		if err := s.assistantService.UpdateSystemPrompt(ctx, cmd.NewPrompt); err != nil {
			return sess, OutcomePromptUnchanged, err
		}
		return sess, OutcomePromptUpdated, nil
	}

	sess = sess.AppendUserMessage(text)

	outcome := OutcomeReply
	systemPrompt := s.assistantService.SystemPrompt(ctx)
	reply, err := s.aiService.Complete(ctx, sess.Messages, systemPrompt)
	if err != nil {
		s.logger.Error("generation failed, absorbing into transcript",
			"user_id", userID, "session_id", sess.ID, "error", err)
		sess = sess.AppendErrorMessage()
		outcome = OutcomeGenerationError
	} else {
		sess = sess.AppendAssistantMessage(reply)
	}

	if err := s.sessionRepo.Save(ctx, userID, sess); err != nil {
		return sess, outcome, fmt.Errorf("persisting session %s: %w", sess.ID, err)
	}

	return sess, outcome, nil
}
