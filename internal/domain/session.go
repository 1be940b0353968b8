// File: internal/domain/session.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSessionTitle is the title of a session before its first
	// user message names it.
	DefaultSessionTitle = "New Chat"

	// ErrorReplyMessage is appended in place of an assistant reply when
	// generation fails, keeping the session well-formed and resumable.
	ErrorReplyMessage = "Sorry, I encountered an error. Please check your API configuration and try again."

	titleMaxLen = 30
)

// ChatSession is one conversation: an append-only list of messages with
// a title derived from the first user message. All mutating operations
// return a new value; callers always observe a consistent snapshot.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewChatSession creates an empty session with a freshly generated id.
// Pure: no I/O, no failure mode. The session is not persisted until its
// first assistant (or error) message lands.
func NewChatSession() ChatSession {
	now := time.Now()
	return ChatSession{
		ID:        "session-" + uuid.NewString(),
		Title:     DefaultSessionTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendUserMessage returns a copy of the session with a user message
// appended. The first user message also sets the title, once; later
// appends never touch it. Callers validate that content is non-empty
// after trimming before calling.
func (s ChatSession) AppendUserMessage(content string) ChatSession {
	title := s.Title
	if len(s.Messages) == 0 {
		title = deriveTitle(content)
	}
	return s.withAppended(NewMessage(content, SenderUser), title)
}

// AppendAssistantMessage returns a copy of the session with an
// assistant message appended.
func (s ChatSession) AppendAssistantMessage(content string) ChatSession {
	return s.withAppended(NewMessage(content, SenderAssistant), s.Title)
}

// AppendErrorMessage returns a copy of the session with the fixed
// apology message appended as an assistant turn. The underlying fault
// never reaches the transcript.
func (s ChatSession) AppendErrorMessage() ChatSession {
	return s.withAppended(NewMessage(ErrorReplyMessage, SenderAssistant), s.Title)
}

func (s ChatSession) withAppended(msg Message, title string) ChatSession {
	messages := make([]Message, len(s.Messages), len(s.Messages)+1)
	copy(messages, s.Messages)
	return ChatSession{
		ID:        s.ID,
		Title:     title,
		Messages:  append(messages, msg),
		CreatedAt: s.CreatedAt,
		UpdatedAt: time.Now(),
	}
}

// deriveTitle truncates the first message to a short prefix, with a
// continuation marker when something was cut off.
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxLen {
		return content
	}
	return string(runes[:titleMaxLen]) + "..."
}
