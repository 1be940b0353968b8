// File: internal/repository/session/interface.go
package session

import (
	"context"

	"github.com/venkyai/venky-chat/internal/domain"
)

// SessionRepository persists whole chat sessions as documents owned by
// a user. Saves replace the stored copy wholesale; the last writer
// wins. Reads return sessions ordered by updatedAt descending.
type SessionRepository interface {
	// Save stores the session for the given owner, replacing any
	// previous copy with the same id. Write failures are returned to
	// the caller; a silently dropped write is worse than a stale read.
	Save(ctx context.Context, userID uint, session domain.ChatSession) error

	// FindByUserID returns all sessions owned by userID, most recently
	// updated first.
	FindByUserID(ctx context.Context, userID uint) ([]domain.ChatSession, error)

	// FindByID returns one session owned by userID, or ErrSessionNotFound.
	FindByID(ctx context.Context, userID uint, sessionID string) (*domain.ChatSession, error)

	// Delete removes a session owned by userID.
	Delete(ctx context.Context, userID uint, sessionID string) error
}
