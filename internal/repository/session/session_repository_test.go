// File: internal/repository/session/session_repository_test.go
package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/venkyai/venky-chat/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func repositories(t *testing.T) map[string]SessionRepository {
	t.Helper()
	return map[string]SessionRepository{
		"gorm": NewGormSessionRepository(newTestDB(t)),
		"file": NewFileSessionRepository(filepath.Join(t.TempDir(), "sessions.json")),
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			sess := domain.NewChatSession().
				AppendUserMessage("what is the capital of Sweden").
				AppendAssistantMessage("Stockholm").
				AppendUserMessage("and of Norway?").
				AppendAssistantMessage("Oslo")

			require.NoError(t, repo.Save(ctx, 1, sess))

			loaded, err := repo.FindByID(ctx, 1, sess.ID)
			require.NoError(t, err)

			assert.Equal(t, sess.Title, loaded.Title)
			require.Len(t, loaded.Messages, len(sess.Messages))
			for i, msg := range sess.Messages {
				assert.Equal(t, msg.ID, loaded.Messages[i].ID)
				assert.Equal(t, msg.Content, loaded.Messages[i].Content)
				assert.Equal(t, msg.Sender, loaded.Messages[i].Sender)
				assert.WithinDuration(t, msg.Timestamp, loaded.Messages[i].Timestamp, time.Millisecond)
			}
		})
	}
}

func TestSaveReplacesExistingSession(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			sess := domain.NewChatSession().AppendUserMessage("hello")
			require.NoError(t, repo.Save(ctx, 1, sess))

			grown := sess.AppendAssistantMessage("hi there")
			require.NoError(t, repo.Save(ctx, 1, grown))

			loaded, err := repo.FindByID(ctx, 1, sess.ID)
			require.NoError(t, err)
			assert.Len(t, loaded.Messages, 2)

			all, err := repo.FindByUserID(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestFindByUserIDOrdersByRecency(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			older := domain.NewChatSession().AppendUserMessage("older")
			require.NoError(t, repo.Save(ctx, 1, older))

			time.Sleep(10 * time.Millisecond)

			newer := domain.NewChatSession().AppendUserMessage("newer")
			require.NoError(t, repo.Save(ctx, 1, newer))

			sessions, err := repo.FindByUserID(ctx, 1)
			require.NoError(t, err)
			require.Len(t, sessions, 2)
			assert.Equal(t, newer.ID, sessions[0].ID)
			assert.Equal(t, older.ID, sessions[1].ID)
		})
	}
}

func TestFindByUserIDScopedToOwner(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			mine := domain.NewChatSession().AppendUserMessage("mine")
			theirs := domain.NewChatSession().AppendUserMessage("theirs")
			require.NoError(t, repo.Save(ctx, 1, mine))
			require.NoError(t, repo.Save(ctx, 2, theirs))

			sessions, err := repo.FindByUserID(ctx, 1)
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			assert.Equal(t, mine.ID, sessions[0].ID)

			// Owner scoping also applies to point lookups.
			_, err = repo.FindByID(ctx, 1, theirs.ID)
			assert.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func TestDeleteSession(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			sess := domain.NewChatSession().AppendUserMessage("hello")
			require.NoError(t, repo.Save(ctx, 1, sess))
			require.NoError(t, repo.Delete(ctx, 1, sess.ID))

			_, err := repo.FindByID(ctx, 1, sess.ID)
			assert.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func TestDeleteMissingSession(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			err := repo.Delete(context.Background(), 1, "session-does-not-exist")
			assert.Error(t, err)
		})
	}
}

func TestFindByUserIDEmpty(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			sessions, err := repo.FindByUserID(context.Background(), 42)
			require.NoError(t, err)
			assert.Empty(t, sessions)
		})
	}
}

func TestGormDeleteForeignSessionIsUnauthorized(t *testing.T) {
	repo := NewGormSessionRepository(newTestDB(t))
	ctx := context.Background()

	sess := domain.NewChatSession().AppendUserMessage("hello")
	require.NoError(t, repo.Save(ctx, 1, sess))

	err := repo.Delete(ctx, 2, sess.ID)
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)

	// Still there for the real owner.
	_, err = repo.FindByID(ctx, 1, sess.ID)
	assert.NoError(t, err)
}

func TestFileStoreCorruptBlobFallsBackToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	repo := NewFileSessionRepository(path)
	sessions, err := repo.FindByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// A save rewrites the blob and subsequent reads work again.
	sess := domain.NewChatSession().AppendUserMessage("fresh start")
	require.NoError(t, repo.Save(context.Background(), 1, sess))

	loaded, err := repo.FindByID(context.Background(), 1, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh start", loaded.Messages[0].Content)
}
