// File: internal/repository/session/gorm_session_repository.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/venkyai/venky-chat/internal/domain"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrUnauthorizedAccess = errors.New("unauthorized access to session")
)

// sessionRecord is the stored shape of a chat session: one row per
// session with the message list serialized as a JSON document, so that
// every save replaces the whole conversation at once.
type sessionRecord struct {
	ID        string `gorm:"primarykey"`
	UserID    uint   `gorm:"index;not null"`
	Title     string
	Messages  string `gorm:"not null"` // JSON-encoded []domain.Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (sessionRecord) TableName() string { return "chat_sessions" }

type gormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) SessionRepository {
	return &gormSessionRepository{db: db}
}

// Migrate creates the chat_sessions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&sessionRecord{})
}

func (r *gormSessionRepository) Save(ctx context.Context, userID uint, session domain.ChatSession) error {
	if userID == 0 {
		return errors.New("invalid user ID")
	}
	if session.ID == "" {
		return errors.New("session ID is required")
	}

	encoded, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("encoding session messages: %w", err)
	}

	record := sessionRecord{
		ID:        session.ID,
		UserID:    userID,
		Title:     session.Title,
		Messages:  string(encoded),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}

	// Whole-document upsert: the stored copy is replaced, last write wins.
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&record).Error
	if err != nil {
		log.Printf("[SessionRepository] Database error saving session %s for user %d: %v", session.ID, userID, err)
		return errors.New("database error saving session")
	}

	return nil
}

func (r *gormSessionRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.ChatSession, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var records []sessionRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		log.Printf("[SessionRepository] Database error finding sessions for user %d: %v", userID, err)
		return nil, errors.New("database error fetching sessions")
	}

	sessions := make([]domain.ChatSession, 0, len(records))
	for _, record := range records {
		session, err := record.toDomain()
		if err != nil {
			log.Printf("[SessionRepository] Skipping corrupt session %s: %v", record.ID, err)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *gormSessionRepository) FindByID(ctx context.Context, userID uint, sessionID string) (*domain.ChatSession, error) {
	if userID == 0 || sessionID == "" {
		return nil, errors.New("invalid user or session ID")
	}

	var record sessionRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		log.Printf("[SessionRepository] Database error finding session %s: %v", sessionID, err)
		return nil, errors.New("database error fetching session")
	}

	session, err := record.toDomain()
	if err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (r *gormSessionRepository) Delete(ctx context.Context, userID uint, sessionID string) error {
	if userID == 0 || sessionID == "" {
		return errors.New("invalid user or session ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&sessionRecord{})
	if result.Error != nil {
		log.Printf("[SessionRepository] Database error deleting session %s for user %d: %v", sessionID, userID, result.Error)
		return errors.New("database error deleting session")
	}
	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}
	return nil
}

func (record sessionRecord) toDomain() (domain.ChatSession, error) {
	var messages []domain.Message
	if err := json.Unmarshal([]byte(record.Messages), &messages); err != nil {
		return domain.ChatSession{}, err
	}
	return domain.ChatSession{
		ID:        record.ID,
		Title:     record.Title,
		Messages:  messages,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}, nil
}
