// File: internal/repository/assistant/gorm_config_repository.go
package assistant

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/venkyai/venky-chat/internal/domain"
)

var ErrConfigNotFound = errors.New("assistant config not found")

type gormConfigRepository struct {
	db *gorm.DB
}

func NewGormConfigRepository(db *gorm.DB) ConfigRepository {
	return &gormConfigRepository{db: db}
}

// Migrate creates the assistant_configs table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.AssistantConfig{})
}

func (r *gormConfigRepository) Get(ctx context.Context) (*domain.AssistantConfig, error) {
	var config domain.AssistantConfig
	err := r.db.WithContext(ctx).
		Where("key = ?", domain.AssistantConfigKey).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		log.Printf("[AssistantConfigRepository] Database error reading config: %v", err)
		return nil, errors.New("database error reading assistant config")
	}
	return &config, nil
}

func (r *gormConfigRepository) Put(ctx context.Context, config *domain.AssistantConfig) error {
	if config == nil {
		return errors.New("config is required")
	}
	config.Key = domain.AssistantConfigKey

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(config).Error
	if err != nil {
		log.Printf("[AssistantConfigRepository] Database error writing config: %v", err)
		return errors.New("database error writing assistant config")
	}
	return nil
}
