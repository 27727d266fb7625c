package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"aircon-bridge/internal/model"
)

// DefaultHistoryLimit caps RecentCommands when no limit is given.
const DefaultHistoryLimit = 50

// Store defines the interface for the command log.
type Store interface {
	RecordCommand(ctx context.Context, rec model.CommandRecord) error
	RecentCommands(ctx context.Context, entityID string, limit int) ([]model.CommandRecord, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// RecordCommand appends one command outcome to the log.
func (s *gormStore) RecordCommand(ctx context.Context, rec model.CommandRecord) error {
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record command %s for %s: %w", rec.Command, rec.EntityID, err)
	}
	return nil
}

// RecentCommands returns the newest commands for entityID, newest first.
func (s *gormStore) RecentCommands(ctx context.Context, entityID string, limit int) ([]model.CommandRecord, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	var records []model.CommandRecord
	err := s.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("issued_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load commands for %s: %w", entityID, err)
	}
	return records, nil
}
