package postgres

import (
	"context"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"gorm.io/gorm"
)

type exportStorage struct {
	db *gorm.DB
}

func NewExportStorage(db *gorm.DB) *exportStorage {
	return &exportStorage{
		db: db,
	}
}

// Create is a function that records a new export in the database.
func (s *exportStorage) Create(ctx context.Context, export *entity.Export) (*entity.Export, error) {
	err := s.db.WithContext(ctx).Create(export).Error
	return export, err
}

// GetByProfile is a function that gets the exports of a profile, newest first, with pagination.
func (s *exportStorage) GetByProfile(ctx context.Context, profileID string, offset, limit int) ([]entity.Export, error) {
	var exports []entity.Export
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&exports).Error
	return exports, err
}

// Count is a function that gets the count of all exports.
func (s *exportStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Export{}).Count(&count).Error
	return count, err
}

// CountByProfile is a function that gets the count of exports of a profile.
func (s *exportStorage) CountByProfile(ctx context.Context, profileID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Export{}).Where("profile_id = ?", profileID).Count(&count).Error
	return count, err
}
