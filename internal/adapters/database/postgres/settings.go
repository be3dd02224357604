package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsStorage struct {
	db *gorm.DB
}

func NewSettingsStorage(db *gorm.DB) *settingsStorage {
	return &settingsStorage{
		db: db,
	}
}

// Get is a function that gets the stored settings of a profile. A profile
// without a record gets empty settings.
func (s *settingsStorage) Get(ctx context.Context, profileID string) (entity.StoredSettings, error) {
	var record entity.SettingsRecord
	err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.StoredSettings{}, nil
	}
	if err != nil {
		return entity.StoredSettings{}, err
	}
	return record.Stored(), nil
}

// Set is a function that upserts the settings of a profile. Keys absent from
// settings keep their stored value.
func (s *settingsStorage) Set(ctx context.Context, profileID string, settings entity.StoredSettings) error {
	record := entity.SettingsRecord{
		ProfileID: profileID,
		Size:      settings.Size,
		EC:        settings.EC,
		LogoScale: settings.LogoScale,
		UpdatedAt: time.Now(),
	}

	columns := []string{"updated_at"}
	if settings.Size != nil {
		columns = append(columns, "size")
	}
	if settings.EC != nil {
		columns = append(columns, "ec")
	}
	if settings.LogoScale != nil {
		columns = append(columns, "logo_scale")
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&record).Error
}

// Count is a function that gets the count of profiles with stored settings.
func (s *settingsStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.SettingsRecord{}).Count(&count).Error
	return count, err
}
