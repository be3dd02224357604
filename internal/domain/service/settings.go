package service

import (
	"context"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/pkg/logger/types"
)

type SettingsStorage interface {
	Get(ctx context.Context, profileID string) (entity.StoredSettings, error)
	Set(ctx context.Context, profileID string, settings entity.StoredSettings) error
}

type SettingsService struct {
	storage SettingsStorage
	logger  *types.Logger
}

func NewSettingsService(storage SettingsStorage, logger *types.Logger) *SettingsService {
	return &SettingsService{
		storage: storage,
		logger:  logger,
	}
}

// ApplyResult is the outcome of an apply action.
type ApplyResult struct {
	Settings    entity.RenderSettings
	Diagnostics entity.SettingsDiagnostics
	// Persisted is false when the store rejected the write. The settings
	// still apply to the current session.
	Persisted bool
}

// Load returns the stored settings merged over the defaults. A storage error
// is logged and the defaults are used.
func (s *SettingsService) Load(ctx context.Context, profileID string) (entity.RenderSettings, entity.SettingsDiagnostics) {
	stored, err := s.storage.Get(ctx, profileID)
	if err != nil {
		s.logger.Errorf("(profile: %s) failed to load settings, using defaults: %v", profileID, err)
		stored = entity.StoredSettings{}
	}

	settings, diag := stored.Resolve()
	if !diag.Clean() {
		s.logger.Warnf("(profile: %s) stored settings out of range, defaults used for %v", profileID, diag.Substituted)
	}
	return settings, diag
}

// Apply normalizes requested and persists it. Persistence failures are
// logged and reported through ApplyResult.Persisted only.
func (s *SettingsService) Apply(ctx context.Context, profileID string, requested entity.RenderSettings) ApplyResult {
	settings, diag := requested.Normalize()
	result := ApplyResult{
		Settings:    settings,
		Diagnostics: diag,
		Persisted:   true,
	}

	if err := s.storage.Set(ctx, profileID, settings.Stored()); err != nil {
		s.logger.Errorf("(profile: %s) %v: %v", profileID, errorz.ErrPersistence, err)
		result.Persisted = false
	}
	return result
}
