package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

// Storage keeps the render settings of each profile in a hash with the
// fields size, ec and logoScale. A missing field means the default applies.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func key(profileID string) string {
	return "settings:" + profileID
}

func (s *Storage) Get(ctx context.Context, profileID string) (entity.StoredSettings, error) {
	fields, err := s.redis.HGetAll(ctx, key(profileID)).Result()
	if err != nil {
		return entity.StoredSettings{}, err
	}

	var stored entity.StoredSettings
	if v, ok := fields[entity.FieldSize]; ok {
		stored.Size = parseInt(v)
	}
	if v, ok := fields[entity.FieldEC]; ok {
		stored.EC = &v
	}
	if v, ok := fields[entity.FieldLogoScale]; ok {
		stored.LogoScale = parseInt(v)
	}
	return stored, nil
}

// Set writes every present key of settings in one command.
func (s *Storage) Set(ctx context.Context, profileID string, settings entity.StoredSettings) error {
	var values []any
	if settings.Size != nil {
		values = append(values, entity.FieldSize, *settings.Size)
	}
	if settings.EC != nil {
		values = append(values, entity.FieldEC, *settings.EC)
	}
	if settings.LogoScale != nil {
		values = append(values, entity.FieldLogoScale, *settings.LogoScale)
	}
	if len(values) == 0 {
		return nil
	}

	if err := s.redis.HSet(ctx, key(profileID), values...).Err(); err != nil {
		return fmt.Errorf("failed to save settings of %s: %w", profileID, err)
	}
	return nil
}

// parseInt maps garbage to an out of range value so it gets reported and
// replaced on resolve.
func parseInt(v string) *int {
	n, err := strconv.Atoi(v)
	if err != nil {
		n = -1
	}
	return &n
}
