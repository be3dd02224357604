package logos

import (
	"context"
	"errors"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

const (
	fieldName = "name"
	fieldData = "data"
)

// Storage holds the logo of each popup session until it expires.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func key(sessionID string) string {
	return "logo:" + sessionID
}

func (s *Storage) Get(ctx context.Context, sessionID string) (*entity.LogoAsset, error) {
	values, err := s.redis.HMGet(ctx, key(sessionID), fieldName, fieldData).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	name, _ := values[0].(string)
	data, _ := values[1].(string)
	if data == "" {
		return nil, nil
	}
	return &entity.LogoAsset{Name: name, Data: []byte(data)}, nil
}

func (s *Storage) Set(ctx context.Context, sessionID string, logo entity.LogoAsset, expiration time.Duration) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key(sessionID))
		pipe.HSet(ctx, key(sessionID), fieldName, logo.Name, fieldData, logo.Data)
		if expiration > 0 {
			pipe.Expire(ctx, key(sessionID), expiration)
		}
		return nil
	})
	return err
}

func (s *Storage) Clear(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, key(sessionID)).Err()
}
