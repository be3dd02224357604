package popups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Popup is the part of a chat popup that must survive between two button
// presses.
type Popup struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	MessageID int    `json:"messageId,omitempty"`
}

// Storage remembers the popup a chat user is working with.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// Get returns the popup of userID. ok is false when there is none.
func (s *Storage) Get(ctx context.Context, userID int64) (popup Popup, ok bool, err error) {
	data, err := s.redis.Get(ctx, fmt.Sprintf("%d", userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Popup{}, false, nil
		}
		return Popup{}, false, err
	}

	if err = json.Unmarshal(data, &popup); err != nil {
		return Popup{}, false, err
	}
	return popup, true, nil
}

func (s *Storage) Set(ctx context.Context, userID int64, popup Popup, expiration time.Duration) error {
	data, err := json.Marshal(popup)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, fmt.Sprintf("%d", userID), data, expiration).Err()
}

func (s *Storage) Clear(ctx context.Context, userID int64) {
	s.redis.Del(ctx, fmt.Sprintf("%d", userID))
}
