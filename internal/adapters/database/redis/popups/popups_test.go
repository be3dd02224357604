package popups

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewStorage(client)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	want := Popup{SessionID: "s1", Text: "https://example.com", MessageID: 7}
	require.NoError(t, s.Set(ctx, 42, want, time.Hour))

	got, ok, err := s.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	assert.Greater(t, mr.TTL("42"), time.Duration(0))

	s.Clear(ctx, 42)
	_, ok, err = s.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	require.NoError(t, mr.Set("42", "{not json"))

	_, _, err := NewStorage(client).Get(context.Background(), 42)
	assert.Error(t, err)
}
