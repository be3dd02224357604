package logos

import (
	"context"
	"testing"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStorage(client), mr
}

func TestStorage_None(t *testing.T) {
	s, _ := newTestStorage(t)

	logo, err := s.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, logo)
}

func TestStorage_SetGetClear(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	want := entity.LogoAsset{Name: "logo.png", Data: []byte{0x89, 'P', 'N', 'G', 0, 1, 2}}

	require.NoError(t, s.Set(ctx, "s1", want, time.Hour))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	require.NoError(t, s.Clear(ctx, "s1"))
	got, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_Replace(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", entity.LogoAsset{Name: "a.png", Data: []byte("aaaa")}, time.Hour))
	require.NoError(t, s.Set(ctx, "s1", entity.LogoAsset{Name: "b.svg", Data: []byte("bb")}, time.Hour))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "b.svg", got.Name)
	assert.Equal(t, []byte("bb"), got.Data)
}

func TestStorage_Expires(t *testing.T) {
	s, mr := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", entity.LogoAsset{Name: "a.png", Data: []byte("a")}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("logo:s1"))

	mr.FastForward(2 * time.Minute)
	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
