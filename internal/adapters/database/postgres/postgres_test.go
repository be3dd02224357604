package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Migrations...))
	return db
}

func TestSettingsStorage_Missing(t *testing.T) {
	s := NewSettingsStorage(newTestDB(t))

	stored, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.StoredSettings{}, stored)
}

func TestSettingsStorage_Upsert(t *testing.T) {
	s := NewSettingsStorage(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "p1", entity.DefaultSettings().Stored()))
	want := entity.RenderSettings{Size: 300, ErrorCorrection: "Q", LogoScalePercent: 40}
	require.NoError(t, s.Set(ctx, "p1", want.Stored()))

	stored, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	got, diag := stored.Resolve()
	assert.Equal(t, want, got)
	assert.True(t, diag.Clean())

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSettingsStorage_PartialUpdateKeepsOtherKeys(t *testing.T) {
	s := NewSettingsStorage(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "p1", entity.RenderSettings{Size: 400, ErrorCorrection: "L", LogoScalePercent: 5}.Stored()))
	ec := "H"
	require.NoError(t, s.Set(ctx, "p1", entity.StoredSettings{EC: &ec}))

	stored, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	got, _ := stored.Resolve()
	assert.Equal(t, entity.RenderSettings{Size: 400, ErrorCorrection: "H", LogoScalePercent: 5}, got)
}

func TestExportStorage(t *testing.T) {
	s := NewExportStorage(newTestDB(t))
	ctx := context.Background()
	start := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	for i, profile := range []string{"p1", "p1", "p2", "p1"} {
		_, err := s.Create(ctx, &entity.Export{
			ID:        string(rune('a' + i)),
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
			ProfileID: profile,
			Filename:  "qr.png",
			Size:      240,
			EC:        "M",
			Channel:   entity.ChannelDownload,
		})
		require.NoError(t, err)
	}

	history, err := s.GetByProfile(ctx, "p1", 0, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "d", history[0].ID)
	assert.Equal(t, "b", history[1].ID)

	history, err = s.GetByProfile(ctx, "p1", 2, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].ID)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	mine, err := s.CountByProfile(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine)
}
