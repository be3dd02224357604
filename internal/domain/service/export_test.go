package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	qr "github.com/Badsnus/tabqr/pkg/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedForExport(t *testing.T) *entity.RenderedImage {
	t.Helper()
	img, err := NewRenderService(qr.Classic, testLogger()).Render("https://example.com", entity.DefaultSettings(), nil)
	require.NoError(t, err)
	return img
}

func fixedExportService(storage ExportStorage) *ExportService {
	s := NewExportService(storage, testLogger())
	s.now = func() time.Time {
		return time.Date(2026, 10, 15, 12, 34, 56, 789000000, time.UTC)
	}
	return s
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"millis", time.Date(2026, 10, 15, 12, 34, 56, 789000000, time.UTC), "qr-2026-10-15T12-34-56-789Z.png"},
		{"zero millis", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "qr-2024-01-02T03-04-05-000Z.png"},
		{"converted to utc", time.Date(2024, 1, 2, 5, 4, 5, 0, time.FixedZone("EET", 2*60*60)), "qr-2024-01-02T03-04-05-000Z.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.at))
		})
	}
}

func TestExport_Download(t *testing.T) {
	storage := &memoryExports{}
	s := fixedExportService(storage)

	file, err := s.Export(context.Background(), "p1", entity.ChannelDownload, renderedForExport(t))
	require.NoError(t, err)

	assert.Equal(t, "qr-2026-10-15T12-34-56-789Z.png", file.Filename)
	assert.Greater(t, len(file.Data), 100)

	decoded, err := png.Decode(bytes.NewReader(file.Data))
	require.NoError(t, err)
	assert.Equal(t, 240, decoded.Bounds().Dx())

	require.Len(t, storage.items, 1)
	record := storage.items[0]
	assert.Equal(t, "p1", record.ProfileID)
	assert.Equal(t, entity.ChannelDownload, record.Channel)
	assert.Equal(t, "M", record.EC)
	assert.Equal(t, len(file.Data), record.Bytes)
	assert.NotEmpty(t, record.ID)
}

func TestExport_NothingRendered(t *testing.T) {
	s := fixedExportService(&memoryExports{})

	_, err := s.Export(context.Background(), "p1", entity.ChannelDownload, nil)
	assert.ErrorIs(t, err, errorz.ErrNothingRendered)

	_, err = s.Export(context.Background(), "p1", entity.ChannelDownload, &entity.RenderedImage{})
	assert.ErrorIs(t, err, errorz.ErrNothingRendered)
}

func TestExport_RecordFailureIsAbsorbed(t *testing.T) {
	s := fixedExportService(&memoryExports{fail: true})

	file, err := s.Export(context.Background(), "p1", entity.ChannelDownload, renderedForExport(t))
	require.NoError(t, err)
	assert.NotEmpty(t, file.Data)
}

func TestExport_MailDisabled(t *testing.T) {
	s := fixedExportService(&memoryExports{})

	_, err := s.Mail(context.Background(), "p1", "a@example.com", renderedForExport(t))
	assert.ErrorIs(t, err, errorz.ErrMailDisabled)
}

func TestExport_Mail(t *testing.T) {
	storage := &memoryExports{}
	mailer := &fakeMailer{}
	s := fixedExportService(storage).WithMailer(mailer)

	file, err := s.Mail(context.Background(), "p1", "a@example.com", renderedForExport(t))
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@example.com", mailer.sent[0].to)
	assert.Equal(t, file.Filename, mailer.sent[0].filename)
	assert.Equal(t, file.Data, mailer.sent[0].data)
	assert.Equal(t, entity.ChannelMail, storage.items[0].Channel)
}

func TestExport_MailSendError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	s := fixedExportService(&memoryExports{}).WithMailer(mailer)

	_, err := s.Mail(context.Background(), "p1", "a@example.com", renderedForExport(t))
	assert.ErrorContains(t, err, "smtp down")
}

func TestExport_HistoryAndCounts(t *testing.T) {
	storage := &memoryExports{}
	s := fixedExportService(storage)
	ctx := context.Background()
	img := renderedForExport(t)

	for i := 0; i < 3; i++ {
		_, err := s.Export(ctx, "p1", entity.ChannelDownload, img)
		require.NoError(t, err)
	}
	_, err := s.Export(ctx, "p2", entity.ChannelChat, img)
	require.NoError(t, err)

	history, err := s.History(ctx, "p1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	mine, err := s.CountByProfile(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine)
}
