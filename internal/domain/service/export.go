package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	qr "github.com/Badsnus/tabqr/pkg/qrcode"
	"github.com/google/uuid"
)

type ExportStorage interface {
	Create(ctx context.Context, export *entity.Export) (*entity.Export, error)
	GetByProfile(ctx context.Context, profileID string, offset, limit int) ([]entity.Export, error)
	Count(ctx context.Context) (int64, error)
	CountByProfile(ctx context.Context, profileID string) (int64, error)
}

// Mailer delivers an exported image by e-mail.
type Mailer interface {
	SendExport(to, filename string, png []byte) error
}

// ExportListener is told about every export after it is recorded.
type ExportListener func(export entity.Export)

type ExportService struct {
	storage   ExportStorage
	mailer    Mailer
	listeners []ExportListener
	logger    *types.Logger
	now       func() time.Time
}

func NewExportService(storage ExportStorage, logger *types.Logger) *ExportService {
	return &ExportService{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// WithMailer enables Mail.
func (s *ExportService) WithMailer(mailer Mailer) *ExportService {
	s.mailer = mailer
	return s
}

// WithListener registers l for future exports.
func (s *ExportService) WithListener(l ExportListener) *ExportService {
	s.listeners = append(s.listeners, l)
	return s
}

// ExportFile is a PNG ready to be handed to the user.
type ExportFile struct {
	Filename string
	Data     []byte
	Record   *entity.Export
}

var filenameReplacer = strings.NewReplacer(":", "-", ".", "-")

// Filename returns qr-<ISO-8601 UTC timestamp>.png with ':' and '.' replaced
// by '-', e.g. qr-2026-10-15T12-34-56-789Z.png.
func Filename(t time.Time) string {
	return "qr-" + filenameReplacer.Replace(t.UTC().Format("2006-01-02T15:04:05.000Z")) + ".png"
}

// Export encodes img as PNG and records it in the history. A failure to
// record is logged only.
func (s *ExportService) Export(ctx context.Context, profileID, channel string, img *entity.RenderedImage) (*ExportFile, error) {
	if img == nil || img.Image == nil {
		return nil, errorz.ErrNothingRendered
	}

	data, err := qr.EncodePNG(img.Image)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	now := s.now()
	record := &entity.Export{
		ID:        uuid.New().String(),
		CreatedAt: now,
		ProfileID: profileID,
		Filename:  Filename(now),
		Text:      img.Text,
		Size:      img.Settings.Size,
		EC:        string(img.Settings.ErrorCorrection),
		LogoScale: img.Settings.LogoScalePercent,
		HasLogo:   img.Logo,
		Bytes:     len(data),
		Channel:   channel,
	}
	if _, err = s.storage.Create(ctx, record); err != nil {
		s.logger.Errorf("(profile: %s) failed to record export %s: %v", profileID, record.Filename, err)
	}

	s.logger.Infof("(profile: %s) exported %s (%d bytes, %s)", profileID, record.Filename, len(data), channel)
	for _, l := range s.listeners {
		l(*record)
	}
	return &ExportFile{
		Filename: record.Filename,
		Data:     data,
		Record:   record,
	}, nil
}

// Mail exports img and sends it to the given address.
func (s *ExportService) Mail(ctx context.Context, profileID, to string, img *entity.RenderedImage) (*ExportFile, error) {
	if s.mailer == nil {
		return nil, errorz.ErrMailDisabled
	}

	file, err := s.Export(ctx, profileID, entity.ChannelMail, img)
	if err != nil {
		return nil, err
	}
	if err = s.mailer.SendExport(to, file.Filename, file.Data); err != nil {
		return nil, fmt.Errorf("send %s: %w", file.Filename, err)
	}
	return file, nil
}

func (s *ExportService) History(ctx context.Context, profileID string, offset, limit int) ([]entity.Export, error) {
	return s.storage.GetByProfile(ctx, profileID, offset, limit)
}

func (s *ExportService) Count(ctx context.Context) (int64, error) {
	return s.storage.Count(ctx)
}

func (s *ExportService) CountByProfile(ctx context.Context, profileID string) (int64, error) {
	return s.storage.CountByProfile(ctx, profileID)
}
