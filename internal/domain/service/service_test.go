package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	qr "github.com/Badsnus/tabqr/pkg/qrcode"
)

var errStorageDown = errors.New("storage down")

func testLogger() *types.Logger {
	return types.Nop("test")
}

type memorySettings struct {
	mu      sync.Mutex
	items   map[string]entity.StoredSettings
	failGet bool
	failSet bool
}

func newMemorySettings() *memorySettings {
	return &memorySettings{items: make(map[string]entity.StoredSettings)}
}

func (m *memorySettings) Get(_ context.Context, profileID string) (entity.StoredSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return entity.StoredSettings{}, errStorageDown
	}
	return m.items[profileID], nil
}

func (m *memorySettings) Set(_ context.Context, profileID string, settings entity.StoredSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errStorageDown
	}
	m.items[profileID] = settings
	return nil
}

type memoryLogos struct {
	mu    sync.Mutex
	items map[string]entity.LogoAsset
	fail  bool
}

func newMemoryLogos() *memoryLogos {
	return &memoryLogos{items: make(map[string]entity.LogoAsset)}
}

func (m *memoryLogos) Set(_ context.Context, sessionID string, logo entity.LogoAsset, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStorageDown
	}
	m.items[sessionID] = logo
	return nil
}

func (m *memoryLogos) Get(_ context.Context, sessionID string) (*entity.LogoAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStorageDown
	}
	logo, ok := m.items[sessionID]
	if !ok {
		return nil, nil
	}
	return &logo, nil
}

func (m *memoryLogos) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, sessionID)
	return nil
}

type memoryExports struct {
	mu    sync.Mutex
	items []entity.Export
	fail  bool
}

func (m *memoryExports) Create(_ context.Context, export *entity.Export) (*entity.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStorageDown
	}
	m.items = append(m.items, *export)
	return export, nil
}

func (m *memoryExports) GetByProfile(_ context.Context, profileID string, offset, limit int) ([]entity.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Export
	for _, e := range m.items {
		if e.ProfileID == profileID {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryExports) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memoryExports) CountByProfile(ctx context.Context, profileID string) (int64, error) {
	items, err := m.GetByProfile(ctx, profileID, 0, 1<<30)
	return int64(len(items)), err
}

type sentMail struct {
	to, filename string
	data         []byte
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendExport(to, filename string, png []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, filename: filename, data: png})
	return nil
}

func redLogo() entity.LogoAsset {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 255, A: 255}}, image.Point{}, draw.Src)
	data, err := qr.EncodePNG(img)
	if err != nil {
		panic(err)
	}
	return entity.LogoAsset{Name: "red.png", Data: data}
}

func newTestPopup() (*PopupService, *memorySettings, *memoryLogos) {
	settings := newMemorySettings()
	logos := newMemoryLogos()
	logger := testLogger()
	popup := NewPopupService(
		NewSettingsService(settings, logger),
		NewRenderService(qr.Classic, logger),
		logos,
		time.Hour,
		logger,
	)
	return popup, settings, logos
}
