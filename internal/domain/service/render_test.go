package service

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	qr "github.com/Badsnus/tabqr/pkg/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRenderer struct{}

func (failingRenderer) Encode(string, int, int, qr.Level) (image.Image, error) {
	return nil, errors.New("content too long")
}

func TestRender_NoLogo(t *testing.T) {
	s := NewRenderService(qr.Classic, testLogger())

	img, err := s.Render("https://example.com", entity.DefaultSettings(), nil)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 240, 240), img.Image.Bounds())
	assert.Equal(t, "https://example.com", img.Text)
	assert.False(t, img.Logo)
	assert.False(t, img.LogoDegraded)
}

func TestRender_EverySupportedPair(t *testing.T) {
	s := NewRenderService(qr.Classic, testLogger())

	for _, size := range entity.SupportedSizes {
		for _, ec := range entity.ErrorCorrections {
			img, err := s.Render("https://example.com/?q=1", entity.RenderSettings{Size: size, ErrorCorrection: ec}, nil)
			require.NoError(t, err)
			assert.Equal(t, size, img.Image.Bounds().Dx())
			assert.Equal(t, size, img.Image.Bounds().Dy())
		}
	}
}

func TestRender_UnsupportedSettingsFallBack(t *testing.T) {
	s := NewRenderService(qr.Classic, testLogger())

	img, err := s.Render("x", entity.RenderSettings{Size: 123, ErrorCorrection: "Z", LogoScalePercent: 500}, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.RenderSettings{Size: 240, ErrorCorrection: "M", LogoScalePercent: 100}, img.Settings)
	assert.Equal(t, 240, img.Image.Bounds().Dx())
}

func TestRender_EmptyText(t *testing.T) {
	s := NewRenderService(qr.Classic, testLogger())

	img, err := s.Render("", entity.DefaultSettings(), nil)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Image.Bounds().Dx())
}

func TestRender_EncodingFailure(t *testing.T) {
	s := NewRenderService(failingRenderer{}, testLogger())

	_, err := s.Render("x", entity.DefaultSettings(), nil)
	assert.ErrorIs(t, err, errorz.ErrEncoding)

	s = NewRenderService(qr.Classic, testLogger())
	_, err = s.Render(strings.Repeat("too long ", 500), entity.RenderSettings{Size: 240, ErrorCorrection: "H"}, nil)
	assert.ErrorIs(t, err, errorz.ErrEncoding)
}

func TestRender_WithLogo(t *testing.T) {
	s := NewRenderService(qr.Classic, testLogger())
	logo := redLogo()

	img, err := s.Render("https://example.com", entity.RenderSettings{Size: 300, ErrorCorrection: "H", LogoScalePercent: 30}, &logo)
	require.NoError(t, err)

	assert.True(t, img.Logo)
	c := img.Image.RGBAAt(150, 150)
	assert.Greater(t, c.R, uint8(150))
	assert.Less(t, c.G, uint8(100))
	assert.Less(t, c.B, uint8(100))
}

func TestRender_BrokenLogoDegradesToBareCode(t *testing.T) {
	s := NewRenderService(qr.Classic, testLogger())
	broken := entity.LogoAsset{Name: "broken.png", Data: []byte("not a png")}

	withLogo, err := s.Render("https://example.com", entity.DefaultSettings(), &broken)
	require.NoError(t, err)
	bare, err := s.Render("https://example.com", entity.DefaultSettings(), nil)
	require.NoError(t, err)

	assert.True(t, withLogo.LogoDegraded)
	assert.False(t, withLogo.Logo)
	assert.Equal(t, bare.Image.Pix, withLogo.Image.Pix)
}

func TestRender_Deterministic(t *testing.T) {
	s := NewRenderService(qr.Classic, testLogger())
	logo := redLogo()
	settings := entity.RenderSettings{Size: 240, ErrorCorrection: "Q", LogoScalePercent: 25}

	a, err := s.Render("https://example.com", settings, &logo)
	require.NoError(t, err)
	b, err := s.Render("https://example.com", settings, &logo)
	require.NoError(t, err)

	assert.Equal(t, a.Image.Pix, b.Image.Pix)
}

func TestRender_OversizedLogoDegradesToBareCode(t *testing.T) {
	s := NewRenderService(qr.Classic, testLogger())
	data, err := qr.EncodePNG(image.NewGray(image.Rect(0, 0, qr.MaxLogoSide+1, 1)))
	require.NoError(t, err)
	huge := entity.LogoAsset{Name: "huge.png", Data: data}

	img, err := s.Render("https://example.com", entity.DefaultSettings(), &huge)
	require.NoError(t, err)
	assert.True(t, img.LogoDegraded)
	assert.False(t, img.Logo)
	assert.Equal(t, 240, img.Image.Bounds().Dx())
}
