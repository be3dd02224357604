package service

import (
	"fmt"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	qr "github.com/Badsnus/tabqr/pkg/qrcode"
)

type RenderService struct {
	renderer qr.Renderer
	logger   *types.Logger
}

func NewRenderService(renderer qr.Renderer, logger *types.Logger) *RenderService {
	return &RenderService{
		renderer: renderer,
		logger:   logger,
	}
}

// Render produces the final image for text. Unsupported settings fall back to
// the defaults. A logo that cannot be decoded is dropped and the bare code is
// returned with LogoDegraded set. Encoding failures wrap errorz.ErrEncoding.
func (s *RenderService) Render(text string, settings entity.RenderSettings, logo *entity.LogoAsset) (*entity.RenderedImage, error) {
	settings, diag := settings.Normalize()
	if !diag.Clean() {
		s.logger.Debugf("render settings replaced by defaults: %v", diag.Substituted)
	}

	base, err := s.renderer.Encode(text, settings.Size, settings.Size, settings.ErrorCorrection.Level())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrEncoding, err)
	}

	result := &entity.RenderedImage{
		Text:     text,
		Settings: settings,
	}

	if !logo.Available() {
		result.Image = qr.ToRGBA(base)
		return result, nil
	}

	composite, err := qr.Composite(base, logo.Data, settings.LogoScalePercent)
	if err != nil {
		s.logger.Warnf("logo %q dropped: %v", logo.Name, fmt.Errorf("%w: %v", errorz.ErrLogoDecode, err))
		result.Image = qr.ToRGBA(base)
		result.LogoDegraded = true
		return result, nil
	}

	result.Image = composite
	result.Logo = true
	return result, nil
}
