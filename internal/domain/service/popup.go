package service

import (
	"context"
	"errors"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/pkg/logger/types"
)

const (
	PlaceholderSource   = "Failed to get current tab URL"
	PlaceholderEncoding = "Failed to render QR code: the text does not fit the selected error correction level"
	PlaceholderGeneric  = "Failed to render QR code"
)

// LogoStorage keeps the logo of a popup session until the session ends.
type LogoStorage interface {
	Set(ctx context.Context, sessionID string, logo entity.LogoAsset, expiration time.Duration) error
	// Get returns nil and no error when the session has no logo.
	Get(ctx context.Context, sessionID string) (*entity.LogoAsset, error)
	Clear(ctx context.Context, sessionID string) error
}

type popupSettingsService interface {
	Load(ctx context.Context, profileID string) (entity.RenderSettings, entity.SettingsDiagnostics)
	Apply(ctx context.Context, profileID string, requested entity.RenderSettings) ApplyResult
}

type popupRenderService interface {
	Render(text string, settings entity.RenderSettings, logo *entity.LogoAsset) (*entity.RenderedImage, error)
}

type PopupService struct {
	settingsService popupSettingsService
	renderService   popupRenderService
	logoStorage     LogoStorage
	sessionTTL      time.Duration
	logger          *types.Logger
}

func NewPopupService(
	settingsService popupSettingsService,
	renderService popupRenderService,
	logoStorage LogoStorage,
	sessionTTL time.Duration,
	logger *types.Logger,
) *PopupService {
	return &PopupService{
		settingsService: settingsService,
		renderService:   renderService,
		logoStorage:     logoStorage,
		sessionTTL:      sessionTTL,
		logger:          logger,
	}
}

// Open builds the state of a freshly opened popup: persisted settings merged
// over the defaults and the session logo, if one survives.
func (s *PopupService) Open(ctx context.Context, sessionID, profileID, text string) entity.PopupState {
	settings, diag := s.settingsService.Load(ctx, profileID)
	state := entity.PopupState{
		SessionID:   sessionID,
		ProfileID:   profileID,
		Text:        text,
		Settings:    settings,
		Diagnostics: diag,
	}

	logo, err := s.logoStorage.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warnf("(session: %s) failed to restore logo: %v", sessionID, err)
	} else {
		state.Logo = logo
	}

	s.logger.Infof("(session: %s) popup opened for %q", sessionID, text)
	return state
}

// Apply validates and persists requested and returns the updated state.
func (s *PopupService) Apply(ctx context.Context, state entity.PopupState, requested entity.RenderSettings) (entity.PopupState, ApplyResult) {
	result := s.settingsService.Apply(ctx, state.ProfileID, requested)
	state.Settings = result.Settings
	state.Diagnostics = result.Diagnostics
	s.logger.Infof("(session: %s) settings applied: %+v (persisted: %t)", state.SessionID, result.Settings, result.Persisted)
	return state, result
}

// SelectLogo attaches logo to the session. The bytes are decoded only when
// rendering, so a broken file degrades to a render without logo.
func (s *PopupService) SelectLogo(ctx context.Context, state entity.PopupState, logo entity.LogoAsset) entity.PopupState {
	if !logo.Available() {
		return s.ClearLogo(ctx, state)
	}

	if err := s.logoStorage.Set(ctx, state.SessionID, logo, s.sessionTTL); err != nil {
		s.logger.Warnf("(session: %s) logo kept for this request only: %v", state.SessionID, err)
	}
	state.Logo = &logo
	s.logger.Infof("(session: %s) logo selected: %s (%d bytes)", state.SessionID, logo.Name, len(logo.Data))
	return state
}

func (s *PopupService) ClearLogo(ctx context.Context, state entity.PopupState) entity.PopupState {
	if err := s.logoStorage.Clear(ctx, state.SessionID); err != nil {
		s.logger.Warnf("(session: %s) failed to clear logo: %v", state.SessionID, err)
	}
	state.Logo = nil
	return state
}

// Close ends the session. The logo does not outlive it.
func (s *PopupService) Close(ctx context.Context, state entity.PopupState) {
	s.ClearLogo(ctx, state)
	s.logger.Infof("(session: %s) popup closed", state.SessionID)
}

// Render renders state onto surface under seq and returns what the surface
// shows afterwards. seq must come from surface.Begin when state was taken, so
// a render that finishes after a newer request's render is discarded.
func (s *PopupService) Render(state entity.PopupState, surface *Surface, seq uint64) entity.Frame {
	frame := entity.Frame{Seq: seq}

	img, err := s.renderService.Render(state.Text, state.Settings, state.Logo)
	if err != nil {
		s.logger.Errorf("(session: %s) render failed: %v", state.SessionID, err)
		frame.Placeholder = Placeholder(err)
	} else {
		frame.Image = img
	}

	if !surface.Present(frame) {
		s.logger.Debugf("(session: %s) discarded stale render #%d", state.SessionID, frame.Seq)
	}
	return surface.Current()
}

// Fail replaces the surface content with the placeholder for err.
func (s *PopupService) Fail(state entity.PopupState, surface *Surface, err error) entity.Frame {
	s.logger.Errorf("(session: %s) %v", state.SessionID, err)
	surface.Present(entity.Frame{Seq: surface.Begin(), Placeholder: Placeholder(err)})
	return surface.Current()
}

// StartJanitor closes idle sessions every interval until ctx is done.
func (s *PopupService) StartJanitor(ctx context.Context, sessions *Sessions, interval time.Duration) {
	s.logger.Info("Starting popup session janitor")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				expired := sessions.Expire()
				for _, state := range expired {
					s.Close(context.Background(), state)
				}
				if len(expired) > 0 {
					s.logger.Debugf("expired %d popup sessions, %d open", len(expired), sessions.Len())
				}
			}
		}
	}()
}

// Placeholder is the text shown instead of a code after err.
func Placeholder(err error) string {
	switch {
	case errors.Is(err, errorz.ErrSourceResolution):
		return PlaceholderSource
	case errors.Is(err, errorz.ErrEncoding):
		return PlaceholderEncoding
	default:
		return PlaceholderGeneric
	}
}
