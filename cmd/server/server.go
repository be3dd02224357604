package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Badsnus/tabqr/internal/adapters/config"
	"github.com/Badsnus/tabqr/internal/adapters/controller/web"
	"github.com/Badsnus/tabqr/internal/adapters/database/postgres"
	"github.com/Badsnus/tabqr/internal/domain/service"
	"github.com/Badsnus/tabqr/pkg/logger"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	qr "github.com/Badsnus/tabqr/pkg/qrcode"
	"github.com/spf13/viper"
)

// Server serves the popup over HTTP.
type Server struct {
	http     *http.Server
	popup    *service.PopupService
	sessions *service.Sessions
	logger   *types.Logger
}

func New(cfg *config.Config) (*Server, error) {
	serverLogger, err := logger.Named("popup")
	if err != nil {
		return nil, err
	}

	settingsStorage, err := cfg.SettingsStorage()
	if err != nil {
		return nil, fmt.Errorf("settings storage: %w", err)
	}

	renderer, ok := qr.Presets[viper.GetString("popup.preset")]
	if !ok {
		renderer = qr.Classic
	}

	sessionTTL := viper.GetDuration("popup.session-ttl")
	popupService := service.NewPopupService(
		service.NewSettingsService(settingsStorage, serverLogger),
		service.NewRenderService(renderer, serverLogger),
		cfg.Redis.Logos,
		sessionTTL,
		serverLogger,
	)
	exportService := service.NewExportService(postgres.NewExportStorage(cfg.Database), serverLogger)
	if mailer := cfg.Mailer(); mailer != nil {
		exportService.WithMailer(mailer)
	}
	sessions := service.NewSessions(sessionTTL)

	handler := web.NewRouter(web.NewServer(popupService, exportService, sessions, serverLogger, web.Options{
		SecureCookies: viper.GetBool("popup.secure-cookies"),
		MaxLogoBytes:  viper.GetInt64("popup.max-logo-bytes"),
	}))

	return &Server{
		http: &http.Server{
			Addr:              viper.GetString("popup.addr"),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		popup:    popupService,
		sessions: sessions,
		logger:   serverLogger,
	}, nil
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.popup.StartJanitor(ctx, s.sessions, viper.GetDuration("popup.janitor-interval"))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Popup listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("popup shutdown: %w", err)
	}
	s.logger.Info("Popup stopped")
	return nil
}
