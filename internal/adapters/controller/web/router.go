package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/internal/domain/service"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type popupService interface {
	Open(ctx context.Context, sessionID, profileID, text string) entity.PopupState
	Apply(ctx context.Context, state entity.PopupState, requested entity.RenderSettings) (entity.PopupState, service.ApplyResult)
	SelectLogo(ctx context.Context, state entity.PopupState, logo entity.LogoAsset) entity.PopupState
	ClearLogo(ctx context.Context, state entity.PopupState) entity.PopupState
	Close(ctx context.Context, state entity.PopupState)
	Render(state entity.PopupState, surface *service.Surface, seq uint64) entity.Frame
	Fail(state entity.PopupState, surface *service.Surface, err error) entity.Frame
}

type exportService interface {
	Export(ctx context.Context, profileID, channel string, img *entity.RenderedImage) (*service.ExportFile, error)
	Mail(ctx context.Context, profileID, to string, img *entity.RenderedImage) (*service.ExportFile, error)
	History(ctx context.Context, profileID string, offset, limit int) ([]entity.Export, error)
	CountByProfile(ctx context.Context, profileID string) (int64, error)
}

// Server holds the dependencies for the popup handlers.
type Server struct {
	popupService  popupService
	exportService exportService
	sessions      *service.Sessions
	logger        *types.Logger
	opts          Options
}

type Options struct {
	// SecureCookies marks the session and profile cookies Secure.
	SecureCookies bool
	// MaxLogoBytes limits the uploaded logo size.
	MaxLogoBytes int64
	// ProfileTTL is the lifetime of the profile cookie.
	ProfileTTL time.Duration
}

func NewServer(popup popupService, export exportService, sessions *service.Sessions, logger *types.Logger, opts Options) *Server {
	if opts.MaxLogoBytes <= 0 {
		opts.MaxLogoBytes = 5 << 20
	}
	if opts.ProfileTTL <= 0 {
		opts.ProfileTTL = 365 * 24 * time.Hour
	}
	return &Server{
		popupService:  popup,
		exportService: export,
		sessions:      sessions,
		logger:        logger,
		opts:          opts,
	}
}

// NewRouter returns a chi router with the popup page and its API.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/popup.html", s.handlePopupPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/apply", s.handleApply)
		r.Post("/logo", s.handleSelectLogo)
		r.Delete("/logo", s.handleClearLogo)
		r.Delete("/session", s.handleClose)

		r.Get("/qr.png", s.handleImage)
		r.Get("/download", s.handleDownload)
		r.Post("/export/mail", s.handleMail)
		r.Get("/exports", s.handleExports)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// --- middleware --------------------------------------------------------------

func requestLogger(log *types.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debugf("%s %s (remote: %s)", r.Method, r.URL.Path, r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}
