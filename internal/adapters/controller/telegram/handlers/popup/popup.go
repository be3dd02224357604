package popup

import (
	"bytes"
	"context"
	"html"
	"io"
	"time"

	"github.com/Badsnus/tabqr/cmd/bot"
	"github.com/Badsnus/tabqr/internal/adapters/database/postgres"
	"github.com/Badsnus/tabqr/internal/adapters/database/redis/popups"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/internal/domain/service"
	"github.com/Badsnus/tabqr/internal/domain/utils"
	"github.com/Badsnus/tabqr/internal/domain/utils/validator"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	qr "github.com/Badsnus/tabqr/pkg/qrcode"
	"github.com/google/uuid"
	"github.com/nlypage/intele"
	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v3"
)

type popupService interface {
	Open(ctx context.Context, sessionID, profileID, text string) entity.PopupState
	Apply(ctx context.Context, state entity.PopupState, requested entity.RenderSettings) (entity.PopupState, service.ApplyResult)
	SelectLogo(ctx context.Context, state entity.PopupState, logo entity.LogoAsset) entity.PopupState
	ClearLogo(ctx context.Context, state entity.PopupState) entity.PopupState
	Close(ctx context.Context, state entity.PopupState)
	Render(state entity.PopupState, surface *service.Surface, seq uint64) entity.Frame
}

type exportService interface {
	Export(ctx context.Context, profileID, channel string, img *entity.RenderedImage) (*service.ExportFile, error)
	Mail(ctx context.Context, profileID, to string, img *entity.RenderedImage) (*service.ExportFile, error)
	History(ctx context.Context, profileID string, offset, limit int) ([]entity.Export, error)
	CountByProfile(ctx context.Context, profileID string) (int64, error)
}

// popupLayout is implemented by *layout.Layout.
type popupLayout interface {
	Text(c tele.Context, k string, args ...interface{}) string
	Button(c tele.Context, k string, args ...interface{}) *tele.Btn
	Markup(c tele.Context, k string, args ...interface{}) *tele.ReplyMarkup
	Callback(k string) tele.CallbackEndpoint
}

// botAPI is the part of *tele.Bot the popup needs besides the context.
type botAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	File(file *tele.File) (io.ReadCloser, error)
}

type Handler struct {
	layout popupLayout
	logger *types.Logger
	input  *intele.InputManager
	bot    botAPI

	popups        *popups.Storage
	popupService  popupService
	exportService exportService

	sessionTTL   time.Duration
	maxLogoBytes int64
}

func New(b *bot.Bot) *Handler {
	sessionTTL := viper.GetDuration("popup.session-ttl")

	renderer, ok := qr.Presets[viper.GetString("popup.preset")]
	if !ok {
		renderer = qr.Classic
	}

	exportService := service.NewExportService(postgres.NewExportStorage(b.DB), b.Logger)
	if b.Mailer != nil {
		exportService.WithMailer(b.Mailer)
	}
	if viper.GetBool("settings.logging.notify-exports") {
		notifyService := service.NewNotifyService(b.Bot, b.Layout, b.Logger)
		listener, err := notifyService.ExportListener(
			viper.GetInt64("settings.logging.channel-id"),
			viper.GetString("settings.logging.locale"),
		)
		if err != nil {
			b.Logger.Errorf("failed to create export listener: %v", err)
		} else {
			exportService.WithListener(listener)
		}
	}

	return &Handler{
		layout: b.Layout,
		logger: b.Logger,
		input:  b.Input,
		bot:    b.Bot,
		popups: b.Redis.Popups,
		popupService: service.NewPopupService(
			service.NewSettingsService(b.Settings, b.Logger),
			service.NewRenderService(renderer, b.Logger),
			b.Redis.Logos,
			sessionTTL,
			b.Logger,
		),
		exportService: exportService,
		sessionTTL:    sessionTTL,
		maxLogoBytes:  viper.GetInt64("popup.max-logo-bytes"),
	}
}

func (h Handler) PopupSetup(group *tele.Group) {
	group.Handle("/start", h.Start)
	group.Handle("/qr", h.QR)
	group.Handle("/scale", h.Scale)
	group.Handle("/logo", h.Logo)
	group.Handle("/nologo", h.NoLogo)
	group.Handle("/download", h.Download)
	group.Handle("/copy", h.Copy)
	group.Handle("/history", h.History)
	group.Handle("/mail", h.Mail)
	group.Handle("/close", h.Close)

	group.Handle(h.layout.Callback("popup:size"), h.setSize)
	group.Handle(h.layout.Callback("popup:ec"), h.setErrorCorrection)
	group.Handle(h.layout.Callback("popup:download"), h.Download)
	group.Handle(h.layout.Callback("popup:copy"), h.Copy)
	group.Handle(h.layout.Callback("popup:back"), h.hide)
}

func (h Handler) Start(c tele.Context) error {
	h.logger.Infof("(user: %d) press start button", c.Sender().ID)

	if payload := c.Message().Payload; validator.Text(payload, nil) {
		return h.open(c, payload)
	}
	if utils.IsAdmin(c.Sender().ID) {
		return c.Send(h.layout.Text(c, "start", c.Sender().FirstName) + "\n\n" + h.layout.Text(c, "start_admin"))
	}
	return c.Send(h.layout.Text(c, "start", c.Sender().FirstName))
}

// QR opens a popup for the command payload, asking for the text when there is
// none.
func (h Handler) QR(c tele.Context) error {
	text := c.Message().Payload
	if !validator.Text(text, nil) {
		message, ok := h.ask(c, h.layout.Text(c, "input_text"), h.layout.Text(c, "invalid_text"), func(m *tele.Message) bool {
			return validator.Text(utils.GetMessageText(m), nil)
		})
		if !ok {
			return nil
		}
		text = utils.GetMessageText(message)
	}
	return h.open(c, text)
}

func (h Handler) open(c tele.Context, text string) error {
	ctx := context.Background()
	profileID := utils.ProfileID(c.Sender().ID)

	if previous, ok := h.current(ctx, c); ok {
		h.popupService.Close(ctx, previous)
	}

	state := h.popupService.Open(ctx, uuid.New().String(), profileID, text)
	h.logger.Infof("(user: %d) open popup %s", c.Sender().ID, state.SessionID)
	return h.show(c, state, false)
}

func (h Handler) Close(c tele.Context) error {
	ctx := context.Background()
	state, ok := h.current(ctx, c)
	if !ok {
		return c.Send(h.layout.Text(c, "no_popup"))
	}

	h.popupService.Close(ctx, state)
	h.popups.Clear(ctx, c.Sender().ID)
	return c.Send(h.layout.Text(c, "popup_closed"))
}

func (h Handler) hide(c tele.Context) error {
	return c.Delete()
}

// current restores the open popup of the sender.
func (h Handler) current(ctx context.Context, c tele.Context) (entity.PopupState, bool) {
	popup, ok, err := h.popups.Get(ctx, c.Sender().ID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting popup from redis: %v", c.Sender().ID, err)
		return entity.PopupState{}, false
	}
	if !ok {
		return entity.PopupState{}, false
	}
	return h.popupService.Open(ctx, popup.SessionID, utils.ProfileID(c.Sender().ID), popup.Text), true
}

// requireCurrent is current that tells the user when there is no popup.
func (h Handler) requireCurrent(c tele.Context) (entity.PopupState, bool) {
	state, ok := h.current(context.Background(), c)
	if !ok {
		if c.Callback() != nil {
			_ = c.Respond(&tele.CallbackResponse{Text: h.layout.Text(c, "no_popup")})
		} else {
			_ = c.Send(h.layout.Text(c, "no_popup"))
		}
	}
	return state, ok
}

type caption struct {
	Text      string
	Size      int
	EC        string
	LogoScale int
	Logo      string
	Degraded  bool
	NotSaved  bool
}

// show renders state and sends it, or replaces the pressed popup message.
// notSaved marks settings that apply to this popup only.
func (h Handler) show(c tele.Context, state entity.PopupState, notSaved bool) error {
	ctx := context.Background()

	surface := service.NewSurface()
	frame := h.popupService.Render(state, surface, surface.Begin())
	if frame.Image == nil {
		return c.Send(h.layout.Text(c, "render_failed", frame.Placeholder))
	}

	data, err := qr.EncodePNG(frame.Image.Image)
	if err != nil {
		h.logger.Errorf("(user: %d) error while encoding png: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	args := caption{
		Text:      html.EscapeString(state.Text),
		Size:      state.Settings.Size,
		EC:        string(state.Settings.ErrorCorrection),
		LogoScale: state.Settings.LogoScalePercent,
		Degraded:  frame.Image.LogoDegraded,
		NotSaved:  notSaved,
	}
	if state.Logo.Available() {
		args.Logo = html.EscapeString(state.Logo.Name)
	}

	photo := &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(data)),
		Caption: h.layout.Text(c, "popup_caption", args),
	}
	markup := h.settingsMarkup(c, state.Settings)

	popup := popups.Popup{SessionID: state.SessionID, Text: state.Text}
	if c.Callback() != nil && c.Callback().Message != nil {
		if err = c.Edit(photo, markup); err != nil {
			return err
		}
		popup.MessageID = c.Callback().Message.ID
	} else {
		msg, errSend := h.bot.Send(c.Recipient(), photo, markup)
		if errSend != nil {
			return errSend
		}
		popup.MessageID = msg.ID
	}

	if err = h.popups.Set(ctx, c.Sender().ID, popup, h.sessionTTL); err != nil {
		h.logger.Errorf("(user: %d) error while saving popup to redis: %v", c.Sender().ID, err)
	}
	return nil
}
