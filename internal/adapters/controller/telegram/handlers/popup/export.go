package popup

import (
	"bytes"
	"context"
	"errors"
	"html"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/internal/domain/service"
	"github.com/Badsnus/tabqr/internal/domain/utils"
	"github.com/Badsnus/tabqr/internal/domain/utils/validator"
	tele "gopkg.in/telebot.v3"
)

const historyLimit = 10

// rendered returns the image of the open popup.
func (h Handler) rendered(c tele.Context) (*entity.RenderedImage, bool) {
	state, ok := h.requireCurrent(c)
	if !ok {
		return nil, false
	}

	surface := service.NewSurface()
	frame := h.popupService.Render(state, surface, surface.Begin())
	if frame.Image == nil {
		_ = c.Send(h.layout.Text(c, "render_failed", frame.Placeholder))
		return nil, false
	}
	return frame.Image, true
}

// Download sends the code as a PNG document with the export filename.
func (h Handler) Download(c tele.Context) error {
	if c.Callback() != nil {
		_ = c.Respond()
	}

	img, ok := h.rendered(c)
	if !ok {
		return nil
	}

	file, err := h.exportService.Export(context.Background(), utils.ProfileID(c.Sender().ID), entity.ChannelChat, img)
	if err != nil {
		h.logger.Errorf("(user: %d) error while exporting: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	h.logger.Infof("(user: %d) download %s", c.Sender().ID, file.Filename)
	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(file.Data)),
		FileName: file.Filename,
		MIME:     "image/png",
	})
}

// Copy sends the encoded text in a form that copies on tap.
func (h Handler) Copy(c tele.Context) error {
	if c.Callback() != nil {
		_ = c.Respond()
	}

	state, ok := h.requireCurrent(c)
	if !ok {
		return nil
	}
	return c.Send(h.layout.Text(c, "copy", html.EscapeString(state.Text)))
}

type historyItem struct {
	Filename string
	Text     string
	Channel  string
}

func (h Handler) History(c tele.Context) error {
	ctx := context.Background()
	profileID := utils.ProfileID(c.Sender().ID)

	exports, err := h.exportService.History(ctx, profileID, 0, historyLimit)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting history: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}
	total, err := h.exportService.CountByProfile(ctx, profileID)
	if err != nil {
		h.logger.Errorf("(user: %d) error while counting history: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}
	if len(exports) == 0 {
		return c.Send(h.layout.Text(c, "history_empty"))
	}

	items := make([]historyItem, 0, len(exports))
	for _, e := range exports {
		items = append(items, historyItem{
			Filename: e.Filename,
			Text:     html.EscapeString(e.Text),
			Channel:  e.Channel,
		})
	}
	return c.Send(h.layout.Text(c, "history", struct {
		Items []historyItem
		Total int64
	}{items, total}))
}

// Mail asks for an address and sends the code there.
func (h Handler) Mail(c tele.Context) error {
	if _, ok := h.requireCurrent(c); !ok {
		return nil
	}

	to := c.Message().Payload
	if !validator.Email(to, nil) {
		message, ok := h.ask(c, h.layout.Text(c, "input_email"), h.layout.Text(c, "invalid_email"), func(m *tele.Message) bool {
			return validator.Email(m.Text, nil)
		})
		if !ok {
			return nil
		}
		to = message.Text
	}

	img, ok := h.rendered(c)
	if !ok {
		return nil
	}

	file, err := h.exportService.Mail(context.Background(), utils.ProfileID(c.Sender().ID), to, img)
	switch {
	case errors.Is(err, errorz.ErrMailDisabled):
		return c.Send(h.layout.Text(c, "mail_disabled"))
	case err != nil:
		h.logger.Errorf("(user: %d) error while sending mail: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	h.logger.Infof("(user: %d) mailed %s", c.Sender().ID, file.Filename)
	return c.Send(h.layout.Text(c, "mail_sent", file.Filename))
}
