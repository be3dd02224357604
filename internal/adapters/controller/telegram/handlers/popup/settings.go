package popup

import (
	"context"
	"strconv"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/internal/domain/utils/validator"
	"github.com/nlypage/intele/collector"
	tele "gopkg.in/telebot.v3"
)

type option struct {
	Value    string
	Selected bool
}

func (h Handler) settingsMarkup(c tele.Context, settings entity.RenderSettings) *tele.ReplyMarkup {
	var sizeRow, ecRow []tele.InlineButton
	for _, size := range entity.SupportedSizes {
		btn := h.layout.Button(c, "popup:size", option{Value: strconv.Itoa(size), Selected: size == settings.Size})
		sizeRow = append(sizeRow, *btn.Inline())
	}
	for _, ec := range entity.ErrorCorrections {
		btn := h.layout.Button(c, "popup:ec", option{Value: string(ec), Selected: ec == settings.ErrorCorrection})
		ecRow = append(ecRow, *btn.Inline())
	}

	markup := h.layout.Markup(c, "popup:actions")
	markup.InlineKeyboard = append([][]tele.InlineButton{sizeRow, ecRow}, markup.InlineKeyboard...)
	return markup
}

// apply changes the settings of the open popup with fn and re-renders it.
func (h Handler) apply(c tele.Context, fn func(*entity.RenderSettings)) error {
	state, ok := h.requireCurrent(c)
	if !ok {
		return nil
	}

	requested := state.Settings
	fn(&requested)
	state, result := h.popupService.Apply(context.Background(), state, requested)
	h.logger.Infof("(user: %d) apply settings %+v", c.Sender().ID, result.Settings)

	if c.Callback() != nil {
		_ = c.Respond()
	}
	return h.show(c, state, !result.Persisted)
}

func (h Handler) setSize(c tele.Context) error {
	size, err := strconv.Atoi(c.Callback().Data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: h.layout.Text(c, "something_went_wrong")})
	}
	return h.apply(c, func(s *entity.RenderSettings) { s.Size = size })
}

func (h Handler) setErrorCorrection(c tele.Context) error {
	ec, ok := entity.ParseErrorCorrection(c.Callback().Data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: h.layout.Text(c, "something_went_wrong")})
	}
	return h.apply(c, func(s *entity.RenderSettings) { s.ErrorCorrection = ec })
}

// Scale asks for the logo scale in percent.
func (h Handler) Scale(c tele.Context) error {
	if _, ok := h.requireCurrent(c); !ok {
		return nil
	}

	if scale, ok := validator.ParseLogoScale(c.Message().Payload); ok {
		return h.apply(c, func(s *entity.RenderSettings) { s.LogoScalePercent = scale })
	}

	message, ok := h.ask(c, h.layout.Text(c, "input_logo_scale"), h.layout.Text(c, "invalid_logo_scale"), func(m *tele.Message) bool {
		return validator.LogoScale(m.Text, nil)
	})
	if !ok {
		return nil
	}
	scale, _ := validator.ParseLogoScale(message.Text)
	return h.apply(c, func(s *entity.RenderSettings) { s.LogoScalePercent = scale })
}

// ask prompts until valid accepts the answer. ok is false when the user
// canceled.
func (h Handler) ask(c tele.Context, prompt, invalid string, valid func(*tele.Message) bool) (*tele.Message, bool) {
	inputCollector := collector.New()
	if c.Message() != nil {
		inputCollector.Collect(c.Message())
	}
	_ = inputCollector.Send(c, prompt, h.layout.Markup(c, "popup:cancel"))

	for {
		message, canceled, errGet := h.input.Get(context.Background(), c.Sender().ID, 0)
		if message != nil {
			inputCollector.Collect(message)
		}
		switch {
		case canceled:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true, ExcludeLast: true})
			return nil, false
		case errGet != nil:
			h.logger.Errorf("(user: %d) error while waiting for input: %v", c.Sender().ID, errGet)
			_ = inputCollector.Send(c,
				h.layout.Text(c, "input_error", prompt),
				h.layout.Markup(c, "popup:cancel"),
			)
		case !valid(message):
			_ = inputCollector.Send(c,
				invalid,
				h.layout.Markup(c, "popup:cancel"),
			)
		default:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true})
			return message, true
		}
	}
}
