package middlewares

import (
	"strings"

	"github.com/Badsnus/tabqr/cmd/bot"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	"github.com/nlypage/intele"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"
)

type Handler struct {
	layout *layout.Layout
	logger *types.Logger
	input  *intele.InputManager
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		layout: b.Layout,
		logger: b.Logger,
		input:  b.Input,
	}
}

// PrivateOnly ignores updates from groups and channels.
func (h Handler) PrivateOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Chat() != nil && c.Chat().Type != tele.ChatPrivate {
			h.logger.Debugf("(chat: %d) ignore update from %s chat", c.Chat().ID, c.Chat().Type)
			return nil
		}
		return next(c)
	}
}

// ResetInputOnBack middleware clears the input state when the back button is pressed.
func (h Handler) ResetInputOnBack(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			if strings.Contains(c.Callback().Data, "back") || strings.Contains(c.Callback().Unique, "back") {
				h.input.Cancel(c.Sender().ID)
			}
		}
		if c.Message() != nil {
			if strings.HasPrefix(c.Message().Text, "/") {
				h.input.Cancel(c.Sender().ID)
			}
		}

		return next(c)
	}
}
