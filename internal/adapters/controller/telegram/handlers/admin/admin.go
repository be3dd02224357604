package admin

import (
	"context"

	"github.com/Badsnus/tabqr/cmd/bot"
	"github.com/Badsnus/tabqr/internal/adapters/database/postgres"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"
)

type counter interface {
	Count(ctx context.Context) (int64, error)
}

type Handler struct {
	layout *layout.Layout
	logger *types.Logger

	exportStorage   counter
	settingsStorage counter
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		layout:          b.Layout,
		logger:          b.Logger,
		exportStorage:   postgres.NewExportStorage(b.DB),
		settingsStorage: postgres.NewSettingsStorage(b.DB),
	}
}

func (h Handler) AdminSetup(group *tele.Group) {
	group.Handle("/stats", h.Stats)
}

type stats struct {
	Exports  int64
	Profiles int64
}

// Stats reports how many codes were exported and how many profiles keep
// settings in the database.
func (h Handler) Stats(c tele.Context) error {
	ctx := context.Background()
	h.logger.Infof("(user: %d) requested stats", c.Sender().ID)

	exports, err := h.exportStorage.Count(ctx)
	if err != nil {
		h.logger.Errorf("(user: %d) error while counting exports: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}
	profiles, err := h.settingsStorage.Count(ctx)
	if err != nil {
		h.logger.Errorf("(user: %d) error while counting profiles: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	return c.Send(h.layout.Text(c, "stats", stats{Exports: exports, Profiles: profiles}))
}
