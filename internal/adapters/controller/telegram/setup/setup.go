package setup

import (
	"github.com/Badsnus/tabqr/cmd/bot"
	"github.com/Badsnus/tabqr/internal/adapters/controller/telegram/handlers/admin"
	"github.com/Badsnus/tabqr/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/Badsnus/tabqr/internal/adapters/controller/telegram/handlers/popup"
	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

func Setup(b *bot.Bot) {
	// Pre-setup and global middlewares
	middle := middlewares.New(b)
	popupHandler := popup.New(b)
	adminHandler := admin.New(b)

	if viper.GetBool("settings.debug") {
		b.Use(middleware.Logger())
	}
	b.Use(b.Layout.Middleware("en"))
	b.Use(middleware.AutoRespond())
	b.Use(middle.PrivateOnly)
	b.Handle(tele.OnText, b.Input.Handler())
	b.Handle(tele.OnMedia, b.Input.Handler())
	b.Handle(tele.OnPhoto, b.Input.Handler())
	b.Handle(tele.OnDocument, b.Input.Handler())
	b.Use(middle.ResetInputOnBack)

	// Setup handlers
	popupHandler.PopupSetup(b.Group())

	admins := viper.GetIntSlice("bot.admin-ids")
	adminsInt64 := make([]int64, len(admins))
	for i, v := range admins {
		adminsInt64[i] = int64(v)
	}
	adminGroup := b.Group()
	adminGroup.Use(middleware.Whitelist(adminsInt64...))
	adminHandler.AdminSetup(adminGroup)
}
