package utils

import (
	"fmt"
	"slices"

	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v3"
)

// IsAdmin reports whether userID is listed in bot.admin-ids.
func IsAdmin(userID int64) bool {
	return slices.Contains(viper.GetIntSlice("bot.admin-ids"), int(userID))
}

// ProfileID is the settings owner of a chat user.
func ProfileID(userID int64) string {
	return fmt.Sprintf("tg:%d", userID)
}

// GetMessageText returns the text of msg or, for media, its caption.
func GetMessageText(msg *tele.Message) string {
	switch {
	case msg.Text != "":
		return msg.Text
	case msg.Caption != "":
		return msg.Caption
	default:
		return ""
	}
}
