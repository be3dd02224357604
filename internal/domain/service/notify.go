package service

import (
	"strings"

	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/pkg/logger/types"
	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"
)

const failedToSendLog = "failed to send log to channel"

// channelSender is the part of *tele.Bot the notifier uses.
type channelSender interface {
	ChatByID(id int64) (*tele.Chat, error)
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// notifyLayout is implemented by *layout.Layout.
type notifyLayout interface {
	TextLocale(locale, k string, args ...interface{}) string
}

// NotifyService posts logs and exports to a service channel.
type NotifyService struct {
	bot    channelSender
	layout notifyLayout
	logger *types.Logger
}

func NewNotifyService(bot channelSender, layout notifyLayout, logger *types.Logger) *NotifyService {
	return &NotifyService{
		bot:    bot,
		layout: layout,
		logger: logger,
	}
}

// LogHook returns a hook posting entries of at least level to channelID,
// rendered with the "log" text of locale.
func (s *NotifyService) LogHook(channelID int64, locale string, level zapcore.Level) (types.LogHook, error) {
	chat, err := s.bot.ChatByID(channelID)
	if err != nil {
		return nil, err
	}
	return func(log types.Log) {
		if log.Level < level {
			return
		}
		// a failing channel must not feed itself
		if strings.Contains(log.Message, failedToSendLog) {
			return
		}
		if _, errSend := s.bot.Send(chat, s.layout.TextLocale(locale, "log", log)); errSend != nil {
			s.logger.Errorf("%s %d: %v", failedToSendLog, channelID, errSend)
		}
	}, nil
}

// ExportListener returns a listener announcing exports in channelID with the
// "export_notice" text of locale.
func (s *NotifyService) ExportListener(channelID int64, locale string) (ExportListener, error) {
	chat, err := s.bot.ChatByID(channelID)
	if err != nil {
		return nil, err
	}
	return func(export entity.Export) {
		if _, errSend := s.bot.Send(chat, s.layout.TextLocale(locale, "export_notice", export)); errSend != nil {
			s.logger.Errorf("failed to announce export %s in channel %d: %v", export.Filename, channelID, errSend)
		}
	}, nil
}
