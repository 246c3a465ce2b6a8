package bot

import (
	"context"
	"io"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamwavecut/tool"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/i18n"
	"github.com/iamwavecut/ngwarden/internal/infrastructure/telegram"
	"github.com/iamwavecut/ngwarden/internal/moderation"
)

type service struct {
	bot             telegram.BotClient
	botID           int64
	engine          *moderation.Engine
	store           io.Closer
	defaultLanguage string
	log             *log.Entry
}

func NewService(bot telegram.BotClient, botID int64, engine *moderation.Engine, store io.Closer, defaultLanguage string) *service {
	return &service{
		bot:             bot,
		botID:           botID,
		engine:          engine,
		store:           store,
		defaultLanguage: defaultLanguage,
		log:             log.WithField("object", "Service"),
	}
}

func (s *service) GetBot() telegram.BotClient {
	return s.bot
}

func (s *service) GetBotID() int64 {
	return s.botID
}

func (s *service) GetEngine() *moderation.Engine {
	return s.engine
}

// GetLanguage prefers the user's client language when it has translations.
func (s *service) GetLanguage(user *api.User) string {
	if user != nil && tool.In(user.LanguageCode, i18n.GetLanguagesList()...) {
		return user.LanguageCode
	}
	return s.defaultLanguage
}

func (s *service) Start(ctx context.Context) error {
	s.log.WithField("language", i18n.GetLanguageName(s.defaultLanguage)).Info("service started")
	return nil
}

// Stop closes the store.
func (s *service) Stop(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
