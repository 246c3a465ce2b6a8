package bot

import (
	"context"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/ngwarden/internal/infrastructure/telegram"
	"github.com/iamwavecut/ngwarden/internal/moderation"
)

// ServiceBot defines bot-specific operations
type ServiceBot interface {
	GetBot() telegram.BotClient
	GetBotID() int64
}

// ServiceEngine gives handlers access to moderation rules
type ServiceEngine interface {
	GetEngine() *moderation.Engine
}

// Service defines the core bot service interface
type Service interface {
	ServiceBot
	ServiceEngine
	GetLanguage(user *api.User) string
}

// Handler defines the interface for all update handlers in the system
type Handler interface {
	Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (proceed bool, err error)
}
