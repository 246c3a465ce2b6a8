package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/ngwarden/internal/moderation"
	"github.com/iamwavecut/ngwarden/internal/policy/permissions"
)

// BotClient is the part of *api.BotAPI the operations need.
type BotClient interface {
	Request(c api.Chattable) (*api.APIResponse, error)
	Send(c api.Chattable) (api.Message, error)
	GetChatMember(config api.GetChatMemberConfig) (api.ChatMember, error)
	GetChatAdministrators(config api.ChatAdministratorsConfig) ([]api.ChatMember, error)
}

// Operations implements moderation.Platform on top of the Bot API.
type Operations struct {
	bot BotClient
}

func NewOperations(bot BotClient) *Operations {
	return &Operations{bot: bot}
}

var _ moderation.Platform = (*Operations)(nil)

func (o *Operations) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if _, err := o.bot.Request(api.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (o *Operations) BanMember(ctx context.Context, chatID, userID int64) error {
	config := api.BanChatMemberConfig{
		ChatMemberConfig: api.ChatMemberConfig{
			ChatConfig: api.ChatConfig{ChatID: chatID},
			UserID:     userID,
		},
		RevokeMessages: true,
	}
	if _, err := o.bot.Request(config); err != nil {
		if strings.Contains(err.Error(), "not enough rights") {
			return fmt.Errorf("not enough rights to ban user")
		}
		return fmt.Errorf("failed to ban user: %w", err)
	}
	return nil
}

func (o *Operations) UnbanMember(ctx context.Context, chatID, userID int64) error {
	config := api.UnbanChatMemberConfig{
		ChatMemberConfig: api.ChatMemberConfig{
			ChatConfig: api.ChatConfig{ChatID: chatID},
			UserID:     userID,
		},
		OnlyIfBanned: true,
	}
	if _, err := o.bot.Request(config); err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}
	return nil
}

// RestrictMember applies caps in one call. A zero until means no expiry.
func (o *Operations) RestrictMember(ctx context.Context, chatID, userID int64, caps permissions.Capabilities, until time.Time) error {
	config := api.RestrictChatMemberConfig{
		ChatMemberConfig: api.ChatMemberConfig{
			ChatConfig: api.ChatConfig{ChatID: chatID},
			UserID:     userID,
		},
		Permissions:                   chatPermissions(caps),
		UseIndependentChatPermissions: true,
	}
	if !until.IsZero() {
		config.UntilDate = until.Unix()
	}
	if _, err := o.bot.Request(config); err != nil {
		return fmt.Errorf("failed to restrict user: %w", err)
	}
	return nil
}

func (o *Operations) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	msg := api.NewMessage(chatID, text)
	msg.ParseMode = api.ModeMarkdown
	msg.LinkPreviewOptions.IsDisabled = true
	sent, err := o.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

func (o *Operations) PinMessage(ctx context.Context, chatID int64, messageID int) error {
	config := api.PinChatMessageConfig{
		BaseChatMessage: api.BaseChatMessage{
			ChatConfig: api.ChatConfig{ChatID: chatID},
			MessageID:  messageID,
		},
		DisableNotification: true,
	}
	if _, err := o.bot.Request(config); err != nil {
		return fmt.Errorf("failed to pin message: %w", err)
	}
	return nil
}

func (o *Operations) GetAdministrators(ctx context.Context, chatID int64) ([]moderation.Member, error) {
	admins, err := o.bot.GetChatAdministrators(api.ChatAdministratorsConfig{
		ChatConfig: api.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get administrators: %w", err)
	}
	res := make([]moderation.Member, 0, len(admins))
	for _, a := range admins {
		if a.User == nil {
			continue
		}
		res = append(res, moderation.Member{
			UserID: a.User.ID,
			IsBot:  a.User.IsBot,
			Status: moderation.MemberStatus(a.Status),
		})
	}
	return res, nil
}

func (o *Operations) GetMember(ctx context.Context, chatID, userID int64) (moderation.MemberStatus, error) {
	member, err := o.bot.GetChatMember(api.GetChatMemberConfig{
		ChatConfigWithUser: api.ChatConfigWithUser{
			ChatConfig: api.ChatConfig{ChatID: chatID},
			UserID:     userID,
		},
	})
	if err != nil {
		return moderation.StatusUnknown, fmt.Errorf("failed to get chat member: %w", err)
	}
	return moderation.MemberStatus(member.Status), nil
}

func chatPermissions(c permissions.Capabilities) *api.ChatPermissions {
	return &api.ChatPermissions{
		CanSendMessages:       c.SendMessages,
		CanSendAudios:         c.SendMedia,
		CanSendDocuments:      c.SendMedia,
		CanSendPhotos:         c.SendMedia,
		CanSendVideos:         c.SendMedia,
		CanSendVideoNotes:     c.SendMedia,
		CanSendVoiceNotes:     c.SendMedia,
		CanSendPolls:          c.SendPolls,
		CanSendOtherMessages:  c.SendOther,
		CanAddWebPagePreviews: c.AddWebPagePreviews,
		CanChangeInfo:         c.ChangeInfo,
		CanInviteUsers:        c.InviteUsers,
		CanPinMessages:        c.PinMessages,
		CanManageTopics:       false,
	}
}
