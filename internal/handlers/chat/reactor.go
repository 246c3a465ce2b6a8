package handlers

import (
	"context"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/bot"
	"github.com/iamwavecut/ngwarden/internal/moderation"
)

const clearNoticeTTL = 3 * time.Second

// Reactor serves commands, menu buttons and runs group messages through moderation.
type Reactor struct {
	s              bot.Service
	engine         *moderation.Engine
	clearNoticeTTL time.Duration
}

func NewReactor(s bot.Service) *Reactor {
	r := &Reactor{
		s:              s,
		engine:         s.GetEngine(),
		clearNoticeTTL: clearNoticeTTL,
	}
	r.getLogEntry().Debug("created new reactor")
	return r
}

func (r *Reactor) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	entry := r.getLogEntry().WithField("method", "Handle")
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	if err := r.validateUpdate(u, chat, user); err != nil {
		return false, err
	}
	if chat == nil || user == nil {
		return true, nil
	}

	if u.CallbackQuery != nil {
		return true, r.handleCallbackQuery(ctx, u.CallbackQuery, chat, user)
	}

	msg := u.Message
	if msg == nil {
		return true, nil
	}
	if msg.IsCommand() {
		if err := r.handleCommand(ctx, msg, chat, user); err != nil {
			entry.WithField("error", err.Error()).Error("error handling command")
			return true, err
		}
		return true, nil
	}
	if !isGroup(chat) || len(msg.NewChatMembers) > 0 || msg.LeftChatMember != nil {
		return true, nil
	}
	if err := r.handleMessage(ctx, msg, chat, user); err != nil {
		entry.WithField("error", err.Error()).Error("error handling message")
		return true, err
	}
	return true, nil
}

func (r *Reactor) validateUpdate(u *api.Update, chat *api.Chat, user *api.User) error {
	if u == nil {
		return errors.New("nil update")
	}
	if u.Message != nil && (chat == nil || user == nil) {
		return errors.New("nil chat or user")
	}
	return nil
}

func (r *Reactor) getLogEntry() *log.Entry {
	return log.WithField("object", "Reactor")
}

func (r *Reactor) reply(msg *api.Message, text string) *api.Message {
	sent, err := r.s.GetBot().Send(bot.Reply(msg, text))
	if err != nil {
		r.getLogEntry().WithField("error", err.Error()).Error("cant send reply")
		return nil
	}
	return &sent
}

// replyPlain sends admin-provided text without Markdown parsing.
func (r *Reactor) replyPlain(msg *api.Message, text string, markup *api.InlineKeyboardMarkup) {
	reply := bot.Reply(msg, text)
	reply.ParseMode = ""
	if markup != nil {
		reply.ReplyMarkup = markup
	}
	if _, err := r.s.GetBot().Send(reply); err != nil {
		r.getLogEntry().WithField("error", err.Error()).Error("cant send reply")
	}
}

func (r *Reactor) notify(chatID int64, text string) {
	msg := api.NewMessage(chatID, text)
	msg.ParseMode = api.ModeMarkdown
	msg.LinkPreviewOptions.IsDisabled = true
	if _, err := r.s.GetBot().Send(msg); err != nil {
		r.getLogEntry().WithField("error", err.Error()).Error("cant send notice")
	}
}

func isGroup(chat *api.Chat) bool {
	return chat != nil && (chat.IsGroup() || chat.IsSuperGroup())
}
