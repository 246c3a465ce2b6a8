package handlers

import (
	"context"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/i18n"
)

func (r *Reactor) handleCallbackQuery(ctx context.Context, cq *api.CallbackQuery, chat *api.Chat, user *api.User) error {
	entry := r.getLogEntry().WithFields(log.Fields{"method": "handleCallbackQuery", "data": cq.Data})
	lang := r.s.GetLanguage(user)
	msg := cq.Message

	answer := api.NewCallback(cq.ID, "")
	switch cq.Data {
	case callbackAcceptRules:
		entry.WithField("user", user.ID).Info("rules accepted")
		answer.Text = i18n.Get("✅ Thank you! Enjoy the chat.", lang)

	case callbackMenuRules:
		settings, err := r.engine.Settings(ctx, chat.ID)
		if err != nil {
			return err
		}
		if msg != nil {
			r.replyPlain(msg, settings.Rules, nil)
		}

	case callbackMenuInfo:
		if msg != nil && isGroup(chat) {
			text, err := r.memberInfoText(ctx, chat.ID, user, lang)
			if err != nil {
				return err
			}
			r.notify(chat.ID, text)
		}

	case callbackMenuHelp:
		if msg != nil {
			edit := api.NewEditMessageText(chat.ID, msg.MessageID, helpText(lang))
			edit.ParseMode = api.ModeMarkdown
			kb := menuKeyboard(lang)
			edit.ReplyMarkup = &kb
			if _, err := r.s.GetBot().Send(edit); err != nil {
				entry.WithField("error", err.Error()).Debug("cant edit menu")
			}
		}

	case callbackMenuReport:
		answer.Text = i18n.Get("To report a message, reply to it with /report", lang)
		answer.ShowAlert = true

	default:
		return nil
	}

	if _, err := r.s.GetBot().Request(answer); err != nil {
		entry.WithField("error", err.Error()).Error("cant answer callback")
	}
	return nil
}
