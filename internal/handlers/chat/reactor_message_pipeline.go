package handlers

import (
	"context"
	"fmt"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/bot"
	ngerrors "github.com/iamwavecut/ngwarden/internal/errors"
	"github.com/iamwavecut/ngwarden/internal/i18n"
	"github.com/iamwavecut/ngwarden/internal/moderation"
)

// handleMessage runs a group message through the moderation pipeline and
// announces the automatic sanctions.
func (r *Reactor) handleMessage(ctx context.Context, msg *api.Message, chat *api.Chat, user *api.User) error {
	if user.IsBot {
		return nil
	}
	entry := r.getLogEntry().WithFields(log.Fields{"method": "handleMessage", "chat": chat.ID, "user": user.ID})
	lang := r.s.GetLanguage(user)

	verdict, err := r.engine.HandleMessage(ctx, moderation.Message{
		ChatID:    chat.ID,
		MessageID: msg.MessageID,
		UserID:    user.ID,
		Username:  user.UserName,
		FirstName: user.FirstName,
		Text:      bot.ExtractText(msg),
	})
	if err != nil && !ngerrors.IsPlatform(err) {
		return errors.WithMessage(err, "moderate message")
	}
	if err != nil {
		entry.WithField("error", err.Error()).Warn("automatic sanction refused")
	}
	if verdict.Action != moderation.VerdictPass {
		entry.WithField("verdict", verdict.Action.String()).Debug("message moderated")
	}

	switch verdict.Action {
	case moderation.VerdictFlood:
		if err != nil {
			return nil
		}
		r.notify(chat.ID, fmt.Sprintf(
			i18n.Get("🚫 %s is muted for %s for flooding.", lang),
			bot.MentionMarkdown(user), moderation.FormatDuration(int(r.engine.FloodMute()/time.Second)),
		))
	case moderation.VerdictProfanity:
		if verdict.Warn.Banned {
			r.notify(chat.ID, fmt.Sprintf(
				i18n.Get("🚫 %s has been banned: warning limit reached (%d/%d).", lang),
				bot.MentionMarkdown(user), verdict.Warn.Count, verdict.Warn.Limit,
			))
			return nil
		}
		if verdict.Warn.Limit > 0 {
			r.notify(chat.ID, fmt.Sprintf(
				i18n.Get("⚠️ %s, banned words are not allowed here! Warning %d/%d.", lang),
				bot.MentionMarkdown(user), verdict.Warn.Count, verdict.Warn.Limit,
			))
		}
	}
	return nil
}
