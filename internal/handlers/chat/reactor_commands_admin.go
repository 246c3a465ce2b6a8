package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"

	"github.com/iamwavecut/ngwarden/internal/bot"
	ngerrors "github.com/iamwavecut/ngwarden/internal/errors"
	"github.com/iamwavecut/ngwarden/internal/i18n"
	"github.com/iamwavecut/ngwarden/internal/moderation"
)

const noReason = "no reason"

func (r *Reactor) cmdBan(ctx context.Context, msg *api.Message, lang string) error {
	target := replyTarget(msg)
	if target == nil {
		return usageError{i18n.Get("↩️ Reply to a message of the user you want to ban.", lang)}
	}
	if err := r.engine.Ban(ctx, msg.Chat.ID, target.ID); err != nil {
		return err
	}
	r.reply(msg, fmt.Sprintf(i18n.Get("🚫 %s has been banned.", lang), bot.MentionMarkdown(target)))
	return nil
}

func (r *Reactor) cmdUnban(ctx context.Context, msg *api.Message, lang string) error {
	var userID int64
	var label string
	if target := replyTarget(msg); target != nil {
		userID, label = target.ID, bot.MentionMarkdown(target)
	} else if id, err := strconv.ParseInt(commandArgs(msg), 10, 64); err == nil && id != 0 {
		userID, label = id, fmt.Sprintf("`%d`", id)
	} else {
		return usageError{i18n.Get("↩️ Reply to a message of the user or pass their ID: /unban 123456", lang)}
	}
	if err := r.engine.Unban(ctx, msg.Chat.ID, userID); err != nil {
		return err
	}
	r.reply(msg, fmt.Sprintf(i18n.Get("✅ %s has been unbanned.", lang), label))
	return nil
}

func (r *Reactor) cmdMute(ctx context.Context, msg *api.Message, lang string) error {
	target := replyTarget(msg)
	if target == nil {
		return usageError{i18n.Get("↩️ Reply to a message of the user you want to mute.", lang)}
	}
	duration := r.engine.DefaultMute()
	if seconds, ok := moderation.ParseDuration(commandArgs(msg)); ok {
		duration = time.Duration(seconds) * time.Second
	}
	if _, err := r.engine.Mute(ctx, msg.Chat.ID, target.ID, duration); err != nil {
		return err
	}
	r.reply(msg, fmt.Sprintf(
		i18n.Get("🔇 %s has been muted for %s.", lang),
		bot.MentionMarkdown(target),
		moderation.FormatDuration(int(duration/time.Second)),
	))
	return nil
}

func (r *Reactor) cmdUnmute(ctx context.Context, msg *api.Message, lang string) error {
	target := replyTarget(msg)
	if target == nil {
		return usageError{i18n.Get("↩️ Reply to a message of the user you want to unmute.", lang)}
	}
	if err := r.engine.Unmute(ctx, msg.Chat.ID, target.ID); err != nil {
		return err
	}
	r.reply(msg, fmt.Sprintf(i18n.Get("🔊 %s can write again.", lang), bot.MentionMarkdown(target)))
	return nil
}

func (r *Reactor) cmdWarn(ctx context.Context, msg *api.Message, lang string) error {
	target := replyTarget(msg)
	if target == nil {
		return usageError{i18n.Get("↩️ Reply to a message of the user you want to warn.", lang)}
	}
	reason := commandArgs(msg)
	shownReason := reason
	if reason == "" {
		reason = noReason
		shownReason = i18n.Get("no reason", lang)
	}

	outcome, err := r.engine.Warn(ctx, msg.Chat.ID, target.ID, msg.From.ID, reason)
	if outcome.Limit > 0 {
		r.reply(msg, warnNotice(target, outcome, shownReason, lang))
	}
	return err
}

func warnNotice(target *api.User, outcome moderation.WarnOutcome, reason, lang string) string {
	if outcome.Banned {
		return fmt.Sprintf(
			i18n.Get("🚫 %s has been banned: warning limit reached (%d/%d).", lang),
			bot.MentionMarkdown(target), outcome.Count, outcome.Limit,
		)
	}
	return fmt.Sprintf(
		i18n.Get("⚠️ %s received a warning (%d/%d).\nReason: %s", lang),
		bot.MentionMarkdown(target), outcome.Count, outcome.Limit, api.EscapeText(api.ModeMarkdown, reason),
	)
}

func (r *Reactor) cmdUnwarn(ctx context.Context, msg *api.Message, lang string) error {
	target := replyTarget(msg)
	if target == nil {
		return usageError{i18n.Get("↩️ Reply to a message of the user whose warning you want to remove.", lang)}
	}
	left, err := r.engine.Unwarn(ctx, msg.Chat.ID, target.ID)
	if err != nil {
		return err
	}
	r.reply(msg, fmt.Sprintf(i18n.Get("✅ Removed a warning from %s. Warnings left: %d.", lang), bot.MentionMarkdown(target), left))
	return nil
}

func (r *Reactor) cmdClear(ctx context.Context, msg *api.Message, lang string) error {
	if msg.ReplyToMessage == nil {
		return usageError{i18n.Get("↩️ Reply to the first message to delete: /clear 10", lang)}
	}
	count := moderation.ClearDefault
	if args := commandArgs(msg); args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 {
			return usageError{i18n.Get("↩️ Reply to the first message to delete: /clear 10", lang)}
		}
		count = n
	}

	deleted, err := r.engine.Clear(ctx, msg.Chat.ID, msg.ReplyToMessage.MessageID, count)
	if err != nil {
		return err
	}
	notice := r.reply(msg, fmt.Sprintf(i18n.Get("🧹 Deleted %d messages.", lang), deleted))

	ids := []int{msg.MessageID}
	if notice != nil {
		ids = append(ids, notice.MessageID)
	}
	chatID := msg.Chat.ID
	time.AfterFunc(r.clearNoticeTTL, func() {
		for _, id := range ids {
			if _, err := r.s.GetBot().Request(api.NewDeleteMessage(chatID, id)); err != nil {
				r.getLogEntry().WithField("error", err.Error()).Debug("cant delete clear notice")
			}
		}
	})
	return nil
}

func (r *Reactor) cmdPin(ctx context.Context, msg *api.Message, lang string) error {
	if msg.ReplyToMessage == nil {
		return usageError{i18n.Get("↩️ Reply to the message you want to pin.", lang)}
	}
	if err := r.engine.Pin(ctx, msg.Chat.ID, msg.ReplyToMessage.MessageID); err != nil {
		return err
	}
	r.reply(msg, i18n.Get("📌 Message pinned.", lang))
	return nil
}

func (r *Reactor) cmdSlowmode(ctx context.Context, msg *api.Message, lang string) error {
	seconds := moderation.SlowmodeDefault
	if args := commandArgs(msg); args != "" {
		n, err := strconv.Atoi(args)
		if err != nil {
			return usageError{i18n.Get("Usage: /slowmode \\[seconds], 0 disables it.", lang)}
		}
		seconds = n
	}
	stored, err := r.engine.SetSlowmode(ctx, msg.Chat.ID, seconds)
	if err != nil {
		return err
	}
	if stored == 0 {
		r.reply(msg, i18n.Get("🐢 Slowmode disabled.", lang))
		return nil
	}
	r.reply(msg, fmt.Sprintf(i18n.Get("🐢 Slowmode: one message per %d sec.", lang), stored))
	return nil
}

func (r *Reactor) cmdSetWelcome(ctx context.Context, msg *api.Message, lang string) error {
	text := commandArgs(msg)
	if text == "" {
		return usageError{i18n.Get("Usage: /set\\_welcome text. Use {name} for the member's name and {chat_title} for the chat title.", lang)}
	}
	if err := r.engine.SetWelcome(ctx, msg.Chat.ID, text); err != nil {
		return err
	}
	r.reply(msg, i18n.Get("✅ Welcome message updated.", lang))
	return nil
}

func (r *Reactor) cmdSetRules(ctx context.Context, msg *api.Message, lang string) error {
	text := commandArgs(msg)
	if text == "" {
		return usageError{i18n.Get("Usage: /set\\_rules text", lang)}
	}
	if err := r.engine.SetRules(ctx, msg.Chat.ID, text); err != nil {
		return err
	}
	r.reply(msg, i18n.Get("✅ Rules updated.", lang))
	return nil
}

func (r *Reactor) cmdAddBadWord(ctx context.Context, msg *api.Message, lang string) error {
	word := strings.ToLower(commandArgs(msg))
	if word == "" {
		return usageError{i18n.Get("Usage: /add\\_badword word", lang)}
	}
	added, err := r.engine.AddBadWord(ctx, msg.Chat.ID, word)
	if err != nil {
		return err
	}
	if !added {
		r.reply(msg, i18n.Get("ℹ️ This word is already in the filter.", lang))
		return nil
	}
	r.reply(msg, i18n.Get("✅ Word added to the filter.", lang))
	return nil
}

func (r *Reactor) cmdRemoveBadWord(ctx context.Context, msg *api.Message, lang string) error {
	word := strings.ToLower(commandArgs(msg))
	if word == "" {
		return usageError{i18n.Get("Usage: /remove\\_badword word", lang)}
	}
	err := r.engine.RemoveBadWord(ctx, msg.Chat.ID, word)
	switch {
	case errors.Is(err, ngerrors.ErrNotFound):
		r.reply(msg, i18n.Get("ℹ️ This word is not in the filter.", lang))
		return nil
	case err != nil:
		return err
	}
	r.reply(msg, i18n.Get("✅ Word removed from the filter.", lang))
	return nil
}

func (r *Reactor) cmdSetWarnLimit(ctx context.Context, msg *api.Message, lang string) error {
	limit, err := strconv.Atoi(commandArgs(msg))
	if err != nil || limit < 1 {
		return usageError{i18n.Get("Usage: /set\\_warnlimit N, where N is at least 1.", lang)}
	}
	if err := r.engine.SetWarnLimit(ctx, msg.Chat.ID, limit); err != nil {
		return err
	}
	r.reply(msg, fmt.Sprintf(i18n.Get("✅ Warning limit set to %d.", lang), limit))
	return nil
}

func (r *Reactor) cmdAntiflood(ctx context.Context, msg *api.Message, lang string) error {
	settings, err := r.engine.Settings(ctx, msg.Chat.ID)
	if err != nil {
		return err
	}
	enabled, count, window := settings.AntifloodEnabled, settings.AntifloodCount, settings.AntifloodWindow()

	fields := strings.Fields(strings.ToLower(commandArgs(msg)))
	switch {
	case len(fields) == 0:
	case len(fields) == 1 && fields[0] == "on":
		enabled = true
	case len(fields) == 1 && fields[0] == "off":
		enabled = false
	case len(fields) == 2:
		c, errCount := strconv.Atoi(fields[0])
		s, errSeconds := strconv.Atoi(fields[1])
		if errCount != nil || errSeconds != nil || c < 1 || s < 1 {
			return usageError{i18n.Get("Usage: /antiflood on|off|<count> <seconds>", lang)}
		}
		enabled, count, window = true, c, time.Duration(s)*time.Second
	default:
		return usageError{i18n.Get("Usage: /antiflood on|off|<count> <seconds>", lang)}
	}

	if len(fields) > 0 {
		if err := r.engine.SetAntiflood(ctx, msg.Chat.ID, enabled, count, window); err != nil {
			return err
		}
	}
	if !enabled {
		r.reply(msg, i18n.Get("🌊 Antiflood is off.", lang))
		return nil
	}
	r.reply(msg, fmt.Sprintf(i18n.Get("🌊 Antiflood is on: at most %d messages per %d sec.", lang), count, int(window/time.Second)))
	return nil
}
