package handlers

import (
	"context"
	"fmt"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	ngerrors "github.com/iamwavecut/ngwarden/internal/errors"
	"github.com/iamwavecut/ngwarden/internal/i18n"
)

type commandFunc func(ctx context.Context, msg *api.Message, lang string) error

// usageError carries the hint shown when a command lacks its reply or argument.
type usageError struct {
	hint string
}

func (e usageError) Error() string { return e.hint }

func (e usageError) Unwrap() error { return ngerrors.ErrMissingTarget }

func (r *Reactor) adminCommands() map[string]commandFunc {
	return map[string]commandFunc{
		"ban":            r.cmdBan,
		"unban":          r.cmdUnban,
		"mute":           r.cmdMute,
		"unmute":         r.cmdUnmute,
		"warn":           r.cmdWarn,
		"unwarn":         r.cmdUnwarn,
		"clear":          r.cmdClear,
		"pin":            r.cmdPin,
		"slowmode":       r.cmdSlowmode,
		"set_welcome":    r.cmdSetWelcome,
		"set_rules":      r.cmdSetRules,
		"add_badword":    r.cmdAddBadWord,
		"remove_badword": r.cmdRemoveBadWord,
		"set_warnlimit":  r.cmdSetWarnLimit,
		"antiflood":      r.cmdAntiflood,
	}
}

func (r *Reactor) groupCommands() map[string]commandFunc {
	return map[string]commandFunc{
		"report": r.cmdReport,
		"info":   r.cmdInfo,
		"rules":  r.cmdRules,
	}
}

func (r *Reactor) anywhereCommands() map[string]commandFunc {
	return map[string]commandFunc{
		"help":  r.cmdHelp,
		"menu":  r.cmdMenu,
		"start": r.cmdMenu,
	}
}

func (r *Reactor) handleCommand(ctx context.Context, msg *api.Message, chat *api.Chat, user *api.User) error {
	lang := r.s.GetLanguage(user)
	command := msg.Command()
	entry := r.getLogEntry().WithFields(log.Fields{"command": command, "chat": chat.ID, "user": user.ID})

	if fn, ok := r.anywhereCommands()[command]; ok {
		return r.runCommand(ctx, fn, msg, lang)
	}

	adminFn, isAdminCommand := r.adminCommands()[command]
	groupFn, isGroupCommand := r.groupCommands()[command]
	if !isAdminCommand && !isGroupCommand {
		entry.Trace("unknown command")
		return nil
	}
	if !isGroup(chat) {
		r.reply(msg, i18n.Get("This command only works in groups.", lang))
		return nil
	}
	if isGroupCommand {
		return r.runCommand(ctx, groupFn, msg, lang)
	}

	if err := r.engine.RequireAdmin(ctx, chat.ID, user.ID); err != nil {
		entry.Debug("admin command refused")
		return r.replyError(msg, lang, err)
	}
	entry.Info("admin command")
	return r.runCommand(ctx, adminFn, msg, lang)
}

func (r *Reactor) runCommand(ctx context.Context, fn commandFunc, msg *api.Message, lang string) error {
	if err := fn(ctx, msg, lang); err != nil {
		return r.replyError(msg, lang, err)
	}
	return nil
}

// replyError turns expected failures into chat replies; anything else is returned.
func (r *Reactor) replyError(msg *api.Message, lang string, err error) error {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		r.reply(msg, usage.hint)
	case errors.Is(err, ngerrors.ErrPermissionDenied):
		r.reply(msg, i18n.Get("❌ This command is for administrators only!", lang))
	case ngerrors.IsPlatform(err):
		r.getLogEntry().WithField("error", err.Error()).Warn("platform refused command")
		r.reply(msg, fmt.Sprintf(i18n.Get("❌ Error: %s", lang), api.EscapeText(api.ModeMarkdown, err.Error())))
	default:
		return errors.WithMessage(err, "command "+msg.Command())
	}
	return nil
}

// replyTarget returns the author of the replied-to message.
func replyTarget(msg *api.Message) *api.User {
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		return nil
	}
	return msg.ReplyToMessage.From
}

func commandArgs(msg *api.Message) string {
	return strings.TrimSpace(msg.CommandArguments())
}
