package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamwavecut/tool"

	"github.com/iamwavecut/ngwarden/internal/bot"
	"github.com/iamwavecut/ngwarden/internal/i18n"
	"github.com/iamwavecut/ngwarden/internal/moderation"
)

const (
	callbackAcceptRules = "accept_rules"
	callbackMenuRules   = "menu_rules"
	callbackMenuInfo    = "menu_info"
	callbackMenuHelp    = "menu_help"
	callbackMenuReport  = "menu_report"

	statsTimeLayout = "2006-01-02 15:04"
)

func (r *Reactor) cmdReport(ctx context.Context, msg *api.Message, lang string) error {
	suspect := replyTarget(msg)
	if suspect == nil {
		return usageError{i18n.Get("↩️ Reply to the message you want to report.", lang)}
	}

	text := tool.ExecTemplate(i18n.Get("🚨 *Report* in {{ .chat }}\nFrom: {{ .reporter }}\nSuspect: {{ .suspect }}\nMessage: {{ .text }}{{ if .link }}\n{{ .link }}{{ end }}", lang), map[string]any{
		"chat":     api.EscapeText(api.ModeMarkdown, msg.Chat.Title),
		"reporter": bot.MentionMarkdown(msg.From),
		"suspect":  bot.MentionMarkdown(suspect),
		"text":     api.EscapeText(api.ModeMarkdown, truncate(bot.ExtractText(msg.ReplyToMessage), 300)),
		"link":     messageLink(&msg.Chat, msg.ReplyToMessage.MessageID),
	})

	sent, err := r.engine.Report(ctx, msg.Chat.ID, text)
	if err != nil {
		return err
	}
	if sent == 0 {
		r.reply(msg, i18n.Get("⚠️ No administrator could be reached. They need to start a private chat with the bot first.", lang))
		return nil
	}
	r.reply(msg, fmt.Sprintf(i18n.Get("✅ Report sent to %d administrators.", lang), sent))
	return nil
}

func (r *Reactor) cmdInfo(ctx context.Context, msg *api.Message, lang string) error {
	target := replyTarget(msg)
	if target == nil {
		target = msg.From
	}
	text, err := r.memberInfoText(ctx, msg.Chat.ID, target, lang)
	if err != nil {
		return err
	}
	r.reply(msg, text)
	return nil
}

func (r *Reactor) memberInfoText(ctx context.Context, chatID int64, user *api.User, lang string) (string, error) {
	info, err := r.engine.MemberInfo(ctx, chatID, user.ID)
	if err != nil {
		return "", err
	}
	username := "-"
	if user.UserName != "" {
		username = "@" + api.EscapeText(api.ModeMarkdown, user.UserName)
	}
	muted := i18n.Get("no", lang)
	if info.Muted {
		muted = i18n.Get("yes", lang)
	}

	var b strings.Builder
	b.WriteString(i18n.Get("👤 *Member info*", lang) + "\n\n")
	fmt.Fprintf(&b, i18n.Get("Name: %s", lang)+"\n", bot.MentionMarkdown(user))
	fmt.Fprintf(&b, i18n.Get("Username: %s", lang)+"\n", username)
	fmt.Fprintf(&b, "ID: `%d`\n", user.ID)
	fmt.Fprintf(&b, i18n.Get("Status: %s", lang)+"\n", statusLabel(info.Status, lang))
	fmt.Fprintf(&b, i18n.Get("Warnings: %d", lang)+"\n", info.Warnings)
	fmt.Fprintf(&b, i18n.Get("Muted: %s", lang), muted)
	if info.Muted && !info.MutedUntil.IsZero() {
		fmt.Fprintf(&b, "\n"+i18n.Get("Muted until: %s", lang), info.MutedUntil.UTC().Format(statsTimeLayout))
	}
	if info.Stats != nil {
		b.WriteString("\n\n" + i18n.Get("📊 *Statistics*", lang) + "\n")
		fmt.Fprintf(&b, i18n.Get("Messages: %d", lang)+"\n", info.Stats.MessagesCount)
		fmt.Fprintf(&b, i18n.Get("First seen: %s", lang)+"\n", info.Stats.FirstSeen.Format(statsTimeLayout))
		fmt.Fprintf(&b, i18n.Get("Last seen: %s", lang), info.Stats.LastSeen.Format(statsTimeLayout))
	}
	return b.String(), nil
}

func statusLabel(status moderation.MemberStatus, lang string) string {
	switch status {
	case moderation.StatusCreator:
		return i18n.Get("creator", lang)
	case moderation.StatusAdministrator:
		return i18n.Get("administrator", lang)
	case moderation.StatusMember:
		return i18n.Get("member", lang)
	case moderation.StatusRestricted:
		return i18n.Get("restricted", lang)
	case moderation.StatusLeft:
		return i18n.Get("left", lang)
	case moderation.StatusKicked:
		return i18n.Get("banned", lang)
	default:
		return i18n.Get("unknown", lang)
	}
}

func (r *Reactor) cmdRules(ctx context.Context, msg *api.Message, lang string) error {
	settings, err := r.engine.Settings(ctx, msg.Chat.ID)
	if err != nil {
		return err
	}
	kb := api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData(i18n.Get("✅ I accept the rules", lang), callbackAcceptRules),
		),
	)
	r.replyPlain(msg, settings.Rules, &kb)
	return nil
}

func (r *Reactor) cmdHelp(_ context.Context, msg *api.Message, lang string) error {
	r.reply(msg, helpText(lang))
	return nil
}

func helpText(lang string) string {
	return i18n.Get(`🤖 *Moderation bot*

*For everyone:*
/rules - chat rules
/info - information about you or the replied member
/report - report the replied message to admins
/menu - quick menu

*For admins (reply to a message):*
/ban, /unban - ban or unban
/mute \[10m|2h|1d], /unmute - mute or unmute
/warn \[reason], /unwarn - add or remove a warning
/clear \[N] - delete N messages starting from the replied one
/pin - pin the replied message

*Chat settings (admins):*
/slowmode \[seconds] - 0 disables
/set\_welcome text, /set\_rules text
/add\_badword word, /remove\_badword word
/set\_warnlimit N
/antiflood on|off|<count> <seconds>`, lang)
}

func (r *Reactor) cmdMenu(_ context.Context, msg *api.Message, lang string) error {
	reply := bot.Reply(msg, i18n.Get("👋 Hi! I keep this chat clean. What would you like to do?", lang))
	reply.ReplyMarkup = menuKeyboard(lang)
	if _, err := r.s.GetBot().Send(reply); err != nil {
		r.getLogEntry().WithField("error", err.Error()).Error("cant send menu")
	}
	return nil
}

func menuKeyboard(lang string) api.InlineKeyboardMarkup {
	return api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData(i18n.Get("📋 Rules", lang), callbackMenuRules),
			api.NewInlineKeyboardButtonData(i18n.Get("👤 My info", lang), callbackMenuInfo),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData(i18n.Get("❓ Help", lang), callbackMenuHelp),
			api.NewInlineKeyboardButtonData(i18n.Get("🚨 Report", lang), callbackMenuReport),
		),
	)
}

// messageLink points to a supergroup message, public or private.
func messageLink(chat *api.Chat, messageID int) string {
	if chat == nil || !chat.IsSuperGroup() {
		return ""
	}
	if chat.UserName != "" {
		return fmt.Sprintf("https://t.me/%s/%d", chat.UserName, messageID)
	}
	id := strings.TrimPrefix(strconv.FormatInt(chat.ID, 10), "-100")
	return fmt.Sprintf("https://t.me/c/%s/%d", id, messageID)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
