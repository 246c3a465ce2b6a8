package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/bot"
	"github.com/iamwavecut/ngwarden/internal/i18n"
	"github.com/iamwavecut/ngwarden/internal/moderation"
)

// AccountAgeFunc estimates when an account was created, zero when unknown.
type AccountAgeFunc func(user *api.User) time.Time

// Gatekeeper greets new members and runs the captcha for suspicious ones.
type Gatekeeper struct {
	s              bot.Service
	engine         *moderation.Engine
	accountCreated AccountAgeFunc
}

// NewGatekeeper uses accountCreated to judge newcomers; nil means the creation
// time is never known.
func NewGatekeeper(s bot.Service, accountCreated AccountAgeFunc) *Gatekeeper {
	if accountCreated == nil {
		accountCreated = func(*api.User) time.Time { return time.Time{} }
	}
	g := &Gatekeeper{
		s:              s,
		engine:         s.GetEngine(),
		accountCreated: accountCreated,
	}
	g.getLogEntry().Debug("created new gatekeeper")
	return g
}

func (g *Gatekeeper) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if u == nil {
		return false, errors.New("nil update")
	}
	if chat == nil || user == nil {
		return true, nil
	}

	if cq := u.CallbackQuery; cq != nil {
		if _, _, ok := parseChallengeData(cq.Data); !ok {
			return true, nil
		}
		return false, g.handleChallenge(ctx, cq, chat, user)
	}

	msg := u.Message
	if msg == nil || !isGroup(chat) {
		return true, nil
	}
	switch {
	case len(msg.NewChatMembers) > 0:
		return false, g.handleNewChatMembers(ctx, msg, chat)
	case msg.LeftChatMember != nil:
		g.getLogEntry().WithFields(log.Fields{"chat": chat.ID, "user": msg.LeftChatMember.ID}).Info("member left")
		return false, nil
	}
	return true, nil
}

func (g *Gatekeeper) getLogEntry() *log.Entry {
	return log.WithField("object", "Gatekeeper")
}

func (g *Gatekeeper) handleNewChatMembers(ctx context.Context, msg *api.Message, chat *api.Chat) error {
	settings, err := g.engine.Settings(ctx, chat.ID)
	if err != nil {
		return errors.WithMessage(err, "get settings")
	}

	for i := range msg.NewChatMembers {
		newcomer := &msg.NewChatMembers[i]
		if newcomer.ID == g.s.GetBotID() {
			continue
		}
		entry := g.getLogEntry().WithFields(log.Fields{"chat": chat.ID, "user": newcomer.ID})

		admission, err := g.engine.Admit(ctx, moderation.Newcomer{
			ChatID:    chat.ID,
			UserID:    newcomer.ID,
			IsBot:     newcomer.IsBot,
			CreatedAt: g.accountCreated(newcomer),
		})
		if err != nil {
			entry.WithField("error", err.Error()).Warn("cant restrict newcomer")
		}
		if admission.Skip {
			continue
		}

		lang := g.s.GetLanguage(newcomer)
		text := renderWelcome(settings.WelcomeMessage, newcomer, chat)
		reply := bot.Reply(msg, text)
		reply.ParseMode = ""
		if c := admission.Challenge; c != nil {
			reply.Text += "\n\n" + i18n.Get("⚠️ Your account is very new. Solve the example to start writing:", lang) + "\n" + c.Question()
			reply.ReplyMarkup = api.NewInlineKeyboardMarkup(api.NewInlineKeyboardRow(captchaButtons(c)...))
		}
		if _, err := g.s.GetBot().Send(reply); err != nil {
			entry.WithField("error", err.Error()).Error("cant send welcome")
		}
	}
	return nil
}

// renderWelcome substitutes {name} and {chat_title}.
func renderWelcome(template string, user *api.User, chat *api.Chat) string {
	return strings.NewReplacer(
		"{name}", bot.GetFullName(user),
		"{chat_title}", chat.Title,
	).Replace(template)
}

func (g *Gatekeeper) handleChallenge(ctx context.Context, cq *api.CallbackQuery, chat *api.Chat, user *api.User) error {
	targetID, token, _ := parseChallengeData(cq.Data)
	lang := g.s.GetLanguage(user)
	entry := g.getLogEntry().WithFields(log.Fields{"method": "handleChallenge", "chat": chat.ID, "user": user.ID, "target": targetID})

	outcome, err := g.engine.SolveChallenge(ctx, chat.ID, user.ID, targetID, token)
	if err != nil {
		entry.WithField("error", err.Error()).Warn("cant lift newcomer restriction")
	}

	var answer api.CallbackConfig
	switch outcome {
	case moderation.ChallengeForeign:
		answer = api.NewCallbackWithAlert(cq.ID, i18n.Get("⛔ This check is not for you.", lang))
	case moderation.ChallengeFailed:
		entry.Info("wrong captcha answer")
		answer = api.NewCallbackWithAlert(cq.ID, i18n.Get("❌ Wrong answer, try again.", lang))
	case moderation.ChallengeSolved:
		entry.Info("captcha solved")
		answer = api.NewCallback(cq.ID, i18n.Get("✅ Correct!", lang))
		if cq.Message != nil {
			edit := api.NewEditMessageText(chat.ID, cq.Message.MessageID, i18n.Get("✅ Check passed. Welcome,", lang)+" "+bot.GetFullName(user)+"!")
			if _, err := g.s.GetBot().Send(edit); err != nil {
				entry.WithField("error", err.Error()).Debug("cant edit challenge message")
			}
		}
	default:
		answer = api.NewCallback(cq.ID, i18n.Get("⌛ This check is no longer active.", lang))
	}
	if _, err := g.s.GetBot().Request(answer); err != nil {
		entry.WithField("error", err.Error()).Error("cant answer callback")
	}
	return nil
}

// parseChallengeData splits "<userID>;<token>" button data.
func parseChallengeData(data string) (int64, string, bool) {
	rawID, token, found := strings.Cut(data, ";")
	if !found || token == "" {
		return 0, "", false
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return userID, token, true
}
