package bot

import (
	"fmt"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
)

func GetFullName(user *api.User) string {
	if user == nil {
		return ""
	}
	fullName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if len(fullName) == 0 {
		fullName = user.UserName
	}
	return fullName
}

// MentionMarkdown links the user's escaped full name to their profile.
func MentionMarkdown(user *api.User) string {
	if user == nil {
		return ""
	}
	return fmt.Sprintf("[%s](tg://user?id=%d)", api.EscapeText(api.ModeMarkdown, GetFullName(user)), user.ID)
}

// ExtractText returns the text and caption of a message joined by a space.
func ExtractText(msg *api.Message) string {
	if msg == nil {
		return ""
	}
	return strings.TrimSpace(msg.Text + " " + msg.Caption)
}

// Reply builds a Markdown reply to msg that survives its deletion.
func Reply(msg *api.Message, text string) api.MessageConfig {
	reply := api.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = api.ModeMarkdown
	reply.LinkPreviewOptions.IsDisabled = true
	reply.ReplyParameters = api.ReplyParameters{
		MessageID:                msg.MessageID,
		ChatID:                   msg.Chat.ID,
		AllowSendingWithoutReply: true,
	}
	return reply
}
