package handlers

import (
	"strconv"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pborman/uuid"

	"github.com/iamwavecut/ngwarden/internal/moderation"
)

// captchaButtons renders one button per option. Only the correct one carries
// the success token; the rest get throwaway ones.
func captchaButtons(c *moderation.Challenge) []api.InlineKeyboardButton {
	prefix := strconv.FormatInt(c.UserID, 10) + ";"
	buttons := make([]api.InlineKeyboardButton, 0, len(c.Options))
	for _, option := range c.Options {
		data := prefix + uuid.New()
		if option == c.Answer() {
			data = prefix + c.SuccessUUID
		}
		buttons = append(buttons, api.NewInlineKeyboardButtonData(strconv.Itoa(option), data))
	}
	return buttons
}
