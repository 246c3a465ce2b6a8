package db

const (
	DefaultWelcomeMessage = "👋 Welcome, {name}!\nPlease read the rules: /rules"
	DefaultRules          = "📋 Chat rules:\n1. Respect each other\n2. No spam\n3. No insults\n4. No advertising\n5. The admin is always right 😉"
)

// SettingsDefaults are applied to chats seen for the first time.
type SettingsDefaults struct {
	WarnLimit        int
	AntifloodCount   int
	AntifloodSeconds int
}

var FallbackDefaults = SettingsDefaults{
	WarnLimit:        3,
	AntifloodCount:   5,
	AntifloodSeconds: 10,
}

func DefaultSettings(chatID int64, d SettingsDefaults) *ChatSettings {
	if d.WarnLimit < 1 {
		d.WarnLimit = FallbackDefaults.WarnLimit
	}
	if d.AntifloodCount < 1 {
		d.AntifloodCount = FallbackDefaults.AntifloodCount
	}
	if d.AntifloodSeconds < 1 {
		d.AntifloodSeconds = FallbackDefaults.AntifloodSeconds
	}
	return &ChatSettings{
		ChatID:           chatID,
		WelcomeMessage:   DefaultWelcomeMessage,
		Rules:            DefaultRules,
		WarnLimit:        d.WarnLimit,
		AntifloodEnabled: true,
		AntifloodCount:   d.AntifloodCount,
		AntifloodSeconds: d.AntifloodSeconds,
		BadWords:         WordList{},
	}
}
