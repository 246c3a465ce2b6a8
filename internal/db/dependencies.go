package db

import (
	"context"
	"time"
)

type Client interface {
	Close() error

	GetSettings(ctx context.Context, chatID int64) (*ChatSettings, error)
	UpdateWelcome(ctx context.Context, chatID int64, text string) error
	UpdateRules(ctx context.Context, chatID int64, text string) error
	UpdateBadWords(ctx context.Context, chatID int64, words WordList) error
	UpdateSlowmode(ctx context.Context, chatID int64, seconds int) error
	UpdateWarnLimit(ctx context.Context, chatID int64, limit int) error
	UpdateAntiflood(ctx context.Context, chatID int64, enabled bool, count, seconds int) error

	AddWarning(ctx context.Context, warning *Warning) (int, error)
	RemoveWarning(ctx context.Context, chatID, userID int64) (int, error)
	ClearWarnings(ctx context.Context, chatID, userID int64) error
	WarningCount(ctx context.Context, chatID, userID int64) (int, error)

	AddMute(ctx context.Context, chatID, userID int64, durationSeconds int) (time.Time, error)
	RemoveMute(ctx context.Context, chatID, userID int64) error
	IsMuted(ctx context.Context, chatID, userID int64) (bool, error)
	MuteExpiry(ctx context.Context, chatID, userID int64) (time.Time, error)

	UpdateUserStats(ctx context.Context, chatID, userID int64, username, firstName string) error
	GetUserStats(ctx context.Context, chatID, userID int64) (*UserStats, error)
}
