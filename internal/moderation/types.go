package moderation

import (
	"context"
	"time"

	"github.com/iamwavecut/ngwarden/internal/db"
	"github.com/iamwavecut/ngwarden/internal/policy/permissions"
)

type (
	ChatUser struct {
		ChatID int64
		UserID int64
	}

	MemberStatus string

	Member struct {
		UserID int64
		IsBot  bool
		Status MemberStatus
	}

	// Store is the persistence the engine relies on.
	Store interface {
		GetSettings(ctx context.Context, chatID int64) (*db.ChatSettings, error)
		UpdateWelcome(ctx context.Context, chatID int64, text string) error
		UpdateRules(ctx context.Context, chatID int64, text string) error
		UpdateBadWords(ctx context.Context, chatID int64, words db.WordList) error
		UpdateSlowmode(ctx context.Context, chatID int64, seconds int) error
		UpdateWarnLimit(ctx context.Context, chatID int64, limit int) error
		UpdateAntiflood(ctx context.Context, chatID int64, enabled bool, count, seconds int) error

		AddWarning(ctx context.Context, warning *db.Warning) (int, error)
		RemoveWarning(ctx context.Context, chatID, userID int64) (int, error)
		ClearWarnings(ctx context.Context, chatID, userID int64) error
		WarningCount(ctx context.Context, chatID, userID int64) (int, error)

		AddMute(ctx context.Context, chatID, userID int64, durationSeconds int) (time.Time, error)
		RemoveMute(ctx context.Context, chatID, userID int64) error
		IsMuted(ctx context.Context, chatID, userID int64) (bool, error)
		MuteExpiry(ctx context.Context, chatID, userID int64) (time.Time, error)

		UpdateUserStats(ctx context.Context, chatID, userID int64, username, firstName string) error
		GetUserStats(ctx context.Context, chatID, userID int64) (*db.UserStats, error)
	}

	// Platform is the chat service the engine acts upon.
	Platform interface {
		BanMember(ctx context.Context, chatID, userID int64) error
		UnbanMember(ctx context.Context, chatID, userID int64) error
		RestrictMember(ctx context.Context, chatID, userID int64, caps permissions.Capabilities, until time.Time) error
		DeleteMessage(ctx context.Context, chatID int64, messageID int) error
		SendMessage(ctx context.Context, chatID int64, text string) (int, error)
		PinMessage(ctx context.Context, chatID int64, messageID int) error
		GetAdministrators(ctx context.Context, chatID int64) ([]Member, error)
		GetMember(ctx context.Context, chatID, userID int64) (MemberStatus, error)
	}

	AdminChecker interface {
		IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
	}
)

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
	StatusUnknown       MemberStatus = "unknown"
)

func (s MemberStatus) IsAdmin() bool {
	return s == StatusCreator || s == StatusAdministrator
}
