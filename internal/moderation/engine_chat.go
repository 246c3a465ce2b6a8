package moderation

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/iamwavecut/ngwarden/internal/db"
	ngerrors "github.com/iamwavecut/ngwarden/internal/errors"
	"github.com/iamwavecut/ngwarden/internal/observability"
)

const (
	ClearDefault    = 10
	ClearMax        = 100
	SlowmodeDefault = 5
	SlowmodeMax     = 300
)

// MemberInfo is the summary shown by /info.
type MemberInfo struct {
	Status     MemberStatus
	Warnings   int
	Muted      bool
	MutedUntil time.Time // zero unless Muted
	Stats      *db.UserStats
}

// Report sends text to every human administrator of the chat and returns how
// many received it.
func (e *Engine) Report(ctx context.Context, chatID int64, text string) (int, error) {
	ctx, span := e.startSpan(ctx, "Report", chatID, 0)
	defer span.End()

	admins, err := e.platform.GetAdministrators(ctx, chatID)
	if err != nil {
		return 0, ngerrors.Platform("get administrators", err)
	}

	var sent atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.reportFanout)
	for _, admin := range admins {
		if admin.IsBot {
			continue
		}
		g.Go(func() error {
			if _, err := e.platform.SendMessage(gctx, admin.UserID, text); err != nil {
				// admins who never started a private chat refuse DMs
				e.getLogEntry().WithFields(log.Fields{"admin": admin.UserID, "error": err.Error()}).Debug("cant deliver report")
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	observability.RecordAction("report")
	return int(sent.Load()), nil
}

// Clear deletes count messages starting at fromMessageID, paced to stay under
// platform limits. Messages that cannot be deleted are skipped.
func (e *Engine) Clear(ctx context.Context, chatID int64, fromMessageID, count int) (int, error) {
	ctx, span := e.startSpan(ctx, "Clear", chatID, 0)
	defer span.End()

	count = max(1, min(count, ClearMax))
	limiter := rate.NewLimiter(rate.Every(e.clearInterval), 1)
	deleted := 0
	for i := 0; i < count; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return deleted, err
		}
		if err := e.platform.DeleteMessage(ctx, chatID, fromMessageID+i); err != nil {
			continue
		}
		deleted++
	}
	observability.RecordAction("clear")
	return deleted, nil
}

func (e *Engine) MemberInfo(ctx context.Context, chatID, userID int64) (*MemberInfo, error) {
	info := &MemberInfo{Status: StatusUnknown}
	status, err := e.platform.GetMember(ctx, chatID, userID)
	if err == nil {
		info.Status = status
	}
	if info.Warnings, err = e.store.WarningCount(ctx, chatID, userID); err != nil {
		return nil, errors.WithMessage(err, "count warnings")
	}
	if info.Muted, err = e.store.IsMuted(ctx, chatID, userID); err != nil {
		return nil, errors.WithMessage(err, "check mute")
	}
	if info.Muted {
		if info.MutedUntil, err = e.store.MuteExpiry(ctx, chatID, userID); err != nil {
			return nil, errors.WithMessage(err, "get mute")
		}
	}
	if info.Stats, err = e.store.GetUserStats(ctx, chatID, userID); err != nil {
		return nil, errors.WithMessage(err, "get stats")
	}
	return info, nil
}

func (e *Engine) SetWelcome(ctx context.Context, chatID int64, text string) error {
	return e.store.UpdateWelcome(ctx, chatID, text)
}

func (e *Engine) SetRules(ctx context.Context, chatID int64, text string) error {
	return e.store.UpdateRules(ctx, chatID, text)
}

// AddBadWord stores word lower-cased; false means it was already listed.
func (e *Engine) AddBadWord(ctx context.Context, chatID int64, word string) (bool, error) {
	settings, err := e.store.GetSettings(ctx, chatID)
	if err != nil {
		return false, err
	}
	words := settings.BadWords.With(word)
	if len(words) == len(settings.BadWords) {
		return false, nil
	}
	return true, e.store.UpdateBadWords(ctx, chatID, words)
}

// RemoveBadWord returns ErrNotFound when the word is not listed.
func (e *Engine) RemoveBadWord(ctx context.Context, chatID int64, word string) error {
	settings, err := e.store.GetSettings(ctx, chatID)
	if err != nil {
		return err
	}
	words := settings.BadWords.Without(word)
	if len(words) == len(settings.BadWords) {
		return ngerrors.ErrNotFound
	}
	return e.store.UpdateBadWords(ctx, chatID, words)
}

// SetSlowmode clamps seconds to [0, SlowmodeMax] and returns the stored value.
func (e *Engine) SetSlowmode(ctx context.Context, chatID int64, seconds int) (int, error) {
	seconds = max(0, min(seconds, SlowmodeMax))
	return seconds, e.store.UpdateSlowmode(ctx, chatID, seconds)
}

func (e *Engine) SetWarnLimit(ctx context.Context, chatID int64, limit int) error {
	return e.store.UpdateWarnLimit(ctx, chatID, limit)
}

func (e *Engine) SetAntiflood(ctx context.Context, chatID int64, enabled bool, count int, window time.Duration) error {
	return e.store.UpdateAntiflood(ctx, chatID, enabled, count, int(window/time.Second))
}
