package moderation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/db"
	ngerrors "github.com/iamwavecut/ngwarden/internal/errors"
	"github.com/iamwavecut/ngwarden/internal/observability"
	"github.com/iamwavecut/ngwarden/internal/policy/permissions"
)

// WarnOutcome describes the state after a warning. Count is the number of
// warnings that led to the decision; once Banned the stored count is zero.
type WarnOutcome struct {
	Count  int
	Limit  int
	Banned bool
}

// Warn records a warning and bans the member once the chat's limit is reached.
// When the ban is refused the warnings are kept and a PlatformError is returned.
func (e *Engine) Warn(ctx context.Context, chatID, userID, issuerID int64, reason string) (WarnOutcome, error) {
	ctx, span := e.startSpan(ctx, "Warn", chatID, userID)
	defer span.End()

	settings, err := e.store.GetSettings(ctx, chatID)
	if err != nil {
		return WarnOutcome{}, errors.WithMessage(err, "get settings")
	}
	count, err := e.store.AddWarning(ctx, &db.Warning{
		ChatID:   chatID,
		UserID:   userID,
		IssuerID: issuerID,
		Reason:   reason,
	})
	if err != nil {
		return WarnOutcome{}, errors.WithMessage(err, "add warning")
	}
	observability.RecordAction("warn")

	outcome := WarnOutcome{Count: count, Limit: settings.WarnLimit}
	if count < settings.WarnLimit {
		return outcome, nil
	}

	if err := e.platform.BanMember(ctx, chatID, userID); err != nil {
		span.RecordError(err)
		return outcome, ngerrors.Platform("ban", err)
	}
	observability.RecordAction("ban")
	if err := e.store.ClearWarnings(ctx, chatID, userID); err != nil {
		return outcome, errors.WithMessage(err, "clear warnings")
	}
	outcome.Banned = true
	e.getLogEntry().WithFields(log.Fields{"chat": chatID, "user": userID, "warnings": count}).Info("warn limit reached, banned")
	return outcome, nil
}

// Unwarn removes the latest warning and returns how many are left.
func (e *Engine) Unwarn(ctx context.Context, chatID, userID int64) (int, error) {
	ctx, span := e.startSpan(ctx, "Unwarn", chatID, userID)
	defer span.End()

	count, err := e.store.RemoveWarning(ctx, chatID, userID)
	if err != nil {
		return 0, errors.WithMessage(err, "remove warning")
	}
	observability.RecordAction("unwarn")
	return count, nil
}

func (e *Engine) Ban(ctx context.Context, chatID, userID int64) error {
	ctx, span := e.startSpan(ctx, "Ban", chatID, userID)
	defer span.End()

	if err := e.platform.BanMember(ctx, chatID, userID); err != nil {
		span.RecordError(err)
		return ngerrors.Platform("ban", err)
	}
	observability.RecordAction("ban")
	return errors.WithMessage(e.store.ClearWarnings(ctx, chatID, userID), "clear warnings")
}

func (e *Engine) Unban(ctx context.Context, chatID, userID int64) error {
	ctx, span := e.startSpan(ctx, "Unban", chatID, userID)
	defer span.End()

	if err := e.platform.UnbanMember(ctx, chatID, userID); err != nil {
		span.RecordError(err)
		return ngerrors.Platform("unban", err)
	}
	observability.RecordAction("unban")
	return nil
}

// Mute persists the mute and restricts the member until it expires. A refused
// restriction rolls the store back to the mute that was active before, if any.
func (e *Engine) Mute(ctx context.Context, chatID, userID int64, duration time.Duration) (time.Time, error) {
	ctx, span := e.startSpan(ctx, "Mute", chatID, userID)
	defer span.End()
	return e.mute(ctx, chatID, userID, duration, "mute")
}

func (e *Engine) mute(ctx context.Context, chatID, userID int64, duration time.Duration, action string) (time.Time, error) {
	seconds := int(duration / time.Second)
	if seconds <= 0 {
		seconds = int(e.defaultMute / time.Second)
	}
	previous, err := e.store.MuteExpiry(ctx, chatID, userID)
	if err != nil {
		return time.Time{}, errors.WithMessage(err, "get mute")
	}
	expiresAt, err := e.store.AddMute(ctx, chatID, userID, seconds)
	if err != nil {
		return time.Time{}, errors.WithMessage(err, "add mute")
	}
	if err := e.restrict(ctx, chatID, userID, permissions.MutedPermissions(), expiresAt); err != nil {
		if rbErr := e.rollbackMute(ctx, chatID, userID, previous); rbErr != nil {
			e.getLogEntry().WithFields(log.Fields{"chat": chatID, "user": userID, "error": rbErr.Error()}).Error("cant roll back mute")
		}
		return time.Time{}, err
	}
	observability.RecordAction(action)
	return expiresAt, nil
}

func (e *Engine) rollbackMute(ctx context.Context, chatID, userID int64, previous time.Time) error {
	remaining := previous.Sub(e.now())
	if previous.IsZero() || remaining <= 0 {
		return e.store.RemoveMute(ctx, chatID, userID)
	}
	seconds := int((remaining + time.Second - 1) / time.Second)
	_, err := e.store.AddMute(ctx, chatID, userID, seconds)
	return err
}

// Unmute restores default rights, then forgets the stored mute.
func (e *Engine) Unmute(ctx context.Context, chatID, userID int64) error {
	ctx, span := e.startSpan(ctx, "Unmute", chatID, userID)
	defer span.End()

	if err := e.restrict(ctx, chatID, userID, permissions.DefaultPermissions(), time.Time{}); err != nil {
		return err
	}
	if err := e.store.RemoveMute(ctx, chatID, userID); err != nil {
		return errors.WithMessage(err, "remove mute")
	}
	observability.RecordAction("unmute")
	return nil
}

func (e *Engine) IsMuted(ctx context.Context, chatID, userID int64) (bool, error) {
	return e.store.IsMuted(ctx, chatID, userID)
}

func (e *Engine) Pin(ctx context.Context, chatID int64, messageID int) error {
	if err := e.platform.PinMessage(ctx, chatID, messageID); err != nil {
		return ngerrors.Platform("pin", err)
	}
	observability.RecordAction("pin")
	return nil
}
