package moderation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/observability"
)

type (
	// Message is an inbound group message as seen by the pipeline.
	Message struct {
		ChatID    int64
		MessageID int
		UserID    int64
		Username  string
		FirstName string
		// Text holds the message text or the media caption.
		Text string
	}

	VerdictAction int

	Verdict struct {
		Action VerdictAction
		// Word is the matched banned word for VerdictProfanity.
		Word string
		// Warn is set for VerdictProfanity.
		Warn WarnOutcome
		// MutedUntil is set for VerdictFlood.
		MutedUntil time.Time
	}
)

const (
	VerdictPass VerdictAction = iota
	VerdictMuted
	VerdictFlood
	VerdictSlowmode
	VerdictProfanity
)

func (a VerdictAction) String() string {
	switch a {
	case VerdictMuted:
		return "muted"
	case VerdictFlood:
		return "flood"
	case VerdictSlowmode:
		return "slowmode"
	case VerdictProfanity:
		return "profanity"
	default:
		return "pass"
	}
}

// HandleMessage runs a group message through mute, stats, antiflood, slowmode
// and word filter checks, stopping at the first one that acts.
func (e *Engine) HandleMessage(ctx context.Context, msg Message) (Verdict, error) {
	ctx, span := e.startSpan(ctx, "HandleMessage", msg.ChatID, msg.UserID)
	defer span.End()
	entry := e.getLogEntry().WithFields(log.Fields{"method": "HandleMessage", "chat": msg.ChatID, "user": msg.UserID})

	muted, err := e.store.IsMuted(ctx, msg.ChatID, msg.UserID)
	if err != nil {
		return Verdict{}, errors.WithMessage(err, "check mute")
	}
	if muted {
		e.deleteQuietly(ctx, msg.ChatID, msg.MessageID)
		observability.RecordAction("delete_muted")
		return Verdict{Action: VerdictMuted}, nil
	}

	if err := e.store.UpdateUserStats(ctx, msg.ChatID, msg.UserID, msg.Username, msg.FirstName); err != nil {
		entry.WithField("error", err.Error()).Warn("cant update user stats")
	}

	settings, err := e.store.GetSettings(ctx, msg.ChatID)
	if err != nil {
		return Verdict{}, errors.WithMessage(err, "get settings")
	}

	now := e.now()
	key := ChatUser{ChatID: msg.ChatID, UserID: msg.UserID}

	if settings.AntifloodEnabled && e.flood.Hit(key, now, settings.AntifloodCount, settings.AntifloodWindow()) {
		entry.Info("flood detected")
		e.deleteQuietly(ctx, msg.ChatID, msg.MessageID)
		until, err := e.mute(ctx, msg.ChatID, msg.UserID, e.floodMute, "flood_mute")
		return Verdict{Action: VerdictFlood, MutedUntil: until}, err
	}

	if !e.slowmode.Allow(key, now, settings.Slowmode()) {
		e.deleteQuietly(ctx, msg.ChatID, msg.MessageID)
		observability.RecordAction("slowmode_delete")
		return Verdict{Action: VerdictSlowmode}, nil
	}

	if word, ok := MatchBannedWord(msg.Text, settings.BadWords); ok {
		entry.WithField("word", word).Info("banned word")
		e.deleteQuietly(ctx, msg.ChatID, msg.MessageID)
		outcome, err := e.Warn(ctx, msg.ChatID, msg.UserID, e.botID, "profanity: "+word)
		return Verdict{Action: VerdictProfanity, Word: word, Warn: outcome}, err
	}

	return Verdict{Action: VerdictPass}, nil
}
