package moderation

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/iamwavecut/ngwarden/internal/db"
	ngerrors "github.com/iamwavecut/ngwarden/internal/errors"
	"github.com/iamwavecut/ngwarden/internal/observability"
	"github.com/iamwavecut/ngwarden/internal/policy/permissions"
)

const (
	defaultMuteDuration  = time.Hour
	defaultFloodMute     = 5 * time.Minute
	defaultSuspiciousAge = 7 * 24 * time.Hour
	defaultAdminCacheTTL = 5 * time.Minute
	defaultChallengeTTL  = 24 * time.Hour
	defaultClearInterval = 500 * time.Millisecond
	defaultReportFanout  = 5
)

type (
	// Engine applies moderation rules on top of a Store and a Platform.
	Engine struct {
		store    Store
		platform Platform
		admins   AdminChecker

		flood      *FloodDetector
		slowmode   *Slowmode
		challenges *ChallengeRegistry

		botID         int64
		defaultMute   time.Duration
		floodMute     time.Duration
		suspiciousAge time.Duration
		adminCacheTTL time.Duration
		challengeTTL  time.Duration
		clearInterval time.Duration
		reportFanout  int

		now    func() time.Time
		tracer trace.Tracer
	}

	Option func(*Engine)
)

func WithBotID(id int64) Option {
	return func(e *Engine) { e.botID = id }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithDefaultMute(d time.Duration) Option {
	return func(e *Engine) { e.defaultMute = d }
}

func WithFloodMute(d time.Duration) Option {
	return func(e *Engine) { e.floodMute = d }
}

func WithSuspiciousAge(d time.Duration) Option {
	return func(e *Engine) { e.suspiciousAge = d }
}

func WithAdminCacheTTL(d time.Duration) Option {
	return func(e *Engine) { e.adminCacheTTL = d }
}

func WithAdminChecker(c AdminChecker) Option {
	return func(e *Engine) { e.admins = c }
}

// WithClearInterval sets the pause between bulk deletions, 0 disables pacing.
func WithClearInterval(d time.Duration) Option {
	return func(e *Engine) { e.clearInterval = d }
}

func NewEngine(store Store, platform Platform, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		platform:      platform,
		flood:         NewFloodDetector(),
		slowmode:      NewSlowmode(),
		defaultMute:   defaultMuteDuration,
		floodMute:     defaultFloodMute,
		suspiciousAge: defaultSuspiciousAge,
		adminCacheTTL: defaultAdminCacheTTL,
		challengeTTL:  defaultChallengeTTL,
		clearInterval: defaultClearInterval,
		reportFanout:  defaultReportFanout,
		now:           time.Now,
		tracer:        observability.Tracer("moderation"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.admins == nil {
		e.admins = NewCachedAdminChecker(platform, e.adminCacheTTL)
	}
	e.challenges = NewChallengeRegistry(e.challengeTTL)
	return e
}

func (e *Engine) getLogEntry() *log.Entry {
	return log.WithField("object", "Engine")
}

func (e *Engine) startSpan(ctx context.Context, name string, chatID, userID int64) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "moderation."+name, trace.WithAttributes(
		attribute.Int64("chat_id", chatID),
		attribute.Int64("user_id", userID),
	))
}

func (e *Engine) DefaultMute() time.Duration {
	return e.defaultMute
}

func (e *Engine) FloodMute() time.Duration {
	return e.floodMute
}

func (e *Engine) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	return e.admins.IsAdmin(ctx, chatID, userID)
}

// RequireAdmin returns ErrPermissionDenied for anyone but chat administrators.
func (e *Engine) RequireAdmin(ctx context.Context, chatID, userID int64) error {
	isAdmin, err := e.admins.IsAdmin(ctx, chatID, userID)
	if err != nil {
		return ngerrors.Platform("get member", err)
	}
	if !isAdmin {
		return ngerrors.ErrPermissionDenied
	}
	return nil
}

func (e *Engine) Settings(ctx context.Context, chatID int64) (*db.ChatSettings, error) {
	return e.store.GetSettings(ctx, chatID)
}

// deleteQuietly removes a message, logging a refusal instead of returning it.
func (e *Engine) deleteQuietly(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := e.platform.DeleteMessage(ctx, chatID, messageID); err != nil {
		e.getLogEntry().WithFields(log.Fields{
			"chat":    chatID,
			"message": messageID,
			"error":   err.Error(),
		}).Warn("cant delete message")
	}
}

func (e *Engine) restrict(ctx context.Context, chatID, userID int64, caps permissions.Capabilities, until time.Time) error {
	return ngerrors.Platform("restrict", e.platform.RestrictMember(ctx, chatID, userID, caps, until))
}
