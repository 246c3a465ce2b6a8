package moderation

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/observability"
	"github.com/iamwavecut/ngwarden/internal/policy/permissions"
)

type (
	Newcomer struct {
		ChatID int64
		UserID int64
		IsBot  bool
		// CreatedAt is the account creation time, zero when unknown.
		CreatedAt time.Time
	}

	// Admission tells the caller what to present to a newcomer. Challenge is
	// nil unless the account looks suspicious.
	Admission struct {
		Skip      bool
		Challenge *Challenge
	}
)

// IsSuspicious reports accounts younger than the configured age. Unknown
// creation time never counts as suspicious.
func (e *Engine) IsSuspicious(createdAt time.Time) bool {
	if createdAt.IsZero() {
		return false
	}
	return e.now().Sub(createdAt) < e.suspiciousAge
}

// Admit decides how a new member is greeted. Suspicious members get a pending
// challenge and lose the right to post until it is solved.
func (e *Engine) Admit(ctx context.Context, n Newcomer) (Admission, error) {
	if n.IsBot {
		return Admission{Skip: true}, nil
	}
	if !e.IsSuspicious(n.CreatedAt) {
		return Admission{}, nil
	}

	ctx, span := e.startSpan(ctx, "Admit", n.ChatID, n.UserID)
	defer span.End()

	challenge := e.challenges.Issue(n.ChatID, n.UserID, e.now())
	e.getLogEntry().WithFields(log.Fields{"chat": n.ChatID, "user": n.UserID}).Info("suspicious newcomer challenged")
	observability.RecordAction("challenge")
	return Admission{Challenge: challenge}, e.restrict(ctx, n.ChatID, n.UserID, permissions.MutedPermissions(), time.Time{})
}

// SolveChallenge checks a button press. Only the challenged member may answer;
// the correct answer lifts the restriction.
func (e *Engine) SolveChallenge(ctx context.Context, chatID, presserID, targetID int64, token string) (ChallengeOutcome, error) {
	if presserID != targetID {
		return ChallengeForeign, nil
	}
	ctx, span := e.startSpan(ctx, "SolveChallenge", chatID, targetID)
	defer span.End()

	outcome := e.challenges.Resolve(chatID, targetID, token)
	if outcome != ChallengeSolved {
		return outcome, nil
	}
	observability.RecordAction("challenge_solved")
	return outcome, e.restrict(ctx, chatID, targetID, permissions.DefaultPermissions(), time.Time{})
}

func (e *Engine) PendingChallenge(chatID, userID int64) (*Challenge, bool) {
	return e.challenges.Get(chatID, userID)
}
