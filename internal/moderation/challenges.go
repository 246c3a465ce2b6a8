package moderation

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/iamwavecut/tool"
	"github.com/pborman/uuid"
)

const (
	challengeCacheSize = 4096
	challengeOptions   = 4
	operandMin         = 1
	operandMax         = 10
)

type (
	// Challenge is the pending arithmetic question of a suspicious member.
	Challenge struct {
		ChatID      int64
		UserID      int64
		SuccessUUID string
		A, B        int
		Options     []int
		CreatedAt   time.Time
	}

	ChallengeOutcome int

	ChallengeRegistry struct {
		mu    sync.Mutex
		items *expirable.LRU[ChatUser, *Challenge]
	}
)

const (
	ChallengeMissing ChallengeOutcome = iota
	ChallengeSolved
	ChallengeFailed
	// ChallengeForeign is a press by someone other than the challenged member.
	ChallengeForeign
)

func (c *Challenge) Answer() int {
	return c.A + c.B
}

func (c *Challenge) Question() string {
	return fmt.Sprintf("%d + %d = ?", c.A, c.B)
}

func NewChallengeRegistry(ttl time.Duration) *ChallengeRegistry {
	return &ChallengeRegistry{
		items: expirable.NewLRU[ChatUser, *Challenge](challengeCacheSize, nil, ttl),
	}
}

// Issue creates a fresh challenge for the member, replacing a pending one.
func (r *ChallengeRegistry) Issue(chatID, userID int64, now time.Time) *Challenge {
	c := &Challenge{
		ChatID:      chatID,
		UserID:      userID,
		SuccessUUID: uuid.New(),
		A:           tool.RandInt(operandMin, operandMax),
		B:           tool.RandInt(operandMin, operandMax),
		CreatedAt:   now,
	}
	c.Options = answerOptions(c.Answer())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items.Add(ChatUser{ChatID: chatID, UserID: userID}, c)
	return c
}

func (r *ChallengeRegistry) Get(chatID, userID int64) (*Challenge, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items.Peek(ChatUser{ChatID: chatID, UserID: userID})
}

// Resolve checks the token of a pressed button. A solved challenge is removed;
// a failed one stays so the member can try again.
func (r *ChallengeRegistry) Resolve(chatID, userID int64, token string) ChallengeOutcome {
	key := ChatUser{ChatID: chatID, UserID: userID}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items.Peek(key)
	if !ok {
		return ChallengeMissing
	}
	if token != c.SuccessUUID {
		return ChallengeFailed
	}
	r.items.Remove(key)
	return ChallengeSolved
}

// answerOptions returns the answer mixed with distinct wrong sums in shuffled order.
func answerOptions(answer int) []int {
	const lo, hi = 2 * operandMin, 2 * operandMax
	options := []int{answer}
	used := map[int]struct{}{answer: {}}
	for len(options) < challengeOptions {
		v := tool.RandInt(lo, hi)
		if _, ok := used[v]; ok {
			continue
		}
		used[v] = struct{}{}
		options = append(options, v)
	}
	for i := len(options) - 1; i > 0; i-- {
		j := tool.RandInt(0, i)
		options[i], options[j] = options[j], options[i]
	}
	return options
}
