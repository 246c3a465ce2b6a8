package moderation

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	log "github.com/sirupsen/logrus"
)

const adminCacheSize = 4096

// CachedAdminChecker resolves admin rights with a live member lookup and keeps
// the answer for ttl.
type CachedAdminChecker struct {
	platform Platform
	cache    *expirable.LRU[ChatUser, bool]
}

func NewCachedAdminChecker(platform Platform, ttl time.Duration) *CachedAdminChecker {
	return &CachedAdminChecker{
		platform: platform,
		cache:    expirable.NewLRU[ChatUser, bool](adminCacheSize, nil, ttl),
	}
}

func (c *CachedAdminChecker) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	key := ChatUser{ChatID: chatID, UserID: userID}
	if isAdmin, ok := c.cache.Get(key); ok {
		return isAdmin, nil
	}
	status, err := c.platform.GetMember(ctx, chatID, userID)
	if err != nil {
		return false, err
	}
	isAdmin := status.IsAdmin()
	c.cache.Add(key, isAdmin)
	log.WithFields(log.Fields{"chat": chatID, "user": userID, "admin": isAdmin}).Trace("admin status cached")
	return isAdmin, nil
}
