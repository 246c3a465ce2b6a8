package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iamwavecut/ngwarden/internal/db"
)

func (c *sqliteClient) UpdateUserStats(ctx context.Context, chatID, userID int64, username, firstName string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now().UTC()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO user_stats (chat_id, user_id, username, first_name, messages_count, first_seen, last_seen)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(chat_id, user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			messages_count = user_stats.messages_count + 1,
			last_seen = excluded.last_seen
	`, chatID, userID, username, firstName, now, now)
	return errors.Wrap(err, "upsert user stats")
}

func (c *sqliteClient) GetUserStats(ctx context.Context, chatID, userID int64) (*db.UserStats, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := &db.UserStats{}
	err := c.db.GetContext(ctx, stats, `
		SELECT chat_id, user_id, username, first_name, messages_count, first_seen, last_seen
		FROM user_stats WHERE chat_id = ? AND user_id = ?
	`, chatID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select user stats")
	}
	return stats, nil
}
