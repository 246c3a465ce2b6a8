package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// AddMute stores or replaces the member's mute and returns its expiry.
func (c *sqliteClient) AddMute(ctx context.Context, chatID, userID int64, durationSeconds int) (time.Time, error) {
	if durationSeconds <= 0 {
		return time.Time{}, errors.Errorf("mute duration must be positive, got %d", durationSeconds)
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	expiresAt := c.now().UTC().Add(time.Duration(durationSeconds) * time.Second)
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO mutes (chat_id, user_id, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(chat_id, user_id) DO UPDATE SET expires_at = excluded.expires_at
	`, chatID, userID, expiresAt)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "upsert mute")
	}
	return expiresAt, nil
}

func (c *sqliteClient) RemoveMute(ctx context.Context, chatID, userID int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.db.ExecContext(ctx, `DELETE FROM mutes WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	return errors.Wrap(err, "delete mute")
}

// IsMuted reports an active mute. An expired record is deleted on the spot.
func (c *sqliteClient) IsMuted(ctx context.Context, chatID, userID int64) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	muted := false
	err := c.withTx(ctx, func(tx *sqlx.Tx) error {
		var expiresAt time.Time
		err := tx.GetContext(ctx, &expiresAt, `SELECT expires_at FROM mutes WHERE chat_id = ? AND user_id = ?`, chatID, userID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return errors.Wrap(err, "select mute")
		}
		if c.now().Before(expiresAt) {
			muted = true
			return nil
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM mutes WHERE chat_id = ? AND user_id = ?`, chatID, userID)
		return errors.Wrap(err, "delete expired mute")
	})
	return muted, err
}

// MuteExpiry returns the stored expiry, zero time when there is no record.
func (c *sqliteClient) MuteExpiry(ctx context.Context, chatID, userID int64) (time.Time, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var expiresAt time.Time
	err := c.db.GetContext(ctx, &expiresAt, `SELECT expires_at FROM mutes WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	return expiresAt, errors.Wrap(err, "select mute")
}
