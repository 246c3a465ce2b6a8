package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iamwavecut/ngwarden/internal/db"
)

// AddWarning stores the warning and returns the member's warning count including it.
func (c *sqliteClient) AddWarning(ctx context.Context, warning *db.Warning) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if warning.CreatedAt.IsZero() {
		warning.CreatedAt = c.now().UTC()
	}

	var count int
	err := c.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO warnings (chat_id, user_id, issuer_id, reason, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, warning.ChatID, warning.UserID, warning.IssuerID, warning.Reason, warning.CreatedAt)
		if err != nil {
			return errors.Wrap(err, "insert warning")
		}
		if warning.ID, err = res.LastInsertId(); err != nil {
			return errors.Wrap(err, "last insert id")
		}
		return countWarnings(ctx, tx, warning.ChatID, warning.UserID, &count)
	})
	return count, err
}

// RemoveWarning deletes the most recent warning, if any, and returns the remaining count.
func (c *sqliteClient) RemoveWarning(ctx context.Context, chatID, userID int64) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var count int
	err := c.withTx(ctx, func(tx *sqlx.Tx) error {
		var id int64
		err := tx.GetContext(ctx, &id, `
			SELECT id FROM warnings WHERE chat_id = ? AND user_id = ?
			ORDER BY id DESC LIMIT 1
		`, chatID, userID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return errors.Wrap(err, "select latest warning")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM warnings WHERE id = ?`, id); err != nil {
			return errors.Wrap(err, "delete warning")
		}
		return countWarnings(ctx, tx, chatID, userID, &count)
	})
	return count, err
}

func (c *sqliteClient) ClearWarnings(ctx context.Context, chatID, userID int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.db.ExecContext(ctx, `DELETE FROM warnings WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	return errors.Wrap(err, "clear warnings")
}

func (c *sqliteClient) WarningCount(ctx context.Context, chatID, userID int64) (int, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var count int
	err := c.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM warnings WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	return count, errors.Wrap(err, "count warnings")
}

func countWarnings(ctx context.Context, tx *sqlx.Tx, chatID, userID int64, count *int) error {
	err := tx.GetContext(ctx, count, `SELECT COUNT(*) FROM warnings WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	return errors.Wrap(err, "count warnings")
}
