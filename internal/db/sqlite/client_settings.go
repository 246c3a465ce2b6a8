package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iamwavecut/ngwarden/internal/db"
)

const settingsColumns = `chat_id, welcome_message, rules, warn_limit, antiflood_enabled, antiflood_count, antiflood_seconds, bad_words, slowmode_seconds`

// GetSettings returns stored settings, creating the defaults on first access.
func (c *sqliteClient) GetSettings(ctx context.Context, chatID int64) (*db.ChatSettings, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var settings *db.ChatSettings
	err := c.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		settings, err = c.ensureSettings(ctx, tx, chatID)
		return err
	})
	return settings, err
}

func (c *sqliteClient) ensureSettings(ctx context.Context, tx *sqlx.Tx, chatID int64) (*db.ChatSettings, error) {
	res := &db.ChatSettings{}
	err := tx.GetContext(ctx, res, `SELECT `+settingsColumns+` FROM chat_settings WHERE chat_id = ?`, chatID)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "select settings")
	}

	res = db.DefaultSettings(chatID, c.defaults)
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO chat_settings (`+settingsColumns+`)
		VALUES (:chat_id, :welcome_message, :rules, :warn_limit, :antiflood_enabled, :antiflood_count, :antiflood_seconds, :bad_words, :slowmode_seconds)
	`, res)
	if err != nil {
		return nil, errors.Wrap(err, "insert default settings")
	}
	return res, nil
}

// updateSettings makes sure the row exists, then applies a single-column update.
func (c *sqliteClient) updateSettings(ctx context.Context, chatID int64, query string, args ...any) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := c.ensureSettings(ctx, tx, chatID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, query, append(args, chatID)...)
		return errors.Wrap(err, "update settings")
	})
}

func (c *sqliteClient) UpdateWelcome(ctx context.Context, chatID int64, text string) error {
	return c.updateSettings(ctx, chatID, `UPDATE chat_settings SET welcome_message = ? WHERE chat_id = ?`, text)
}

func (c *sqliteClient) UpdateRules(ctx context.Context, chatID int64, text string) error {
	return c.updateSettings(ctx, chatID, `UPDATE chat_settings SET rules = ? WHERE chat_id = ?`, text)
}

func (c *sqliteClient) UpdateBadWords(ctx context.Context, chatID int64, words db.WordList) error {
	return c.updateSettings(ctx, chatID, `UPDATE chat_settings SET bad_words = ? WHERE chat_id = ?`, words)
}

func (c *sqliteClient) UpdateSlowmode(ctx context.Context, chatID int64, seconds int) error {
	return c.updateSettings(ctx, chatID, `UPDATE chat_settings SET slowmode_seconds = ? WHERE chat_id = ?`, seconds)
}

func (c *sqliteClient) UpdateWarnLimit(ctx context.Context, chatID int64, limit int) error {
	if limit < 1 {
		return errors.Errorf("warn limit must be positive, got %d", limit)
	}
	return c.updateSettings(ctx, chatID, `UPDATE chat_settings SET warn_limit = ? WHERE chat_id = ?`, limit)
}

func (c *sqliteClient) UpdateAntiflood(ctx context.Context, chatID int64, enabled bool, count, seconds int) error {
	if count < 1 || seconds < 1 {
		return errors.Errorf("antiflood count and seconds must be positive, got %d/%d", count, seconds)
	}
	return c.updateSettings(ctx, chatID,
		`UPDATE chat_settings SET antiflood_enabled = ?, antiflood_count = ?, antiflood_seconds = ? WHERE chat_id = ?`,
		enabled, count, seconds,
	)
}
