package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/iamwavecut/ngwarden/internal/db"
	"github.com/iamwavecut/ngwarden/internal/infra"
	"github.com/iamwavecut/ngwarden/resources"
)

type (
	sqliteClient struct {
		db       *sqlx.DB
		mutex    sync.RWMutex
		now      func() time.Time
		defaults db.SettingsDefaults
	}

	Option func(*sqliteClient)
)

// WithClock replaces time.Now for timestamps and mute expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *sqliteClient) { c.now = now }
}

// WithSettingsDefaults sets the values a chat gets when first seen.
func WithSettingsDefaults(d db.SettingsDefaults) Option {
	return func(c *sqliteClient) { c.defaults = d }
}

func NewSQLiteClient(ctx context.Context, dir, file string, opts ...Option) (*sqliteClient, error) {
	dir, err := infra.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	dbx, err := sqlx.ConnectContext(ctx, "sqlite", filepath.Join(dir, file)+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	dbx.SetMaxOpenConns(1)

	migrationsSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: resources.FS,
		Root:       "migrations",
	}
	n, err := migrate.Exec(dbx.DB, "sqlite3", migrationsSource, migrate.Up)
	if err != nil {
		_ = dbx.Close()
		return nil, errors.Wrap(err, "migrate up")
	}
	if n > 0 {
		log.WithField("count", n).Info("applied migrations")
	}

	c := &sqliteClient{
		db:       dbx,
		now:      time.Now,
		defaults: db.FallbackDefaults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *sqliteClient) Close() error {
	return c.db.Close()
}

func (c *sqliteClient) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

var _ db.Client = (*sqliteClient)(nil)
