// Package cache opens the local durable SQLite database and bundles the
// per-table repositories behind it. The cache is a non-authoritative
// projection of the remote stores: it may be stale or optimistically
// ahead, and is repaired by reconciliation.
package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/whisperapp/whisper/internal/cache/audiofiles"
	"github.com/whisperapp/whisper/internal/cache/messages"
	"github.com/whisperapp/whisper/internal/cache/migrations"
	"github.com/whisperapp/whisper/internal/cache/transcripts"
	"github.com/whisperapp/whisper/internal/cache/users"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the cache tables plus the underlying connection,
// which callers need for multi-table transactions via dbx.WithTx.
type Repositories struct {
	DB          *sql.DB
	AudioFiles  audiofiles.Repository
	Transcripts transcripts.Repository
	Messages    messages.Repository
	Users       users.Repository
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the SQLite database at dsn,
// migrates it, and returns the repository bundle.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		DB:          db,
		AudioFiles:  audiofiles.NewSQLiteRepository(db),
		Transcripts: transcripts.NewSQLiteRepository(db),
		Messages:    messages.NewSQLiteRepository(db),
		Users:       users.NewSQLiteRepository(db),
	}, nil
}

// Close closes the underlying database connection.
func (r *Repositories) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
