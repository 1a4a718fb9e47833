package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/whisperapp/whisper/internal/common"
	"github.com/whisperapp/whisper/internal/store/meta/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// searchSentinel closes the half-open prefix range [prefix, prefix+sentinel).
// U+F8FF is above every character that can appear in a username.
const searchSentinel = "\uf8ff"

// PostgresStore implements Store over a Postgres connection.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection, applies embedded migrations and
// returns the store.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migrating metadata store: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) PutAudioRecord(ctx context.Context, rec *AudioRecord) error {

	query := `
		INSERT INTO audio_metadata (file_name, custom_name, sender_username, sender_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (file_name)
		DO UPDATE SET
			custom_name = EXCLUDED.custom_name,
			sender_username = EXCLUDED.sender_username,
			sender_user_id = EXCLUDED.sender_user_id
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.FileName, rec.CustomName, rec.SenderUsername, rec.SenderUserID, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("put audio record: %w: %w", common.ErrStoreFailure, err)
	}

	return nil
}

func (s *PostgresStore) PutMessage(ctx context.Context, rec *MessageRecord) error {

	// created_at is server time; message records are immutable, so a
	// replayed insert of the same id is a no-op.
	query := `
		INSERT INTO dm_messages (message_id, conversation_key, audio_file_name, sender_user_id, receiver_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (message_id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.MessageID, rec.ConversationKey, rec.AudioFileName, rec.SenderUserID, rec.ReceiverUserID)
	if err != nil {
		return fmt.Errorf("put message: %w: %w", common.ErrStoreFailure, err)
	}

	return nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, conversationKey string) ([]MessageRecord, error) {

	query := `
		SELECT message_id, conversation_key, audio_file_name, sender_user_id, receiver_user_id, created_at
		FROM dm_messages
		WHERE conversation_key = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, conversationKey)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w: %w", common.ErrStoreFailure, err)
	}
	defer rows.Close()

	var result []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(&rec.MessageID, &rec.ConversationKey, &rec.AudioFileName,
			&rec.SenderUserID, &rec.ReceiverUserID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*DirectoryUser, error) {

	query := `SELECT username, user_id FROM users WHERE lower(username) = lower($1)`
	row := s.db.QueryRowContext(ctx, query, username)

	u := &DirectoryUser{}
	err := row.Scan(&u.Username, &u.UserID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w: %w", common.ErrStoreFailure, err)
	}

	return u, nil
}

func (s *PostgresStore) SearchUsernames(ctx context.Context, prefix string, limit int) ([]string, error) {

	query := `
		SELECT username FROM users
		WHERE username >= $1 AND username < $2
		ORDER BY username
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, prefix, prefix+searchSentinel, limit)
	if err != nil {
		return nil, fmt.Errorf("search usernames: %w: %w", common.ErrStoreFailure, err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		result = append(result, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PostgresStore) EnsureUser(ctx context.Context, user *DirectoryUser) error {

	query := `
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username
	`
	if _, err := s.db.ExecContext(ctx, query, user.UserID, user.Username); err != nil {
		return fmt.Errorf("ensure user: %w: %w", common.ErrStoreFailure, err)
	}

	return nil
}
