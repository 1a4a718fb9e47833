package audiofiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/whisperapp/whisper/internal/common"
	"github.com/whisperapp/whisper/internal/dbx"
	"github.com/whisperapp/whisper/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// encodeTime stores unix seconds; 0 marks an unknown creation time.
func encodeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func decodeTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

func (r *SQLiteRepository) Upsert(ctx context.Context, file *models.AudioFile) error {

	query := ` INSERT INTO audio_files (file_name, custom_name, sender_username, sender_user_id, created_at, local_path)
			values (?, ?, ?, ?, ?, ?)
			ON CONFLICT(file_name) DO UPDATE SET
				custom_name = excluded.custom_name,
				sender_username = excluded.sender_username,
				sender_user_id = excluded.sender_user_id,
				created_at = excluded.created_at,
				local_path = excluded.local_path
	`
	_, err := r.db.ExecContext(ctx, query,
		file.FileName, file.CustomName, file.SenderUsername, file.SenderUserID,
		encodeTime(file.CreatedAt), file.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to upsert audio file: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.AudioFile, error) {

	query := ` select file_name, custom_name, sender_username, sender_user_id, created_at, local_path
		from audio_files
		order by case when created_at = 0 then 1 else 0 end, created_at desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select audio files: %w", err)
	}
	defer rows.Close()

	var result []models.AudioFile
	for rows.Next() {
		var item models.AudioFile
		var createdAt int64
		if err := rows.Scan(&item.FileName, &item.CustomName, &item.SenderUsername,
			&item.SenderUserID, &createdAt, &item.LocalPath); err != nil {
			return nil, err
		}
		item.CreatedAt = decodeTime(createdAt)
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) GetByName(ctx context.Context, fileName string) (*models.AudioFile, error) {

	query := `select file_name, custom_name, sender_username, sender_user_id, created_at, local_path
		from audio_files where file_name = ?`
	row := r.db.QueryRowContext(ctx, query, fileName)

	item := &models.AudioFile{}
	var createdAt int64
	err := row.Scan(&item.FileName, &item.CustomName, &item.SenderUsername,
		&item.SenderUserID, &createdAt, &item.LocalPath)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select audio file: %w", err)
	}

	item.CreatedAt = decodeTime(createdAt)
	return item, nil
}

func (r *SQLiteRepository) DeleteByName(ctx context.Context, fileName string) error {

	query := `delete from audio_files where file_name = ?`
	if _, err := r.db.ExecContext(ctx, query, fileName); err != nil {
		return fmt.Errorf("failed to delete audio file: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {

	if _, err := r.db.ExecContext(ctx, `delete from audio_files`); err != nil {
		return fmt.Errorf("failed to clear audio files: %w", err)
	}

	return nil
}
