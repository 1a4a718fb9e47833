package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/whisperapp/whisper/internal/dbx"
	"github.com/whisperapp/whisper/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, msg *models.Message) error {

	query := ` INSERT INTO messages (message_id, audio_file_name, sender_user_id, receiver_user_id, created_at, local_path)
			values (?, ?, ?, ?, ?, ?)
			ON CONFLICT(message_id) DO UPDATE SET
				audio_file_name = excluded.audio_file_name,
				sender_user_id = excluded.sender_user_id,
				receiver_user_id = excluded.receiver_user_id,
				created_at = excluded.created_at,
				local_path = excluded.local_path
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.MessageID, msg.AudioFileName, msg.SenderUserID, msg.ReceiverUserID,
		msg.CreatedAt.Unix(), msg.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to upsert message: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetConversation(ctx context.Context, userA, userB string) ([]models.Message, error) {

	query := ` select message_id, audio_file_name, sender_user_id, receiver_user_id, created_at, local_path
		from messages
		where (sender_user_id = ? and receiver_user_id = ?)
		   or (sender_user_id = ? and receiver_user_id = ?)
		order by created_at asc`
	rows, err := r.db.QueryContext(ctx, query, userA, userB, userB, userA)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		var item models.Message
		var createdAt int64
		if err := rows.Scan(&item.MessageID, &item.AudioFileName, &item.SenderUserID,
			&item.ReceiverUserID, &createdAt, &item.LocalPath); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) DeleteConversation(ctx context.Context, userA, userB string) error {

	query := ` delete from messages
		where (sender_user_id = ? and receiver_user_id = ?)
		   or (sender_user_id = ? and receiver_user_id = ?)`
	if _, err := r.db.ExecContext(ctx, query, userA, userB, userB, userA); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	return nil
}
