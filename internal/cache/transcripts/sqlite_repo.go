package transcripts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *SQLiteRepository) Upsert(ctx context.Context, tr *models.Transcript) error {

	query := ` INSERT INTO transcripts (file_name, text)
			values (?, ?)
			ON CONFLICT(file_name) DO UPDATE SET text = excluded.text
	`
	if _, err := r.db.ExecContext(ctx, query, tr.FileName, tr.Text); err != nil {
		return fmt.Errorf("failed to upsert transcript: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetByName(ctx context.Context, fileName string) (*models.Transcript, error) {

	query := `select file_name, text from transcripts where file_name = ?`
	row := r.db.QueryRowContext(ctx, query, fileName)

	tr := &models.Transcript{}
	err := row.Scan(&tr.FileName, &tr.Text)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select transcript: %w", err)
	}

	return tr, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Transcript, error) {

	query := `select file_name, text from transcripts`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select transcripts: %w", err)
	}
	defer rows.Close()

	var result []models.Transcript
	for rows.Next() {
		var tr models.Transcript
		if err := rows.Scan(&tr.FileName, &tr.Text); err != nil {
			return nil, err
		}
		result = append(result, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) DeleteByName(ctx context.Context, fileName string) error {

	if _, err := r.db.ExecContext(ctx, `delete from transcripts where file_name = ?`, fileName); err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}

	return nil
}
