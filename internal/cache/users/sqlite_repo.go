package users

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

func (r *SQLiteRepository) Insert(ctx context.Context, user *models.User) error {

	query := `insert into users (username, user_id) values (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, user.Username, user.UserID); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, username string) (bool, error) {

	var count int
	query := `select count(*) from users where username = ? collate nocase`
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return count > 0, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {

	query := `select username, user_id from users where username = ? collate nocase`
	row := r.db.QueryRowContext(ctx, query, username)

	u := &models.User{}
	err := row.Scan(&u.Username, &u.UserID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	return u, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.User, error) {

	query := `select username, user_id from users order by username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.UserID); err != nil {
			return nil, err
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) DeleteByUsername(ctx context.Context, username string) error {

	query := `delete from users where username = ? collate nocase`
	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
