package audiofiles

import (
	"context"

	"github.com/whisperapp/whisper/internal/models"
)

// Repository describes cache operations for AudioFile rows.
// Implementations are backed by the local SQLite database.
type Repository interface {
	// Upsert inserts or updates the row keyed by file name.
	Upsert(ctx context.Context, file *models.AudioFile) error

	// GetAll returns every cached asset, newest first (created_at
	// descending, unknown timestamps last).
	GetAll(ctx context.Context) ([]models.AudioFile, error)

	// GetByName returns the row for a file name, or common.ErrNotFound.
	GetByName(ctx context.Context, fileName string) (*models.AudioFile, error)

	// DeleteByName removes the row for a file name. Deleting an absent
	// row is not an error.
	DeleteByName(ctx context.Context, fileName string) error

	// DeleteAll clears the table. Used together with Upsert inside a
	// transaction to replace the cached view with an authoritative one.
	DeleteAll(ctx context.Context) error
}
