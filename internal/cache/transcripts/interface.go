// Package transcripts provides the cache persistence layer for transcript
// text, keyed 1:1 by the asset's derived transcript key. Rows exist
// independently of whether the audio bytes are present locally.
package transcripts

import (
	"context"

	"github.com/whisperapp/whisper/internal/models"
)

// Repository describes cache operations for Transcript rows.
type Repository interface {
	// Upsert inserts or updates the transcript keyed by file name.
	Upsert(ctx context.Context, tr *models.Transcript) error

	// GetByName returns the transcript for a key, or common.ErrNotFound.
	GetByName(ctx context.Context, fileName string) (*models.Transcript, error)

	// GetAll returns every cached transcript.
	GetAll(ctx context.Context) ([]models.Transcript, error)

	// DeleteByName removes the transcript for a key; absent rows are fine.
	DeleteByName(ctx context.Context, fileName string) error
}
