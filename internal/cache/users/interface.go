// Package users provides the cache persistence layer for directory
// contacts: only usernames the current user has explicitly added, never
// the full remote directory. Usernames are unique case-insensitively.
package users

import (
	"context"

	"github.com/whisperapp/whisper/internal/models"
)

// Repository describes cache operations for contact rows.
type Repository interface {
	// Insert adds a contact. The unique index on username rejects
	// duplicates; callers are expected to check Exists first.
	Insert(ctx context.Context, user *models.User) error

	// Exists reports whether a contact with the username is already
	// cached (case-insensitive).
	Exists(ctx context.Context, username string) (bool, error)

	// GetByUsername returns a contact, or common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetAll returns all contacts sorted by username.
	GetAll(ctx context.Context) ([]models.User, error)

	// DeleteByUsername removes a contact; absent rows are fine.
	DeleteByUsername(ctx context.Context, username string) error
}
