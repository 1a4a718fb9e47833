package messages

import (
	"context"

	"github.com/whisperapp/whisper/internal/models"
)

// Repository describes cache operations for Message rows.
type Repository interface {
	// Upsert inserts or updates the row keyed by message id.
	Upsert(ctx context.Context, msg *models.Message) error

	// GetConversation returns all messages exchanged between the two user
	// ids, in either direction, ascending by timestamp.
	GetConversation(ctx context.Context, userA, userB string) ([]models.Message, error)

	// DeleteConversation removes all cached messages between the two user
	// ids. Local-only; remote records are never touched.
	DeleteConversation(ctx context.Context, userA, userB string) error
}
