package meta

import (
	"context"
	"time"
)

// AudioRecord is the metadata-store projection of an uploaded broadcast
// recording.
type AudioRecord struct {
	FileName       string
	CustomName     string
	SenderUsername string
	SenderUserID   string
	CreatedAt      time.Time
}

// MessageRecord is one DM message in a conversation partition. CreatedAt
// is written as server time on insert; the client-generated timestamp
// only lives in the local cache.
type MessageRecord struct {
	MessageID      string
	ConversationKey string
	AudioFileName  string
	SenderUserID   string
	ReceiverUserID string
	CreatedAt      time.Time
}

// DirectoryUser is one row of the user directory.
type DirectoryUser struct {
	Username string
	UserID   string
}

// Store is the remote metadata store contract.
type Store interface {
	// PutAudioRecord upserts the metadata projection for an upload.
	PutAudioRecord(ctx context.Context, rec *AudioRecord) error

	// PutMessage appends a message record to its conversation partition.
	// Records are immutable; replays of the same message id are ignored.
	PutMessage(ctx context.Context, rec *MessageRecord) error

	// ListMessages returns all records in a conversation partition,
	// ascending by timestamp.
	ListMessages(ctx context.Context, conversationKey string) ([]MessageRecord, error)

	// GetUserByUsername looks up a directory user by exact username
	// (case-insensitive), returning common.ErrNotFound on a miss.
	GetUserByUsername(ctx context.Context, username string) (*DirectoryUser, error)

	// SearchUsernames returns usernames in the half-open lexicographic
	// range [prefix, prefix+U+F8FF), capped at limit.
	SearchUsernames(ctx context.Context, prefix string, limit int) ([]string, error)

	// EnsureUser upserts the caller's own directory row so other devices
	// can find it. Called once at startup.
	EnsureUser(ctx context.Context, user *DirectoryUser) error
}
