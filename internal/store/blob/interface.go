package blob

import (
	"context"
	"io"
	"time"
)

// Tags is the typed tag schema attached to blob objects. Broadcast audio
// carries the custom name and sender identity; DM audio adds the receiver.
// Empty fields are simply omitted from the stored tag set.
type Tags struct {
	CustomName       string
	SenderUsername   string
	SenderUserID     string
	ReceiverUsername string
	ReceiverUserID   string
}

// Object is one listed blob. CreatedAt is the store's creation timestamp;
// when the store reports none it is the zero time and sorts last.
type Object struct {
	Key       string
	CreatedAt time.Time
}

// Store is the remote blob store contract.
type Store interface {
	// List returns all objects under the given key prefix.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Put uploads the contents of r under key with the given tags.
	Put(ctx context.Context, key string, r io.Reader, tags Tags) error

	// GetTags fetches the tag set of an object.
	GetTags(ctx context.Context, key string) (Tags, error)

	// UpdateTags replaces the tag set of an object.
	UpdateTags(ctx context.Context, key string, tags Tags) error

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a short-lived retrieval URL for an object.
	PresignGet(ctx context.Context, key string) (string, error)
}
