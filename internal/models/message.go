package models

import "time"

// Message is a single DM voice message. Messages are immutable after
// creation; the id is generator-assigned at send time.
type Message struct {
	MessageID      string
	AudioFileName  string
	SenderUserID   string
	ReceiverUserID string
	CreatedAt      time.Time
	LocalPath      string
}

// User is a directory contact the current user has explicitly added.
// Usernames are unique case-insensitively.
type User struct {
	Username string
	UserID   string
}
