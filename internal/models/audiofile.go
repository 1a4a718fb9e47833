// Package models defines the entities mirrored by the local durable cache:
// broadcast audio assets, transcripts, DM messages and directory contacts.
package models

import "time"

// AudioFile is a broadcast recording. FileName is the immutable remote key
// within the audio namespace; CustomName is the mutable, user-facing
// display name. LocalPath is non-empty only when the bytes have been
// materialized on device.
type AudioFile struct {
	FileName       string
	CustomName     string
	SenderUsername string
	SenderUserID   string
	CreatedAt      time.Time
	LocalPath      string
}

// DisplayName returns the custom name when set, otherwise the file name.
func (f AudioFile) DisplayName() string {
	if f.CustomName != "" {
		return f.CustomName
	}
	return f.FileName
}

// Transcript is derived text for one asset, keyed by the transcript key.
type Transcript struct {
	FileName string
	Text     string
}
