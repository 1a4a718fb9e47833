// Package asset defines the canonical identity model for audio assets:
// blob-store naming, transcript key derivation, and the order-independent
// conversation key used to partition direct messages.
package asset

import (
	"path"
	"sort"
	"strings"
	"time"
)

// Blob-store namespaces. Audio recordings, transcripts and DM audio live
// in separate key prefixes within the same bucket.
const (
	AudioPrefix      = "audio/"
	TranscriptPrefix = "translate/"

	// AudioExt is the container produced by the recorder.
	AudioExt = ".m4a"
	// TranscriptExt is the plain-text transcript extension.
	TranscriptExt = ".txt"

	// nameLayout renders a timestamp at second granularity. Two recordings
	// started within the same device-second collide; this is an accepted
	// limitation of the naming scheme.
	nameLayout = "01-02-15-04-05"
)

// DistantPast is the timestamp sentinel used when a remote object carries
// no usable creation time. Assets stamped with it sort last.
var DistantPast = time.Time{}

// Identity names a participant: a human-facing username plus the opaque,
// stable user id issued by the identity provider.
type Identity struct {
	Username string
	UserID   string
}

// NewName derives a fresh asset name from the given instant.
func NewName(t time.Time) string {
	return t.Format(nameLayout) + AudioExt
}

// TranscriptKey maps an asset name to its transcript key by stripping the
// last extension and appending TranscriptExt.
func TranscriptKey(assetName string) string {
	return strings.TrimSuffix(assetName, path.Ext(assetName)) + TranscriptExt
}

// ConversationKey returns the canonical partition key for a two-party DM
// thread. The same two user ids always yield the same key regardless of
// argument order.
func ConversationKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// DMPrefix returns the blob namespace for a conversation's audio.
func DMPrefix(conversationKey string) string {
	return "dm/" + conversationKey + "/"
}
