package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/whisperapp/whisper/internal/cache"
	"github.com/whisperapp/whisper/internal/cache/audiofiles"
	"github.com/whisperapp/whisper/internal/cache/messages"
	"github.com/whisperapp/whisper/internal/cache/transcripts"
	"github.com/whisperapp/whisper/internal/cache/users"
	"github.com/whisperapp/whisper/internal/common"
	"github.com/whisperapp/whisper/internal/logging"
	"github.com/whisperapp/whisper/internal/store/blob"
	"github.com/whisperapp/whisper/internal/store/meta"

	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupRepos(t *testing.T) *cache.Repositories {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE audio_files (
  file_name TEXT PRIMARY KEY,
  custom_name TEXT NOT NULL DEFAULT '',
  sender_username TEXT NOT NULL DEFAULT '',
  sender_user_id TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL DEFAULT 0,
  local_path TEXT NOT NULL DEFAULT ''
);
CREATE TABLE transcripts (
  file_name TEXT PRIMARY KEY,
  text TEXT NOT NULL DEFAULT ''
);
CREATE TABLE messages (
  message_id TEXT PRIMARY KEY,
  audio_file_name TEXT NOT NULL,
  sender_user_id TEXT NOT NULL,
  receiver_user_id TEXT NOT NULL,
  created_at INTEGER NOT NULL DEFAULT 0,
  local_path TEXT NOT NULL DEFAULT ''
);
CREATE TABLE users (
  username TEXT PRIMARY KEY COLLATE NOCASE,
  user_id TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return &cache.Repositories{
		DB:          db,
		AudioFiles:  audiofiles.NewSQLiteRepository(db),
		Transcripts: transcripts.NewSQLiteRepository(db),
		Messages:    messages.NewSQLiteRepository(db),
		Users:       users.NewSQLiteRepository(db),
	}
}

// fakeBlob is an in-memory blob.Store with per-call error injection.
type fakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	tags    map[string]blob.Tags
	created map[string]time.Time

	listErr    error
	putErr     error
	deleteErr  error
	updateErr  error
	presignErr error
	tagErrKeys map[string]error

	presignURL string
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{
		objects:    make(map[string][]byte),
		tags:       make(map[string]blob.Tags),
		created:    make(map[string]time.Time),
		tagErrKeys: make(map[string]error),
	}
}

func (f *fakeBlob) List(ctx context.Context, prefix string) ([]blob.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []blob.Object
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			result = append(result, blob.Object{Key: key, CreatedAt: f.created[key]})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (f *fakeBlob) Put(ctx context.Context, key string, r io.Reader, tags blob.Tags) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.tags[key] = tags
	return nil
}

func (f *fakeBlob) GetTags(ctx context.Context, key string) (blob.Tags, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.tagErrKeys[key]; err != nil {
		return blob.Tags{}, err
	}
	return f.tags[key], nil
}

func (f *fakeBlob) UpdateTags(ctx context.Context, key string, tags blob.Tags) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.tags[key] = tags
	return nil
}

func (f *fakeBlob) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	delete(f.tags, key)
	delete(f.created, key)
	return nil
}

func (f *fakeBlob) PresignGet(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presignErr != nil {
		return "", f.presignErr
	}
	if f.presignURL != "" {
		return f.presignURL, nil
	}
	return "http://blob.test/" + key, nil
}

func (f *fakeBlob) seed(key string, data string, tags blob.Tags, created time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = []byte(data)
	f.tags[key] = tags
	f.created[key] = created
}

// fakeMeta is an in-memory meta.Store.
type fakeMeta struct {
	mu        sync.Mutex
	audio     map[string]meta.AudioRecord
	msgs      map[string][]meta.MessageRecord
	directory map[string]meta.DirectoryUser

	putAudioErr error
	putMsgErr   error
	listErr     error
	lookups     int
	serverTime  time.Time
}

func newFakeMeta() *fakeMeta {
	return &fakeMeta{
		audio:      make(map[string]meta.AudioRecord),
		msgs:       make(map[string][]meta.MessageRecord),
		directory:  make(map[string]meta.DirectoryUser),
		serverTime: time.Date(2025, 4, 24, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeMeta) PutAudioRecord(ctx context.Context, rec *meta.AudioRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putAudioErr != nil {
		return f.putAudioErr
	}
	f.audio[rec.FileName] = *rec
	return nil
}

func (f *fakeMeta) PutMessage(ctx context.Context, rec *meta.MessageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putMsgErr != nil {
		return f.putMsgErr
	}
	for _, existing := range f.msgs[rec.ConversationKey] {
		if existing.MessageID == rec.MessageID {
			return nil
		}
	}
	stored := *rec
	f.serverTime = f.serverTime.Add(time.Second)
	stored.CreatedAt = f.serverTime
	f.msgs[rec.ConversationKey] = append(f.msgs[rec.ConversationKey], stored)
	return nil
}

func (f *fakeMeta) ListMessages(ctx context.Context, conversationKey string) ([]meta.MessageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	records := append([]meta.MessageRecord(nil), f.msgs[conversationKey]...)
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return records, nil
}

func (f *fakeMeta) GetUserByUsername(ctx context.Context, username string) (*meta.DirectoryUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	for _, u := range f.directory {
		if strings.EqualFold(u.Username, username) {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeMeta) SearchUsernames(ctx context.Context, prefix string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, u := range f.directory {
		if strings.HasPrefix(u.Username, prefix) {
			names = append(names, u.Username)
		}
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

func (f *fakeMeta) EnsureUser(ctx context.Context, user *meta.DirectoryUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directory[user.UserID] = *user
	return nil
}

func (f *fakeMeta) addUser(username, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directory[userID] = meta.DirectoryUser{Username: username, UserID: userID}
}

// fakeRecognizer returns a fixed transcript, optionally blocking until
// released so in-flight behavior can be observed.
type fakeRecognizer struct {
	availableErr error
	text         string
	err          error
	block        chan struct{}

	mu        sync.Mutex
	lastPath  string
	lastLocale string
	calls     int
}

func (f *fakeRecognizer) Available(ctx context.Context) error {
	return f.availableErr
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, localPath string, locale string) (string, error) {
	f.mu.Lock()
	f.lastPath = localPath
	f.lastLocale = locale
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
