package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperapp/whisper/internal/asset"
	"github.com/whisperapp/whisper/internal/models"
)

var testPeer = asset.Identity{Username: "nadia", UserID: "uid-peer"}

func newDMService(t *testing.T, b *fakeBlob, m *fakeMeta) (*DMService, string) {
	t.Helper()
	mediaDir := t.TempDir()
	repos := setupRepos(t)
	svc := NewDMService(b, m, repos, testSelf, mediaDir, testLogger())
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("msg-%d", n)
	}
	return svc, mediaDir
}

func writeRecording(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("voice"), 0o600))
	return path
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	b := newFakeBlob()
	m := newFakeMeta()
	svc, mediaDir := newDMService(t, b, m)

	localPath := writeRecording(t, mediaDir, "04-24-13-05-09.m4a")
	msg, err := svc.Send(ctx, localPath, testPeer)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", msg.MessageID)

	convKey := asset.ConversationKey("uid-self", "uid-peer")
	key := asset.DMPrefix(convKey) + "04-24-13-05-09.m4a"
	require.Contains(t, b.objects, key)
	assert.Equal(t, "nate", b.tags[key].SenderUsername)
	assert.Equal(t, "uid-peer", b.tags[key].ReceiverUserID)

	records := m.msgs[convKey]
	require.Len(t, records, 1)
	assert.Equal(t, "msg-1", records[0].MessageID)

	cached, err := svc.CachedMessages(ctx, "uid-peer")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, localPath, cached[0].LocalPath)
}

func TestSend_MetadataFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	b := newFakeBlob()
	m := newFakeMeta()
	m.putMsgErr = errors.New("metadata down")
	svc, mediaDir := newDMService(t, b, m)

	localPath := writeRecording(t, mediaDir, "04-24-13-05-09.m4a")
	_, err := svc.Send(ctx, localPath, testPeer)
	require.Error(t, err)

	cached, cerr := svc.CachedMessages(ctx, "uid-peer")
	require.NoError(t, cerr)
	assert.Empty(t, cached)
}

func TestListMessages_SamePartitionFromEitherSide(t *testing.T) {
	ctx := context.Background()
	b := newFakeBlob()
	m := newFakeMeta()

	sender, dir := newDMService(t, b, m)
	first := writeRecording(t, dir, "04-24-13-00-00.m4a")
	second := writeRecording(t, dir, "04-24-13-00-30.m4a")
	_, err := sender.Send(ctx, first, testPeer)
	require.NoError(t, err)
	_, err = sender.Send(ctx, second, testPeer)
	require.NoError(t, err)

	// the peer's service resolves the same conversation key
	receiver := NewDMService(b, m, setupRepos(t), testPeer, t.TempDir(), testLogger())
	msgs, err := receiver.ListMessages(ctx, "uid-self")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "04-24-13-00-00.m4a", msgs[0].AudioFileName)
	assert.Equal(t, "04-24-13-00-30.m4a", msgs[1].AudioFileName)
	assert.True(t, msgs[0].CreatedAt.Before(msgs[1].CreatedAt))
}

func TestSyncConversation_CachesRowsWithoutAudio(t *testing.T) {
	ctx := context.Background()
	b := newFakeBlob()
	m := newFakeMeta()

	sender, dir := newDMService(t, b, m)
	_, err := sender.Send(ctx, writeRecording(t, dir, "04-24-13-00-00.m4a"), testPeer)
	require.NoError(t, err)

	receiver, _ := newDMService(t, b, m)
	receiver.self = testPeer
	require.NoError(t, receiver.SyncConversation(ctx, "uid-self"))

	cached, err := receiver.CachedMessages(ctx, "uid-self")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	// message row is cached even though the bytes were never downloaded
	assert.Empty(t, cached[0].LocalPath)
}

func TestMaterializeMessage(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("dm audio"))
	}))
	defer srv.Close()

	b := newFakeBlob()
	b.presignURL = srv.URL
	svc, mediaDir := newDMService(t, b, newFakeMeta())

	msg := &models.Message{
		MessageID:      "msg-1",
		AudioFileName:  "04-24-13-00-00.m4a",
		SenderUserID:   "uid-peer",
		ReceiverUserID: "uid-self",
	}
	path, err := svc.MaterializeMessage(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mediaDir, "04-24-13-00-00.m4a"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dm audio", string(data))
}

func TestRemoveContact_LocalOnly(t *testing.T) {
	ctx := context.Background()
	b := newFakeBlob()
	m := newFakeMeta()
	svc, dir := newDMService(t, b, m)

	require.NoError(t, svc.users.Insert(ctx, &models.User{Username: "nadia", UserID: "uid-peer"}))
	_, err := svc.Send(ctx, writeRecording(t, dir, "04-24-13-00-00.m4a"), testPeer)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveContact(ctx, "nadia"))

	cached, err := svc.CachedMessages(ctx, "uid-peer")
	require.NoError(t, err)
	assert.Empty(t, cached)

	exists, err := svc.users.Exists(ctx, "nadia")
	require.NoError(t, err)
	assert.False(t, exists)

	// remote records and audio survive a local removal
	convKey := asset.ConversationKey("uid-self", "uid-peer")
	assert.Len(t, m.msgs[convKey], 1)
	assert.Contains(t, b.objects, asset.DMPrefix(convKey)+"04-24-13-00-00.m4a")
}

func TestRemoveContact_UnknownIsNoError(t *testing.T) {
	svc, _ := newDMService(t, newFakeBlob(), newFakeMeta())
	require.NoError(t, svc.RemoveContact(context.Background(), "stranger"))
}
