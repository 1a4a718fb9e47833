package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisperapp/whisper/internal/common"
	"github.com/whisperapp/whisper/internal/models"
)

func newTranscriber(t *testing.T, b *fakeBlob, r *fakeRecognizer) (*Transcriber, string) {
	t.Helper()
	mediaDir := t.TempDir()
	repos := setupRepos(t)
	return NewTranscriber(b, r, repos, mediaDir, "en-US", testLogger()), mediaDir
}

func TestRun_TranscribesLocalFile(t *testing.T) {
	ctx := context.Background()
	b := newFakeBlob()
	rec := &fakeRecognizer{text: "hello world"}
	tr, mediaDir := newTranscriber(t, b, rec)

	localPath := filepath.Join(mediaDir, "04-24-13-05-09.m4a")
	require.NoError(t, os.WriteFile(localPath, []byte("voice"), 0o600))

	text, err := tr.Run(ctx, "04-24-13-05-09.m4a")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, StateTranscribed, tr.State("04-24-13-05-09.m4a"))
	assert.Equal(t, localPath, rec.lastPath)
	assert.Equal(t, "en-US", rec.lastLocale)

	// the final text lands in the transcript namespace and the cache
	assert.Equal(t, []byte("hello world"), b.objects["translate/04-24-13-05-09.txt"])
	cached, err := tr.CachedText(ctx, "04-24-13-05-09.m4a")
	require.NoError(t, err)
	assert.Equal(t, "hello world", cached)
}

func TestRun_DownloadsMissingBytes(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("voice"))
	}))
	defer srv.Close()

	b := newFakeBlob()
	b.presignURL = srv.URL
	rec := &fakeRecognizer{text: "downloaded then transcribed"}
	tr, mediaDir := newTranscriber(t, b, rec)

	text, err := tr.Run(ctx, "04-24-13-05-09.m4a")
	require.NoError(t, err)
	assert.Equal(t, "downloaded then transcribed", text)

	data, err := os.ReadFile(filepath.Join(mediaDir, "04-24-13-05-09.m4a"))
	require.NoError(t, err)
	assert.Equal(t, "voice", string(data))
}

func TestRun_RecognizerUnavailable(t *testing.T) {
	rec := &fakeRecognizer{availableErr: common.ErrTranscriptionUnavailable}
	tr, _ := newTranscriber(t, newFakeBlob(), rec)

	_, err := tr.Run(context.Background(), "a.m4a")
	assert.ErrorIs(t, err, common.ErrTranscriptionUnavailable)
	assert.Equal(t, StateUntranscribed, tr.State("a.m4a"))
}

func TestRun_RecognizerFailure(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecognizer{err: errors.New("no speech detected")}
	tr, mediaDir := newTranscriber(t, newFakeBlob(), rec)
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "a.m4a"), []byte("voice"), 0o600))

	_, err := tr.Run(ctx, "a.m4a")
	require.Error(t, err)
	assert.Equal(t, StateFailed, tr.State("a.m4a"))

	_, err = tr.CachedText(ctx, "a.m4a")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRun_DownloadFailure(t *testing.T) {
	b := newFakeBlob()
	b.presignErr = errors.New("bucket unavailable")
	tr, _ := newTranscriber(t, b, &fakeRecognizer{text: "unused"})

	_, err := tr.Run(context.Background(), "a.m4a")
	require.Error(t, err)
	assert.Equal(t, StateFailed, tr.State("a.m4a"))
}

func TestRun_SecondConcurrentRunRefused(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecognizer{text: "slow result", block: make(chan struct{})}
	tr, mediaDir := newTranscriber(t, newFakeBlob(), rec)
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "a.m4a"), []byte("voice"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "b.m4a"), []byte("voice"), 0o600))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := tr.Run(ctx, "a.m4a")
		assert.NoError(t, err)
	}()

	// wait for the first run to reach the recognizer
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return rec.calls == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err := tr.Run(ctx, "a.m4a")
	assert.ErrorIs(t, err, common.ErrTranscriptionRunning)

	// a different asset is unaffected by a.m4a being in flight
	close(rec.block)
	wg.Wait()
	rec.block = nil
	_, err = tr.Run(ctx, "b.m4a")
	assert.NoError(t, err)

	// a terminal state allows a rerun
	_, err = tr.Run(ctx, "a.m4a")
	assert.NoError(t, err)
}

func TestSnippets(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTranscriber(t, newFakeBlob(), &fakeRecognizer{})

	require.NoError(t, tr.transcripts.Upsert(ctx, &models.Transcript{FileName: "04-24-13-05-09.txt", Text: "hello world"}))
	require.NoError(t, tr.transcripts.Upsert(ctx, &models.Transcript{FileName: "04-24-14-05-09.txt", Text: "ok"}))

	snippets, err := tr.Snippets(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"04-24-13-05-09.m4a": "he",
		"04-24-14-05-09.m4a": "ok",
	}, snippets)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "he", Snippet("hello world"))
	assert.Equal(t, "hi", Snippet("hi"))
	assert.Equal(t, "a", Snippet("a"))
	assert.Equal(t, "", Snippet("   "))
	assert.Equal(t, "日本", Snippet("日本語のテキスト"))
}
