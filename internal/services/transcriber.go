package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/whisperapp/whisper/internal/asset"
	"github.com/whisperapp/whisper/internal/cache"
	"github.com/whisperapp/whisper/internal/cache/transcripts"
	"github.com/whisperapp/whisper/internal/common"
	"github.com/whisperapp/whisper/internal/filex"
	"github.com/whisperapp/whisper/internal/logging"
	"github.com/whisperapp/whisper/internal/models"
	"github.com/whisperapp/whisper/internal/netx"
	"github.com/whisperapp/whisper/internal/store/blob"
	"github.com/whisperapp/whisper/internal/store/speech"
)

// TranscriptionState tracks where an asset sits in the transcription
// pipeline.
type TranscriptionState int

const (
	StateUntranscribed TranscriptionState = iota
	StateDownloading
	StateDownloaded
	StateTranscribing
	StateTranscribed
	StateFailed
)

func (s TranscriptionState) String() string {
	switch s {
	case StateDownloading:
		return "downloading"
	case StateDownloaded:
		return "downloaded"
	case StateTranscribing:
		return "transcribing"
	case StateTranscribed:
		return "transcribed"
	case StateFailed:
		return "failed"
	default:
		return "untranscribed"
	}
}

// Transcriber runs the download-then-recognize pipeline for one asset at
// a time per asset. At most one run may be in flight for a given asset;
// concurrent attempts get ErrTranscriptionRunning.
type Transcriber struct {
	blob        blob.Store
	recognizer  speech.Recognizer
	transcripts transcripts.Repository
	mediaDir    string
	locale      string
	log         logging.Logger

	mu     sync.Mutex
	states map[string]TranscriptionState
}

func NewTranscriber(b blob.Store, r speech.Recognizer, repos *cache.Repositories,
	mediaDir string, locale string, log logging.Logger) *Transcriber {
	return &Transcriber{
		blob:        b,
		recognizer:  r,
		transcripts: repos.Transcripts,
		mediaDir:    mediaDir,
		locale:      locale,
		log:         log,
		states:      make(map[string]TranscriptionState),
	}
}

// State returns the pipeline state last observed for the asset.
func (t *Transcriber) State(fileName string) TranscriptionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[fileName]
}

func (t *Transcriber) setState(fileName string, state TranscriptionState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[fileName] = state
}

// begin marks the asset in flight, refusing if a run is already active.
func (t *Transcriber) begin(fileName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.states[fileName] {
	case StateDownloading, StateDownloaded, StateTranscribing:
		return common.ErrTranscriptionRunning
	}
	t.states[fileName] = StateDownloading
	return nil
}

// Run transcribes one asset: materialize the bytes, submit them to the
// recognizer, persist the final text to the transcript namespace and the
// cache. Only the recognizer's final result is used.
func (t *Transcriber) Run(ctx context.Context, fileName string) (string, error) {
	if err := t.recognizer.Available(ctx); err != nil {
		return "", fmt.Errorf("transcribing %s: %w", fileName, err)
	}

	if err := t.begin(fileName); err != nil {
		return "", err
	}

	localPath := filepath.Join(t.mediaDir, fileName)
	if !filex.Exists(localPath) {
		url, err := t.blob.PresignGet(ctx, asset.AudioPrefix+fileName)
		if err != nil {
			t.setState(fileName, StateFailed)
			return "", fmt.Errorf("presigning %s: %w", fileName, err)
		}
		if err := netx.DownloadFile(ctx, url, localPath); err != nil {
			t.setState(fileName, StateFailed)
			return "", fmt.Errorf("downloading %s: %w", fileName, err)
		}
	}
	t.setState(fileName, StateDownloaded)

	t.setState(fileName, StateTranscribing)
	text, err := t.recognizer.Transcribe(ctx, localPath, t.locale)
	if err != nil {
		t.setState(fileName, StateFailed)
		return "", fmt.Errorf("transcribing %s: %w", fileName, err)
	}

	key := asset.TranscriptKey(fileName)
	if err := t.blob.Put(ctx, asset.TranscriptPrefix+key, strings.NewReader(text), blob.Tags{}); err != nil {
		t.log.Warn(ctx, "storing remote transcript", "key", key, "error", err)
	}
	if err := t.transcripts.Upsert(ctx, &models.Transcript{FileName: key, Text: text}); err != nil {
		t.log.Warn(ctx, "caching transcript", "key", key, "error", err)
	}

	t.setState(fileName, StateTranscribed)
	return text, nil
}

// CachedText returns the cached transcript for an asset, or
// common.ErrNotFound when none exists.
func (t *Transcriber) CachedText(ctx context.Context, fileName string) (string, error) {
	tr, err := t.transcripts.GetByName(ctx, asset.TranscriptKey(fileName))
	if err != nil {
		return "", err
	}
	return tr.Text, nil
}

// Snippets returns cached transcript snippets keyed by asset file name,
// for badge rendering in the list view.
func (t *Transcriber) Snippets(ctx context.Context) (map[string]string, error) {
	all, err := t.transcripts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transcripts: %w", err)
	}

	result := make(map[string]string, len(all))
	for _, tr := range all {
		name := strings.TrimSuffix(tr.FileName, asset.TranscriptExt) + asset.AudioExt
		result[name] = Snippet(tr.Text)
	}
	return result, nil
}

// Snippet reduces transcript text to its display badge: the first two
// characters.
func Snippet(text string) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= 2 {
		return string(r)
	}
	return string(r[:2])
}
