package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/whisperapp/whisper/internal/asset"
	"github.com/whisperapp/whisper/internal/cache"
	"github.com/whisperapp/whisper/internal/cache/audiofiles"
	"github.com/whisperapp/whisper/internal/common"
	"github.com/whisperapp/whisper/internal/dbx"
	"github.com/whisperapp/whisper/internal/filex"
	"github.com/whisperapp/whisper/internal/logging"
	"github.com/whisperapp/whisper/internal/models"
	"github.com/whisperapp/whisper/internal/netx"
	"github.com/whisperapp/whisper/internal/store/blob"
	"github.com/whisperapp/whisper/internal/store/meta"
)

// AudioService coordinates the broadcast audio list across the blob store,
// the metadata store and the local cache.
type AudioService struct {
	blob     blob.Store
	meta     meta.Store
	db       *sql.DB
	files    audiofiles.Repository
	self     asset.Identity
	mediaDir string
	log      logging.Logger
}

func NewAudioService(b blob.Store, m meta.Store, repos *cache.Repositories,
	self asset.Identity, mediaDir string, log logging.Logger) *AudioService {
	return &AudioService{
		blob:     b,
		meta:     m,
		db:       repos.DB,
		files:    repos.AudioFiles,
		self:     self,
		mediaDir: mediaDir,
		log:      log,
	}
}

// localPath returns the on-device path an asset's bytes live at when
// materialized. The path is derived from the asset name alone.
func (s *AudioService) localPath(fileName string) string {
	return filepath.Join(s.mediaDir, fileName)
}

func (s *AudioService) markLocal(files []models.AudioFile) {
	for i := range files {
		path := s.localPath(files[i].FileName)
		if filex.Exists(path) {
			files[i].LocalPath = path
		} else {
			files[i].LocalPath = ""
		}
	}
}

// Reconcile returns the cached view immediately and kicks off a remote
// listing in the background. The channel delivers exactly one slice and is
// then closed: the authoritative remote view on success, or the cached
// view again when the remote listing fails. The cache is only rewritten
// from an authoritative view.
func (s *AudioService) Reconcile(ctx context.Context) ([]models.AudioFile, <-chan []models.AudioFile) {
	cached, err := s.files.GetAll(ctx)
	if err != nil {
		s.log.Warn(ctx, "reading cached audio list", "error", err)
		cached = nil
	}
	s.markLocal(cached)

	ch := make(chan []models.AudioFile, 1)
	go func() {
		defer close(ch)

		authoritative, err := s.listRemote(ctx)
		if err != nil {
			s.log.Warn(ctx, "remote audio listing failed, keeping cached view", "error", err)
			ch <- cached
			return
		}

		if err := s.replaceCache(ctx, authoritative); err != nil {
			s.log.Warn(ctx, "rewriting audio cache", "error", err)
		}

		ch <- authoritative
	}()

	return cached, ch
}

// listRemote lists the audio namespace and resolves tags for every object
// concurrently. A failed tag fetch degrades that one object to tagless
// rather than failing the listing.
func (s *AudioService) listRemote(ctx context.Context) ([]models.AudioFile, error) {
	objects, err := s.blob.List(ctx, asset.AudioPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing audio objects: %w", err)
	}

	result := make([]models.AudioFile, len(objects))
	var wg sync.WaitGroup
	for i, obj := range objects {
		result[i] = models.AudioFile{
			FileName:  strings.TrimPrefix(obj.Key, asset.AudioPrefix),
			CreatedAt: obj.CreatedAt,
		}

		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			tags, err := s.blob.GetTags(ctx, key)
			if err != nil {
				s.log.Warn(ctx, "fetching object tags", "key", key, "error", err)
				return
			}
			result[i].CustomName = tags.CustomName
			result[i].SenderUsername = tags.SenderUsername
			result[i].SenderUserID = tags.SenderUserID
		}(i, obj.Key)
	}
	wg.Wait()

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].CreatedAt, result[j].CreatedAt
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.After(b)
	})

	s.markLocal(result)
	return result, nil
}

// replaceCache swaps the cached audio list for the authoritative one in a
// single transaction.
func (s *AudioService) replaceCache(ctx context.Context, files []models.AudioFile) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := audiofiles.NewSQLiteRepository(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		for i := range files {
			if err := repo.Upsert(ctx, &files[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Upload stores the local recording in the blob store under the audio
// namespace, then records the metadata projection and the cache row. The
// blob write is the one that matters; metadata and cache failures are
// logged and absorbed, reconciliation will repair them.
func (s *AudioService) Upload(ctx context.Context, localPath string, customName string) (*models.AudioFile, error) {
	fileName := filepath.Base(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	tags := blob.Tags{
		CustomName:     customName,
		SenderUsername: s.self.Username,
		SenderUserID:   s.self.UserID,
	}
	if err := s.blob.Put(ctx, asset.AudioPrefix+fileName, f, tags); err != nil {
		return nil, fmt.Errorf("uploading %s: %w", fileName, err)
	}

	file := &models.AudioFile{
		FileName:       fileName,
		CustomName:     customName,
		SenderUsername: s.self.Username,
		SenderUserID:   s.self.UserID,
		LocalPath:      localPath,
	}

	if err := s.meta.PutAudioRecord(ctx, &meta.AudioRecord{
		FileName:       fileName,
		CustomName:     customName,
		SenderUsername: s.self.Username,
		SenderUserID:   s.self.UserID,
	}); err != nil {
		s.log.Warn(ctx, "recording audio metadata", "file", fileName, "error", err)
	}

	if err := s.files.Upsert(ctx, file); err != nil {
		s.log.Warn(ctx, "caching uploaded audio", "file", fileName, "error", err)
	}

	return file, nil
}

// Rename sets a new display name for an asset. The name must be non-empty
// after trimming and must not collide case-insensitively with another
// asset's display name; renaming an asset to its own current name is a
// no-op that succeeds. The cache row is written first, then the blob tag;
// a remote failure surfaces but leaves the cache optimistically ahead.
func (s *AudioService) Rename(ctx context.Context, fileName string, newName string) error {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return common.ErrEmptyName
	}

	cached, err := s.files.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reading cached audio list: %w", err)
	}
	for _, f := range cached {
		if f.FileName != fileName && strings.EqualFold(f.DisplayName(), trimmed) {
			return common.ErrDuplicateName
		}
	}

	file, err := s.files.GetByName(ctx, fileName)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", fileName, err)
	}

	file.CustomName = trimmed
	if err := s.files.Upsert(ctx, file); err != nil {
		return fmt.Errorf("caching rename of %s: %w", fileName, err)
	}

	key := asset.AudioPrefix + fileName
	tags, err := s.blob.GetTags(ctx, key)
	if err != nil {
		return fmt.Errorf("renaming %s: %w", fileName, err)
	}
	tags.CustomName = trimmed
	if err := s.blob.UpdateTags(ctx, key, tags); err != nil {
		return fmt.Errorf("renaming %s: %w", fileName, err)
	}

	return nil
}

// Delete removes an asset everywhere: the materialized local file, the
// cache rows and finally the remote object. A remote failure is returned
// but the local removals are not undone; the asset reappears on the next
// reconcile if the object survived.
func (s *AudioService) Delete(ctx context.Context, fileName string) error {
	if err := os.Remove(s.localPath(fileName)); err != nil && !os.IsNotExist(err) {
		s.log.Warn(ctx, "removing local audio file", "file", fileName, "error", err)
	}

	if err := s.files.DeleteByName(ctx, fileName); err != nil {
		return fmt.Errorf("deleting cached audio %s: %w", fileName, err)
	}

	if err := s.blob.Delete(ctx, asset.AudioPrefix+fileName); err != nil {
		return fmt.Errorf("deleting remote audio %s: %w", fileName, err)
	}

	return nil
}

// Materialize ensures the asset's bytes exist on device and returns the
// local path. Already-present bytes are reused without a network round
// trip.
func (s *AudioService) Materialize(ctx context.Context, fileName string) (string, error) {
	path := s.localPath(fileName)
	if filex.Exists(path) {
		return path, nil
	}

	url, err := s.blob.PresignGet(ctx, asset.AudioPrefix+fileName)
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", fileName, err)
	}
	if err := netx.DownloadFile(ctx, url, path); err != nil {
		return "", fmt.Errorf("downloading %s: %w", fileName, err)
	}

	if file, err := s.files.GetByName(ctx, fileName); err == nil {
		file.LocalPath = path
		if err := s.files.Upsert(ctx, file); err != nil {
			s.log.Warn(ctx, "caching local path", "file", fileName, "error", err)
		}
	}

	return path, nil
}
