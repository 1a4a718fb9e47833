package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/whisperapp/whisper/internal/asset"
	"github.com/whisperapp/whisper/internal/cache"
	"github.com/whisperapp/whisper/internal/config"
	"github.com/whisperapp/whisper/internal/filex"
	"github.com/whisperapp/whisper/internal/logging"
	"github.com/whisperapp/whisper/internal/services"
	"github.com/whisperapp/whisper/internal/store/blob"
	"github.com/whisperapp/whisper/internal/store/meta"
	"github.com/whisperapp/whisper/internal/store/speech"
)

// App wires the services behind the REPL.
type App struct {
	config    *config.Config
	self      asset.Identity
	audio     *services.AudioService
	dm        *services.DMService
	tr        *services.Transcriber
	directory *services.DirectoryService
	repos     *cache.Repositories
	metaStore *meta.PostgresStore
	mediaDir  string
	log       logging.Logger
	reader    *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, err
	}
	self := asset.Identity{Username: c.Username, UserID: c.UserID}

	mediaDir, err := filex.EnsureDir(c.MediaDir)
	if err != nil {
		return nil, err
	}

	repos, err := cache.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}

	blobStore, err := blob.NewS3Store(ctx, blob.Config{
		Endpoint:      c.S3Endpoint,
		Region:        c.S3Region,
		Bucket:        c.S3Bucket,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		PresignExpiry: time.Duration(c.PresignExpiryMinutes) * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing blob store: %w", err)
	}

	metaStore, err := meta.NewPostgresStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing metadata store: %w", err)
	}

	// publish our own directory row so other devices can find us
	if err := metaStore.EnsureUser(ctx, &meta.DirectoryUser{Username: c.Username, UserID: c.UserID}); err != nil {
		log.Warn(ctx, "publishing directory row", "error", err)
	}

	recognizer := speech.NewDeepgramRecognizer(c.DeepgramAPIKey, c.DeepgramEndpoint)

	return &App{
		config:    c,
		self:      self,
		audio:     services.NewAudioService(blobStore, metaStore, repos, self, mediaDir, log),
		dm:        services.NewDMService(blobStore, metaStore, repos, self, mediaDir, log),
		tr:        services.NewTranscriber(blobStore, recognizer, repos, mediaDir, c.Locale, log),
		directory: services.NewDirectoryService(metaStore, repos, c.SearchLimit, log),
		repos:     repos,
		metaStore: metaStore,
		mediaDir:  mediaDir,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.self.Username, scanner)
}

func (a *App) Close() {
	if err := a.repos.Close(); err != nil {
		a.log.Warn(context.Background(), "closing cache", "error", err)
	}
	if err := a.metaStore.Close(); err != nil {
		a.log.Warn(context.Background(), "closing metadata store", "error", err)
	}
}
