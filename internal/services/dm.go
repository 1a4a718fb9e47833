package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/whisperapp/whisper/internal/asset"
	"github.com/whisperapp/whisper/internal/cache"
	"github.com/whisperapp/whisper/internal/cache/messages"
	"github.com/whisperapp/whisper/internal/cache/users"
	"github.com/whisperapp/whisper/internal/common"
	"github.com/whisperapp/whisper/internal/filex"
	"github.com/whisperapp/whisper/internal/logging"
	"github.com/whisperapp/whisper/internal/models"
	"github.com/whisperapp/whisper/internal/netx"
	"github.com/whisperapp/whisper/internal/store/blob"
	"github.com/whisperapp/whisper/internal/store/meta"
)

// DMService handles two-party voice conversations. Audio lives in the blob
// store under the conversation's namespace, message records in the
// metadata store partitioned by conversation key, and the local cache
// mirrors the partitions the user has synced.
type DMService struct {
	blob     blob.Store
	meta     meta.Store
	messages messages.Repository
	users    users.Repository
	self     asset.Identity
	mediaDir string
	log      logging.Logger

	newID func() string
}

func NewDMService(b blob.Store, m meta.Store, repos *cache.Repositories,
	self asset.Identity, mediaDir string, log logging.Logger) *DMService {
	return &DMService{
		blob:     b,
		meta:     m,
		messages: repos.Messages,
		users:    repos.Users,
		self:     self,
		mediaDir: mediaDir,
		log:      log,
		newID:    uuid.NewString,
	}
}

// Send uploads the recording into the conversation's blob namespace and
// appends the message record. Blob and metadata writes are both required;
// the cache upsert is optimistic and non-fatal.
func (s *DMService) Send(ctx context.Context, localPath string, receiver asset.Identity) (*models.Message, error) {
	fileName := filepath.Base(localPath)
	convKey := asset.ConversationKey(s.self.UserID, receiver.UserID)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	tags := blob.Tags{
		SenderUsername:   s.self.Username,
		SenderUserID:     s.self.UserID,
		ReceiverUsername: receiver.Username,
		ReceiverUserID:   receiver.UserID,
	}
	if err := s.blob.Put(ctx, asset.DMPrefix(convKey)+fileName, f, tags); err != nil {
		return nil, fmt.Errorf("uploading dm audio %s: %w", fileName, err)
	}

	msg := &models.Message{
		MessageID:      s.newID(),
		AudioFileName:  fileName,
		SenderUserID:   s.self.UserID,
		ReceiverUserID: receiver.UserID,
		CreatedAt:      time.Now().UTC(),
		LocalPath:      localPath,
	}

	if err := s.meta.PutMessage(ctx, &meta.MessageRecord{
		MessageID:       msg.MessageID,
		ConversationKey: convKey,
		AudioFileName:   fileName,
		SenderUserID:    s.self.UserID,
		ReceiverUserID:  receiver.UserID,
	}); err != nil {
		return nil, fmt.Errorf("recording dm message: %w", err)
	}

	if err := s.messages.Upsert(ctx, msg); err != nil {
		s.log.Warn(ctx, "caching sent message", "message_id", msg.MessageID, "error", err)
	}

	return msg, nil
}

// ListMessages fetches the conversation with the other user from the
// metadata store, ascending by timestamp.
func (s *DMService) ListMessages(ctx context.Context, otherID string) ([]models.Message, error) {
	convKey := asset.ConversationKey(s.self.UserID, otherID)
	records, err := s.meta.ListMessages(ctx, convKey)
	if err != nil {
		return nil, fmt.Errorf("listing conversation: %w", err)
	}

	result := make([]models.Message, 0, len(records))
	for _, rec := range records {
		msg := models.Message{
			MessageID:      rec.MessageID,
			AudioFileName:  rec.AudioFileName,
			SenderUserID:   rec.SenderUserID,
			ReceiverUserID: rec.ReceiverUserID,
			CreatedAt:      rec.CreatedAt,
		}
		if path := filepath.Join(s.mediaDir, rec.AudioFileName); filex.Exists(path) {
			msg.LocalPath = path
		}
		result = append(result, msg)
	}

	return result, nil
}

// CachedMessages returns the locally cached conversation, same order as
// ListMessages. Used when the metadata store is unreachable.
func (s *DMService) CachedMessages(ctx context.Context, otherID string) ([]models.Message, error) {
	return s.messages.GetConversation(ctx, s.self.UserID, otherID)
}

// SyncConversation pulls the remote partition into the cache. Message
// rows are cached whether or not their audio bytes are present locally.
func (s *DMService) SyncConversation(ctx context.Context, otherID string) error {
	msgs, err := s.ListMessages(ctx, otherID)
	if err != nil {
		return err
	}

	for i := range msgs {
		if err := s.messages.Upsert(ctx, &msgs[i]); err != nil {
			return fmt.Errorf("caching message %s: %w", msgs[i].MessageID, err)
		}
	}

	return nil
}

// MaterializeMessage ensures a message's audio bytes exist on device and
// returns the local path.
func (s *DMService) MaterializeMessage(ctx context.Context, msg *models.Message) (string, error) {
	path := filepath.Join(s.mediaDir, msg.AudioFileName)
	if filex.Exists(path) {
		return path, nil
	}

	convKey := asset.ConversationKey(msg.SenderUserID, msg.ReceiverUserID)
	url, err := s.blob.PresignGet(ctx, asset.DMPrefix(convKey)+msg.AudioFileName)
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", msg.AudioFileName, err)
	}
	if err := netx.DownloadFile(ctx, url, path); err != nil {
		return "", fmt.Errorf("downloading %s: %w", msg.AudioFileName, err)
	}

	return path, nil
}

// RemoveContact deletes the contact row and the conversation's cached
// messages. Strictly local: remote message records and audio are never
// deleted. Removing an unknown contact is not an error.
func (s *DMService) RemoveContact(ctx context.Context, username string) error {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up contact %s: %w", username, err)
	}

	if err := s.messages.DeleteConversation(ctx, s.self.UserID, u.UserID); err != nil {
		return fmt.Errorf("deleting cached conversation: %w", err)
	}
	if err := s.users.DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("deleting contact %s: %w", username, err)
	}

	return nil
}
