package services

import (
	"context"
	"fmt"

	"github.com/whisperapp/whisper/internal/cache"
	"github.com/whisperapp/whisper/internal/cache/users"
	"github.com/whisperapp/whisper/internal/logging"
	"github.com/whisperapp/whisper/internal/models"
	"github.com/whisperapp/whisper/internal/store/meta"
)

// DefaultSearchLimit caps directory search results.
const DefaultSearchLimit = 10

// DirectoryService searches the remote user directory and maintains the
// local contact list.
type DirectoryService struct {
	meta  meta.Store
	users users.Repository
	limit int
	log   logging.Logger
}

func NewDirectoryService(m meta.Store, repos *cache.Repositories, limit int, log logging.Logger) *DirectoryService {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &DirectoryService{
		meta:  m,
		users: repos.Users,
		limit: limit,
		log:   log,
	}
}

// Search returns directory usernames starting with prefix, capped at the
// configured limit.
func (s *DirectoryService) Search(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.meta.SearchUsernames(ctx, prefix, s.limit)
	if err != nil {
		return nil, fmt.Errorf("searching directory: %w", err)
	}
	return names, nil
}

// AddContact resolves a username in the directory and stores it locally.
// An already-cached contact short-circuits without a remote lookup; an
// unknown username surfaces common.ErrNotFound.
func (s *DirectoryService) AddContact(ctx context.Context, username string) (*models.User, error) {
	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("checking contact %s: %w", username, err)
	}
	if exists {
		return s.users.GetByUsername(ctx, username)
	}

	u, err := s.meta.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	contact := &models.User{Username: u.Username, UserID: u.UserID}
	if err := s.users.Insert(ctx, contact); err != nil {
		return nil, fmt.Errorf("caching contact %s: %w", username, err)
	}

	return contact, nil
}

// Contact returns a cached contact by username, or common.ErrNotFound.
func (s *DirectoryService) Contact(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// Contacts lists the locally cached contacts sorted by username.
func (s *DirectoryService) Contacts(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx)
}
