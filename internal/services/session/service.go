// Package session keeps conversation transcripts in the cache so a
// conversation survives a server restart or lands on another instance.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/price-chat/internal/core/cache"
	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/pkg/encryption"
)

const (
	// DefaultSessionTTL is how long an untouched conversation is kept.
	DefaultSessionTTL = 30 * time.Minute

	keyPrefix = "pricechat:session:"
)

// Snapshot is the cached form of a conversation.
type Snapshot struct {
	ConversationID string          `json:"conversationId"`
	Records        []models.Record `json:"records"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Service stores and restores transcripts.
type Service interface {
	// GetTranscript returns the cached transcript, or nil if there is none.
	GetTranscript(ctx context.Context, conversationID string) ([]models.Entry, error)

	// GetSnapshot returns the cached snapshot with its timestamps, or nil.
	GetSnapshot(ctx context.Context, conversationID string) (*Snapshot, error)

	// SaveTranscript stores the transcript with the configured TTL.
	SaveTranscript(ctx context.Context, conversationID string, entries []models.Entry) error

	// DeleteTranscript removes a cached transcript.
	DeleteTranscript(ctx context.Context, conversationID string) error

	// BuildCacheKey generates the cache key for a conversation.
	BuildCacheKey(conversationID string) string
}

type service struct {
	cache     cache.Cache
	encryptor encryption.Encryptor
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// Config holds the configuration for the session service.
type Config struct {
	Cache     cache.Cache
	Encryptor encryption.Encryptor
	TTL       time.Duration
	Logger    *zerolog.Logger
	Now       func() time.Time
}

// NewService creates a new session service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if cfg.Encryptor == nil {
		return nil, fmt.Errorf("encryptor is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		cache:     cfg.Cache,
		encryptor: cfg.Encryptor,
		ttl:       ttl,
		logger:    logger.With().Str("component", "session").Logger(),
		now:       now,
	}, nil
}

// GetTranscript retrieves a transcript from the cache.
// Entries that cannot be decrypted or decoded are dropped and reported as absent.
func (s *service) GetTranscript(ctx context.Context, conversationID string) ([]models.Entry, error) {
	_, entries, err := s.load(ctx, s.BuildCacheKey(conversationID))
	return entries, err
}

// GetSnapshot retrieves the snapshot of a conversation from the cache.
func (s *service) GetSnapshot(ctx context.Context, conversationID string) (*Snapshot, error) {
	snapshot, _, err := s.load(ctx, s.BuildCacheKey(conversationID))
	return snapshot, err
}

// SaveTranscript stores a transcript in the cache.
// The creation time of an existing snapshot is kept.
func (s *service) SaveTranscript(ctx context.Context, conversationID string, entries []models.Entry) error {
	if conversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	key := s.BuildCacheKey(conversationID)

	now := s.now().UTC()
	snapshot := Snapshot{
		ConversationID: conversationID,
		Records:        models.ToRecords(entries, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	previous, _, err := s.load(ctx, key)
	if err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("previous session unavailable")
	}
	if previous != nil && !previous.CreatedAt.IsZero() {
		snapshot.CreatedAt = previous.CreatedAt
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	encrypted, err := s.encryptor.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	if err := s.cache.Set(ctx, key, []byte(encrypted), s.ttl); err != nil {
		return fmt.Errorf("failed to store session in cache: %w", err)
	}

	return nil
}

// DeleteTranscript removes a transcript from the cache.
func (s *service) DeleteTranscript(ctx context.Context, conversationID string) error {
	if _, err := s.cache.Delete(ctx, s.BuildCacheKey(conversationID)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// BuildCacheKey generates the cache key for a conversation.
func (s *service) BuildCacheKey(conversationID string) string {
	return keyPrefix + conversationID
}

// load reads and decodes the snapshot under key. Unreadable snapshots are
// deleted and reported as absent.
func (s *service) load(ctx context.Context, key string) (*Snapshot, []models.Entry, error) {
	encrypted, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session from cache: %w", err)
	}
	if encrypted == nil {
		return nil, nil, nil
	}

	decrypted, err := s.encryptor.Decrypt(string(encrypted))
	if err != nil {
		s.discard(ctx, key, err)
		return nil, nil, nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(decrypted, &snapshot); err != nil {
		s.discard(ctx, key, err)
		return nil, nil, nil
	}

	entries, err := models.FromRecords(snapshot.Records)
	if err != nil || len(entries) == 0 {
		s.discard(ctx, key, err)
		return nil, nil, nil
	}

	return &snapshot, entries, nil
}

func (s *service) discard(ctx context.Context, key string, cause error) {
	s.logger.Warn().Err(cause).Str("key", key).Msg("discarding unreadable session")
	_, _ = s.cache.Delete(ctx, key)
}
