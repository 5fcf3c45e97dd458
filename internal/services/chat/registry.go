package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/price-chat/internal/core/docdb"
	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/services/llm"
	"github.com/unifiedui/price-chat/internal/services/prices"
	"github.com/unifiedui/price-chat/internal/services/session"
)

var (
	// ErrArchiveDisabled is returned by Archive when no document database is configured.
	ErrArchiveDisabled = errors.New("message archive is disabled")

	// ErrConversationNotFound is returned by Lookup for ids that are neither
	// live nor stored in the session cache.
	ErrConversationNotFound = errors.New("conversation not found")
)

// RegistryConfig holds the dependencies of a Registry.
type RegistryConfig struct {
	Completer llm.Completer
	Searcher  prices.Searcher

	// Sessions and Archive are optional.
	Sessions session.Service
	Archive  docdb.MessagesCollection

	// IdleTTL is how long an untouched conversation stays live. It defaults
	// to the session TTL so memory and cache expire together.
	IdleTTL time.Duration

	Logger *zerolog.Logger
	NewID  func() string
	Now    func() time.Time
}

// liveConversation is a registry slot.
type liveConversation struct {
	conv     *Conversation
	lastUsed time.Time
}

// Registry keeps the live conversations of a server and persists them after
// every cycle.
type Registry struct {
	completer llm.Completer
	searcher  prices.Searcher
	sessions  session.Service
	archive   docdb.MessagesCollection
	logger    zerolog.Logger
	newID     func() string
	now       func() time.Time
	idleTTL   time.Duration

	mu            sync.Mutex
	conversations map[string]*liveConversation
}

// NewRegistry creates a new registry.
func NewRegistry(cfg *RegistryConfig) (*Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if cfg.Searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	idleTTL := cfg.IdleTTL
	if idleTTL <= 0 {
		idleTTL = session.DefaultSessionTTL
	}

	return &Registry{
		completer:     cfg.Completer,
		searcher:      cfg.Searcher,
		sessions:      cfg.Sessions,
		archive:       cfg.Archive,
		logger:        logger.With().Str("component", "registry").Logger(),
		newID:         newID,
		now:           now,
		idleTTL:       idleTTL,
		conversations: make(map[string]*liveConversation),
	}, nil
}

// Create starts a new conversation and persists its seed transcript.
func (r *Registry) Create(ctx context.Context) (*Conversation, error) {
	conv, err := r.newConversation(r.newID(), nil)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.conversations[conv.ID()] = &liveConversation{conv: conv, lastUsed: r.now()}
	r.mu.Unlock()

	r.persist(ctx, conv, 0)
	return conv, nil
}

// Get returns the live conversation for id, restores it from the session
// cache, or starts a fresh one under that id.
func (r *Registry) Get(ctx context.Context, id string) (*Conversation, error) {
	return r.load(ctx, id, true)
}

// Lookup is Get without the fresh start: unknown ids yield
// ErrConversationNotFound.
func (r *Registry) Lookup(ctx context.Context, id string) (*Conversation, error) {
	return r.load(ctx, id, false)
}

func (r *Registry) load(ctx context.Context, id string, create bool) (*Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("conversation id is required")
	}

	if conv := r.touch(id); conv != nil {
		return conv, nil
	}

	entries := r.restore(ctx, id)
	if entries == nil && !create {
		return nil, ErrConversationNotFound
	}

	conv, err := r.newConversation(id, entries)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	// another request may have won the race
	if existing, ok := r.conversations[id]; ok {
		existing.lastUsed = r.now()
		r.mu.Unlock()
		return existing.conv, nil
	}
	r.conversations[id] = &liveConversation{conv: conv, lastUsed: r.now()}
	r.mu.Unlock()

	if entries == nil {
		r.persist(ctx, conv, 0)
	}
	return conv, nil
}

// Submit runs one cycle on conversation id and persists what it appended.
func (r *Registry) Submit(ctx context.Context, id, input string) (*Conversation, error) {
	conv, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := len(conv.Transcript())
	if err := conv.Submit(ctx, input); err != nil {
		return conv, err
	}

	r.persist(ctx, conv, before)
	r.touch(id)
	return conv, nil
}

// Reset forgets a conversation. Archived messages are kept.
func (r *Registry) Reset(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.conversations, id)
	r.mu.Unlock()

	if r.sessions == nil {
		return nil
	}
	if err := r.sessions.DeleteTranscript(ctx, id); err != nil {
		return fmt.Errorf("failed to reset conversation: %w", err)
	}
	return nil
}

// Archive lists archived records of a conversation.
func (r *Registry) Archive(ctx context.Context, id string, limit, offset int64) ([]models.Record, error) {
	if r.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return r.archive.List(ctx, &docdb.ListMessagesOptions{
		ConversationID: id,
		Limit:          limit,
		Skip:           offset,
	})
}

// Evict drops live conversations idle for longer than the idle TTL and
// returns how many were dropped. Conversations with a cycle in flight stay.
// Snapshots are left to the cache TTL, so an evicted conversation can still
// be restored.
func (r *Registry) Evict() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, live := range r.conversations {
		if live.lastUsed.After(cutoff) || live.conv.State() != StateIdle {
			continue
		}
		delete(r.conversations, id)
		evicted++
	}
	return evicted
}

// StartEviction runs Evict every interval until ctx is done.
func (r *Registry) StartEviction(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Evict(); n > 0 {
					r.logger.Debug().Int("evicted", n).Int("live", r.Len()).Msg("evicted idle conversations")
				}
			}
		}
	}()
}

// Len returns the number of live conversations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conversations)
}

// touch refreshes the idle clock of a live conversation and returns it.
func (r *Registry) touch(id string) *Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	live, ok := r.conversations[id]
	if !ok {
		return nil
	}
	live.lastUsed = r.now()
	return live.conv
}

// isLive reports whether conv is still the registered conversation for its id.
func (r *Registry) isLive(conv *Conversation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	live, ok := r.conversations[conv.ID()]
	return ok && live.conv == conv
}

func (r *Registry) newConversation(id string, entries []models.Entry) (*Conversation, error) {
	return NewConversation(&ConversationConfig{
		ID:        id,
		Completer: r.completer,
		Searcher:  r.searcher,
		Logger:    &r.logger,
		Entries:   entries,
	})
}

func (r *Registry) restore(ctx context.Context, id string) []models.Entry {
	if r.sessions == nil {
		return nil
	}

	entries, err := r.sessions.GetTranscript(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("conversation_id", id).Msg("failed to restore conversation")
		return nil
	}
	return entries
}

// persist saves the snapshot and archives the entries from index from on.
// A conversation reset while its cycle ran is archived but not saved, so the
// reset sticks. Failures are logged only.
func (r *Registry) persist(ctx context.Context, conv *Conversation, from int) {
	entries := conv.Transcript()

	if r.sessions != nil && r.isLive(conv) {
		if err := r.sessions.SaveTranscript(ctx, conv.ID(), entries); err != nil {
			r.logger.Error().Err(err).Str("conversation_id", conv.ID()).Msg("failed to save session")
		}
		// a Reset that landed during the save must still win
		if !r.isLive(conv) {
			if err := r.sessions.DeleteTranscript(ctx, conv.ID()); err != nil {
				r.logger.Error().Err(err).Str("conversation_id", conv.ID()).Msg("failed to drop reset session")
			}
		}
	}

	if r.archive == nil || from >= len(entries) {
		return
	}

	records := models.ToRecords(withoutLoading(entries[from:]), from)
	if err := r.archive.Append(ctx, conv.ID(), records); err != nil {
		r.logger.Error().Err(err).Str("conversation_id", conv.ID()).Msg("failed to archive messages")
	}
}
