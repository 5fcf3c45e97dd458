// Package chat implements the conversation orchestrator: the state machine
// that turns a user question into completion calls and price lookups.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/services/llm"
	"github.com/unifiedui/price-chat/internal/services/prices"
)

var (
	// ErrBusy is returned when a submission arrives while a cycle is running.
	ErrBusy = errors.New("conversation is busy")

	// ErrEmptyInput is returned when the submitted text is blank.
	ErrEmptyInput = errors.New("input is empty")
)

// ChangeFunc observes a conversation. It receives a snapshot after every
// transcript mutation and is called without the conversation lock held.
type ChangeFunc func(state State, entries []models.Entry)

// ConversationConfig holds the dependencies of a conversation.
type ConversationConfig struct {
	ID        string
	Completer llm.Completer
	Searcher  prices.Searcher
	Logger    *zerolog.Logger
	OnChange  ChangeFunc

	// Entries restores a previous transcript. When empty the conversation
	// starts from the system prompt and the greeting.
	Entries []models.Entry
}

// Conversation owns one transcript and drives its cycles.
type Conversation struct {
	id        string
	completer llm.Completer
	searcher  prices.Searcher
	logger    zerolog.Logger
	onChange  ChangeFunc

	mu      sync.Mutex
	state   State
	entries []models.Entry
}

// NewConversation creates a conversation, seeded or restored.
func NewConversation(config *ConversationConfig) (*Conversation, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if config.Searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}

	entries := SeedTranscript()
	if len(config.Entries) > 0 {
		if _, ok := config.Entries[0].Message.(models.SystemMessage); !ok {
			return nil, fmt.Errorf("transcript must start with a system message")
		}
		entries = withoutLoading(config.Entries)
	}

	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	if config.ID != "" {
		logger = logger.With().Str("conversation_id", config.ID).Logger()
	}

	return &Conversation{
		id:        config.ID,
		completer: config.Completer,
		searcher:  config.Searcher,
		logger:    logger,
		onChange:  config.OnChange,
		state:     StateIdle,
		entries:   entries,
	}, nil
}

// SeedTranscript returns the opening transcript of every conversation.
func SeedTranscript() []models.Entry {
	return []models.Entry{
		{Message: models.SystemMessage{Content: SystemPrompt}},
		{Message: models.AssistantMessage{Content: Greeting}},
	}
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string {
	return c.id
}

// State returns the current state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript returns a copy of the full transcript, system message included.
func (c *Conversation) Transcript() []models.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Visible returns the transcript without the system message.
func (c *Conversation) Visible() []models.Entry {
	return VisibleEntries(c.Transcript())
}

// VisibleEntries filters out system messages.
func VisibleEntries(entries []models.Entry) []models.Entry {
	visible := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Message.Role() == models.RoleSystem {
			continue
		}
		visible = append(visible, e)
	}
	return visible
}

// Submit runs one full cycle for input and returns once the conversation is
// Idle again. Completion failures end the cycle with ErrorText and are not
// returned; only ErrEmptyInput and ErrBusy are.
func (c *Conversation) Submit(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}

	history, err := c.begin(input)
	if err != nil {
		return err
	}

	reply, err := c.completer.Complete(ctx, history)
	if err != nil {
		c.fail(err)
		return nil
	}

	if reply == nil {
		reply = &models.AssistantMessage{}
	}

	call, args, ok := c.acceptFirstReply(*reply)
	if !ok {
		return nil
	}

	c.logger.Info().
		Str("term", args.Term).
		Interface("city_id", args.CityID).
		Msg("searching prices")

	result := c.searcher.Search(ctx, args.Term, args.CityID)
	toolMessage := models.ToolMessage{
		Content:    prices.Format(result) + ToolResultSuffix,
		ToolCallID: call.ID,
	}

	history = c.acceptToolResult(toolMessage)

	final, err := c.completer.Complete(ctx, history)
	if err != nil {
		c.fail(err)
		return nil
	}

	content := ""
	if final != nil {
		content = final.Content
	}
	c.finish(models.AssistantMessage{Content: content})
	return nil
}

// begin appends the user message and the thinking placeholder and returns
// the history for the first completion.
func (c *Conversation) begin(input string) ([]models.Message, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, ErrBusy
	}

	c.entries = append(c.entries, models.Entry{Message: models.UserMessage{Content: input}})
	history := historyOf(c.entries)
	c.entries = append(c.entries, models.NewLoadingEntry(ThinkingText))
	c.setStateLocked(StateAwaitingFirstCompletion)
	c.mu.Unlock()

	c.notify()
	return history, nil
}

// acceptFirstReply replaces the thinking placeholder with reply. It reports
// whether a valid price search was requested; otherwise the cycle is over.
func (c *Conversation) acceptFirstReply(reply models.AssistantMessage) (models.ToolCall, *llm.SearchPricesArgs, bool) {
	c.mu.Lock()

	if !reply.HasToolCalls() {
		c.replaceLoadingLocked(reply)
		c.setStateLocked(StateIdle)
		c.mu.Unlock()
		c.notify()
		return models.ToolCall{}, nil, false
	}

	// only the first tool call is honoured
	call := reply.ToolCalls[0]
	args, err := llm.ParseSearchPricesCall(call)
	if err != nil {
		c.logger.Warn().Err(err).Str("tool", call.Name).Msg("rejected tool call")
		c.replaceLoadingLocked(reply.WithoutToolCalls())
		c.entries = append(c.entries, models.Entry{Message: models.AssistantMessage{Content: InvalidToolCallText}})
		c.setStateLocked(StateIdle)
		c.mu.Unlock()
		c.notify()
		return models.ToolCall{}, nil, false
	}

	c.replaceLoadingLocked(reply)
	c.entries = append(c.entries, models.NewLoadingEntry(SearchingText))
	c.setStateLocked(StateAwaitingToolResult)
	c.mu.Unlock()

	c.notify()
	return call, args, true
}

// acceptToolResult replaces the searching placeholder with the tool message
// and returns the history for the second completion.
func (c *Conversation) acceptToolResult(msg models.ToolMessage) []models.Message {
	c.mu.Lock()
	c.replaceLoadingLocked(msg)
	history := historyOf(c.entries)
	c.setStateLocked(StateAwaitingSecondCompletion)
	c.mu.Unlock()

	c.notify()
	return history
}

func (c *Conversation) finish(msg models.AssistantMessage) {
	c.mu.Lock()
	c.entries = append(c.entries, models.Entry{Message: msg})
	c.setStateLocked(StateIdle)
	c.mu.Unlock()

	c.notify()
}

// fail drops a pending placeholder and appends the generic error message.
func (c *Conversation) fail(err error) {
	c.mu.Lock()
	c.logger.Error().Err(err).Str("state", c.state.String()).Msg("chat completion failed")

	if n := len(c.entries); n > 0 && c.entries[n-1].Loading {
		c.entries = c.entries[:n-1]
	}
	c.entries = append(c.entries, models.Entry{Message: models.AssistantMessage{Content: ErrorText}})
	c.setStateLocked(StateIdle)
	c.mu.Unlock()

	c.notify()
}

func (c *Conversation) replaceLoadingLocked(msg models.Message) {
	entry := models.Entry{Message: msg}
	if n := len(c.entries); n > 0 && c.entries[n-1].Loading {
		c.entries[n-1] = entry
		return
	}
	c.entries = append(c.entries, entry)
}

func (c *Conversation) setStateLocked(state State) {
	c.logger.Debug().
		Str("from", c.state.String()).
		Str("to", state.String()).
		Msg("state transition")
	c.state = state
}

func (c *Conversation) snapshotLocked() []models.Entry {
	out := make([]models.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Conversation) notify() {
	if c.onChange == nil {
		return
	}
	c.mu.Lock()
	state := c.state
	entries := c.snapshotLocked()
	c.mu.Unlock()

	c.onChange(state, entries)
}

// historyOf returns the messages sent to the model: every non-loading entry.
func historyOf(entries []models.Entry) []models.Message {
	history := make([]models.Message, 0, len(entries))
	for _, e := range entries {
		if e.Loading {
			continue
		}
		history = append(history, e.Message)
	}
	return history
}

func withoutLoading(entries []models.Entry) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Loading {
			out = append(out, e)
		}
	}
	return out
}
