// Package llm provides the chat completion client used by the conversation
// orchestrator. It speaks the OpenAI-compatible protocol, which is what the
// Mistral API exposes.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/unifiedui/price-chat/internal/domain/models"
)

const (
	// DefaultBaseURL is the Mistral API root.
	DefaultBaseURL = "https://api.mistral.ai/v1"

	// DefaultModel is the model requested when none is configured.
	DefaultModel = "mistral-large-latest"
)

// ErrEmptyResponse is returned when the completion carries no choices.
var ErrEmptyResponse = errors.New("completion returned no choices")

// Completer produces the next assistant message for a history.
type Completer interface {
	Complete(ctx context.Context, history []models.Message) (*models.AssistantMessage, error)
}

// ClientConfig holds the configuration for the completion client.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client implements Completer with go-openai.
type Client struct {
	api    *openai.Client
	model  string
	tools  []openai.Tool
	logger zerolog.Logger
}

// NewClient creates a new completion client.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	apiConfig := openai.DefaultConfig(config.APIKey)
	apiConfig.BaseURL = DefaultBaseURL
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}
	if config.HTTPClient != nil {
		apiConfig.HTTPClient = config.HTTPClient
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Client{
		api:    openai.NewClientWithConfig(apiConfig),
		model:  model,
		tools:  []openai.Tool{SearchPricesTool()},
		logger: logger.With().Str("component", "llm").Logger(),
	}, nil
}

// Model returns the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the history together with the price search tool and returns
// the first choice. The request is sent once; failures are not retried.
func (c *Client) Complete(ctx context.Context, history []models.Message) (*models.AssistantMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: ToAPIMessages(history),
		Tools:    c.tools,
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	c.logger.Debug().
		Int("messages", len(history)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Dur("latency", time.Since(start)).
		Msg("chat completion received")

	return FromAPIMessage(resp.Choices[0].Message), nil
}

// ToAPIMessages converts a history to the wire representation.
func ToAPIMessages(history []models.Message) []openai.ChatCompletionMessage {
	res := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		apiMsg := openai.ChatCompletionMessage{
			Role:    string(msg.Role()),
			Content: msg.Text(),
		}

		switch m := msg.(type) {
		case models.AssistantMessage:
			apiMsg.ToolCalls = toAPIToolCalls(m.ToolCalls)
		case *models.AssistantMessage:
			apiMsg.ToolCalls = toAPIToolCalls(m.ToolCalls)
		case models.ToolMessage:
			apiMsg.ToolCallID = m.ToolCallID
		case *models.ToolMessage:
			apiMsg.ToolCallID = m.ToolCallID
		}

		res = append(res, apiMsg)
	}
	return res
}

func toAPIToolCalls(calls []models.ToolCall) []openai.ToolCall {
	if len(calls) == 0 {
		return nil
	}

	res := make([]openai.ToolCall, 0, len(calls))
	for _, call := range calls {
		res = append(res, openai.ToolCall{
			ID:   call.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		})
	}
	return res
}

// FromAPIMessage converts a completion choice message to an assistant message.
// A missing content becomes the empty string.
func FromAPIMessage(msg openai.ChatCompletionMessage) *models.AssistantMessage {
	out := &models.AssistantMessage{Content: msg.Content}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}
