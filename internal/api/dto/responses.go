package dto

import (
	"github.com/unifiedui/price-chat/internal/domain/models"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is one visible transcript entry.
type MessageResponse struct {
	Role       string            `json:"role"`
	Content    string            `json:"content"`
	ToolCalls  []models.ToolCall `json:"toolCalls,omitempty"`
	ToolCallID string            `json:"toolCallId,omitempty"`
	Loading    bool              `json:"loading,omitempty"`
}

// ConversationResponse is the visible state of a conversation.
type ConversationResponse struct {
	ConversationID string            `json:"conversationId"`
	State          string            `json:"state"`
	Messages       []MessageResponse `json:"messages"`
}

// ArchiveResponse lists archived records of a conversation.
type ArchiveResponse struct {
	ConversationID string          `json:"conversationId"`
	Messages       []models.Record `json:"messages"`
	Limit          int64           `json:"limit"`
	Offset         int64           `json:"offset"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// NewMessageResponses converts transcript entries for the API.
func NewMessageResponses(entries []models.Entry) []MessageResponse {
	out := make([]MessageResponse, 0, len(entries))
	for _, e := range entries {
		r := models.ToRecord(e)
		out = append(out, MessageResponse{
			Role:       string(r.Role),
			Content:    r.Content,
			ToolCalls:  r.ToolCalls,
			ToolCallID: r.ToolCallID,
			Loading:    r.Loading,
		})
	}
	return out
}
