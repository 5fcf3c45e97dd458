// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// ArchiveQuery represents the query parameters for listing archived messages.
type ArchiveQuery struct {
	Limit  int64 `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int64 `form:"offset" binding:"omitempty,min=0"`
}
