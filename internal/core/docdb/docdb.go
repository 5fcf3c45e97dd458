// Package docdb defines the document database used to archive conversations.
package docdb

import (
	"context"

	"github.com/unifiedui/price-chat/internal/domain/models"
)

// Type represents the type of document database.
type Type string

const (
	// TypeMongoDB represents a MongoDB database.
	TypeMongoDB Type = "mongodb"
	// TypeNone disables archiving.
	TypeNone Type = "none"
)

// SortOrder represents the sort direction.
type SortOrder string

const (
	// SortOrderAsc represents ascending order.
	SortOrderAsc SortOrder = "asc"
	// SortOrderDesc represents descending order.
	SortOrderDesc SortOrder = "desc"
)

// ListMessagesOptions contains options for listing archived messages.
type ListMessagesOptions struct {
	ConversationID string
	Limit          int64
	Skip           int64
	OrderBy        SortOrder // by sequence, ascending when empty
}

// Client defines the interface for a document database client.
type Client interface {
	// Messages returns the message archive.
	Messages() MessagesCollection

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error
}

// MessagesCollection archives transcript records.
type MessagesCollection interface {
	// Append stores records for a conversation. Records keep their sequence.
	Append(ctx context.Context, conversationID string, records []models.Record) error

	// List returns archived records of a conversation ordered by sequence.
	List(ctx context.Context, opts *ListMessagesOptions) ([]models.Record, error)

	// CountByConversation returns the number of archived records.
	CountByConversation(ctx context.Context, conversationID string) (int64, error)

	// DeleteByConversation removes every record of a conversation.
	DeleteByConversation(ctx context.Context, conversationID string) (int64, error)

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}
