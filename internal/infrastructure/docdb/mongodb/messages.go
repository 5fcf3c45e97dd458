package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unifiedui/price-chat/internal/core/docdb"
	"github.com/unifiedui/price-chat/internal/domain/models"
)

// MessagesCollectionName is the name of the archive collection.
const MessagesCollectionName = "price_chat_messages"

// MessagesCollection implements docdb.MessagesCollection for MongoDB.
type MessagesCollection struct {
	collection *mongo.Collection
}

var _ docdb.MessagesCollection = (*MessagesCollection)(nil)

// NewMessagesCollection creates a new messages collection wrapper.
func NewMessagesCollection(db *mongo.Database) *MessagesCollection {
	return &MessagesCollection{
		collection: db.Collection(MessagesCollectionName),
	}
}

// Append inserts records for a conversation. Records without a creation time
// are stamped with the current time.
func (c *MessagesCollection) Append(ctx context.Context, conversationID string, records []models.Record) error {
	if conversationID == "" {
		return fmt.Errorf("conversation ID is required")
	}
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		r.ConversationID = conversationID
		r.Loading = false
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		docs = append(docs, r)
	}

	if _, err := c.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert messages: %w", err)
	}

	return nil
}

// List returns archived records of a conversation.
func (c *MessagesCollection) List(ctx context.Context, opts *docdb.ListMessagesOptions) ([]models.Record, error) {
	if opts == nil || opts.ConversationID == "" {
		return nil, fmt.Errorf("conversation ID is required")
	}

	cursor, err := c.collection.Find(ctx, BuildFilter(opts.ConversationID), BuildFindOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return records, nil
}

// CountByConversation returns the number of archived records.
func (c *MessagesCollection) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	count, err := c.collection.CountDocuments(ctx, BuildFilter(conversationID))
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// DeleteByConversation removes every record of a conversation.
func (c *MessagesCollection) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	if conversationID == "" {
		return 0, fmt.Errorf("conversation ID is required")
	}

	result, err := c.collection.DeleteMany(ctx, BuildFilter(conversationID))
	if err != nil {
		return 0, fmt.Errorf("failed to delete messages: %w", err)
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes for the collection.
func (c *MessagesCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "conversationId", Value: 1},
				{Key: "sequence", Value: 1},
			},
			Options: options.Index().SetName("idx_conversation_sequence"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create messages indexes: %w", err)
	}

	return nil
}

// BuildFilter creates the filter selecting one conversation.
func BuildFilter(conversationID string) bson.M {
	return bson.M{"conversationId": conversationID}
}

// BuildFindOptions creates MongoDB find options from list options.
func BuildFindOptions(opts *docdb.ListMessagesOptions) *options.FindOptions {
	findOpts := options.Find()

	sortOrder := 1
	if opts != nil {
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
		if opts.Skip > 0 {
			findOpts.SetSkip(opts.Skip)
		}
		if opts.OrderBy == docdb.SortOrderDesc {
			sortOrder = -1
		}
	}
	findOpts.SetSort(bson.D{{Key: "sequence", Value: sortOrder}})

	return findOpts
}
