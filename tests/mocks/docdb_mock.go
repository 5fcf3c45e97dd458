package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/price-chat/internal/core/docdb"
	"github.com/unifiedui/price-chat/internal/domain/models"
)

// MockDocDBClient is a mock implementation of docdb.Client.
type MockDocDBClient struct {
	mock.Mock
}

// Messages returns the messages collection.
func (m *MockDocDBClient) Messages() docdb.MessagesCollection {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(docdb.MessagesCollection)
}

// Ping verifies the database connection.
func (m *MockDocDBClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the database connection.
func (m *MockDocDBClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMessagesCollection is a mock implementation of docdb.MessagesCollection.
type MockMessagesCollection struct {
	mock.Mock
}

// Append stores records for a conversation.
func (m *MockMessagesCollection) Append(ctx context.Context, conversationID string, records []models.Record) error {
	args := m.Called(ctx, conversationID, records)
	return args.Error(0)
}

// List returns archived records.
func (m *MockMessagesCollection) List(ctx context.Context, opts *docdb.ListMessagesOptions) ([]models.Record, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}

// CountByConversation returns the number of archived records.
func (m *MockMessagesCollection) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteByConversation removes every record of a conversation.
func (m *MockMessagesCollection) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).(int64), args.Error(1)
}

// EnsureIndexes creates necessary indexes.
func (m *MockMessagesCollection) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
