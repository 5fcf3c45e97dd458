package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/services/session"
)

// MockSessionService is a mock implementation of session.Service.
type MockSessionService struct {
	mock.Mock
}

// GetTranscript retrieves a transcript from cache.
func (m *MockSessionService) GetTranscript(ctx context.Context, conversationID string) ([]models.Entry, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

// GetSnapshot retrieves a snapshot from cache.
func (m *MockSessionService) GetSnapshot(ctx context.Context, conversationID string) (*session.Snapshot, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Snapshot), args.Error(1)
}

// SaveTranscript stores a transcript in cache.
func (m *MockSessionService) SaveTranscript(ctx context.Context, conversationID string, entries []models.Entry) error {
	args := m.Called(ctx, conversationID, entries)
	return args.Error(0)
}

// DeleteTranscript removes a transcript from cache.
func (m *MockSessionService) DeleteTranscript(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

// BuildCacheKey generates the cache key for a conversation.
func (m *MockSessionService) BuildCacheKey(conversationID string) string {
	args := m.Called(conversationID)
	return args.String(0)
}
