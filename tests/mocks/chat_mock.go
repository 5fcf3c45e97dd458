package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/price-chat/internal/domain/models"
)

// MockCompleter is a mock implementation of llm.Completer.
type MockCompleter struct {
	mock.Mock
}

// Complete returns the next assistant message.
func (m *MockCompleter) Complete(ctx context.Context, history []models.Message) (*models.AssistantMessage, error) {
	args := m.Called(ctx, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssistantMessage), args.Error(1)
}

// MockSearcher is a mock implementation of prices.Searcher.
type MockSearcher struct {
	mock.Mock
}

// Search looks up prices.
func (m *MockSearcher) Search(ctx context.Context, term string, cityID *int) *models.PriceSearchResult {
	args := m.Called(ctx, term, cityID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.PriceSearchResult)
}
