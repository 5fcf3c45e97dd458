package testutils

import (
	"github.com/unifiedui/price-chat/internal/domain/models"
)

// Test constants
const (
	TestConversationID = "conv-test-456"
	TestToolCallID     = "call-test-789"
	TestAPIKey         = "test-api-key"
)

// NewTestPriceResult returns an Ok result with one item and two offers.
func NewTestPriceResult() *models.PriceSearchResult {
	return &models.PriceSearchResult{
		Status: models.SearchStatusOK,
		Data: &models.PriceResults{Items: []models.PricedItem{{
			ProductName: "Arroz Blanco",
			Brand:       "Diana",
			Size:        "500",
			Unit:        "g",
			StoreOffers: []models.StoreOffer{
				{StoreName: "Éxito", Price: 12000, Date: "2024-05-01"},
				{StoreName: "Jumbo", Price: 8500, Date: "2024-05-02"},
			},
		}}},
	}
}

// NewTestToolCallReply returns an assistant reply asking for a price search.
func NewTestToolCallReply(arguments string) *models.AssistantMessage {
	return &models.AssistantMessage{
		ToolCalls: []models.ToolCall{{
			ID:        TestToolCallID,
			Name:      "search_prices",
			Arguments: arguments,
		}},
	}
}

// NewTestAnswer returns a plain assistant reply.
func NewTestAnswer(content string) *models.AssistantMessage {
	return &models.AssistantMessage{Content: content}
}
