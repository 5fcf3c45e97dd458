package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/price-chat/internal/domain/models"
)

func TestToRecords_NumbersFromOffset(t *testing.T) {
	entries := []models.Entry{
		{Message: models.UserMessage{Content: "precio del arroz"}},
		{Message: models.AssistantMessage{ToolCalls: []models.ToolCall{{ID: "call-1", Name: "search_prices", Arguments: `{"term":"arroz"}`}}}},
		{Message: models.ToolMessage{Content: "resultado", ToolCallID: "call-1"}},
	}

	records := models.ToRecords(entries, 2)

	require.Len(t, records, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{records[0].Sequence, records[1].Sequence, records[2].Sequence})
	assert.Equal(t, models.RoleAssistant, records[1].Role)
	assert.Equal(t, "search_prices", records[1].ToolCalls[0].Name)
	assert.Equal(t, "call-1", records[2].ToolCallID)
	assert.Empty(t, records[2].ToolCalls)
}

func TestToRecord_DoesNotShareToolCalls(t *testing.T) {
	msg := models.AssistantMessage{ToolCalls: []models.ToolCall{{ID: "call-1", Name: "search_prices"}}}

	record := models.ToRecord(models.Entry{Message: msg})
	record.ToolCalls[0].Name = "changed"

	assert.Equal(t, "search_prices", msg.ToolCalls[0].Name)
}

func TestFromRecords_RebuildsVariants(t *testing.T) {
	records := []models.Record{
		{Role: models.RoleSystem, Content: "sistema"},
		{Role: models.RoleAssistant, Content: "Pensando...", Loading: true},
		{Role: models.RoleTool, Content: "resultado", ToolCallID: "call-1"},
	}

	entries, err := models.FromRecords(records)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.IsType(t, models.SystemMessage{}, entries[0].Message)
	assert.True(t, entries[1].Loading)
	tool, ok := entries[2].Message.(models.ToolMessage)
	require.True(t, ok)
	assert.Equal(t, "call-1", tool.ToolCallID)
}

func TestFromRecords_UnknownRole(t *testing.T) {
	_, err := models.FromRecords([]models.Record{{Role: "narrator", Content: "x"}})
	assert.Error(t, err)
}

func TestAssistantMessage_ToolCalls(t *testing.T) {
	msg := models.AssistantMessage{Content: "buscando", ToolCalls: []models.ToolCall{{Name: "search_prices"}}}

	assert.True(t, msg.HasToolCalls())
	stripped := msg.WithoutToolCalls()
	assert.False(t, stripped.HasToolCalls())
	assert.Equal(t, "buscando", stripped.Content)

	loading := models.NewLoadingEntry("Pensando...")
	assert.True(t, loading.Loading)
	assert.Equal(t, models.RoleAssistant, loading.Message.Role())
}
