package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/services/llm"
)

func TestParseSearchPricesCall(t *testing.T) {
	call := func(name, args string) models.ToolCall {
		return models.ToolCall{ID: "call_1", Name: name, Arguments: args}
	}

	t.Run("term only", func(t *testing.T) {
		args, err := llm.ParseSearchPricesCall(call("search_prices", `{"term":" arroz "}`))
		require.NoError(t, err)
		assert.Equal(t, "arroz", args.Term)
		assert.Nil(t, args.CityID)
	})

	t.Run("term and city", func(t *testing.T) {
		args, err := llm.ParseSearchPricesCall(call("search_prices", `{"term":"leche","cityId":2}`))
		require.NoError(t, err)
		require.NotNil(t, args.CityID)
		assert.Equal(t, 2, *args.CityID)
	})

	t.Run("city as string", func(t *testing.T) {
		args, err := llm.ParseSearchPricesCall(call("search_prices", `{"term":"leche","cityId":"3"}`))
		require.NoError(t, err)
		require.NotNil(t, args.CityID)
		assert.Equal(t, 3, *args.CityID)
	})

	t.Run("null city", func(t *testing.T) {
		args, err := llm.ParseSearchPricesCall(call("search_prices", `{"term":"leche","cityId":null}`))
		require.NoError(t, err)
		assert.Nil(t, args.CityID)
	})

	failures := map[string]models.ToolCall{
		"unknown tool":    call("get_weather", `{"term":"arroz"}`),
		"invalid json":    call("search_prices", `{"term":`),
		"missing term":    call("search_prices", `{"cityId":1}`),
		"blank term":      call("search_prices", `{"term":"  "}`),
		"invalid city":    call("search_prices", `{"term":"arroz","cityId":"Bogotá"}`),
		"empty arguments": call("search_prices", ``),
	}
	for name, c := range failures {
		t.Run(name, func(t *testing.T) {
			args, err := llm.ParseSearchPricesCall(c)
			assert.Error(t, err)
			assert.Nil(t, args)
		})
	}
}
