package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/unifiedui/price-chat/internal/domain/models"
)

// SearchPricesToolName is the function name the model calls to look up prices.
const SearchPricesToolName = "search_prices"

// SearchPricesArgs are the decoded arguments of a search_prices call.
type SearchPricesArgs struct {
	Term   string `json:"term"`
	CityID *int   `json:"cityId,omitempty"`
}

// SearchPricesTool returns the tool declaration sent with every completion.
func SearchPricesTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        SearchPricesToolName,
			Description: "Busca precios de productos en Colombia usando losprecios.co",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"term": {
						Type:        jsonschema.String,
						Description: "Nombre del producto a buscar",
					},
					"cityId": {
						Type:        jsonschema.Integer,
						Description: "Municipio: Bogotá=1, Medellín=2, Cali=3, Barranquilla=4",
					},
				},
				Required: []string{"term"},
			},
		},
	}
}

// ParseSearchPricesCall validates a tool call and decodes its arguments.
// It fails when the call targets another function, when the arguments are
// not a JSON object or when term is missing or blank.
func ParseSearchPricesCall(call models.ToolCall) (*SearchPricesArgs, error) {
	if call.Name != SearchPricesToolName {
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}

	var raw struct {
		Term   string          `json:"term"`
		CityID json.RawMessage `json:"cityId"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode tool arguments: %w", err)
	}

	args := &SearchPricesArgs{Term: strings.TrimSpace(raw.Term)}
	if args.Term == "" {
		return nil, fmt.Errorf("tool argument term is required")
	}

	cityID, err := parseCityID(raw.CityID)
	if err != nil {
		return nil, err
	}
	args.CityID = cityID

	return args, nil
}

// parseCityID accepts a number or a numeric string; null or absent means no city.
func parseCityID(raw json.RawMessage) (*int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("invalid cityId: %s", raw)
		}
		number = json.Number(strings.TrimSpace(text))
	}
	if number == "" {
		return nil, nil
	}

	value, err := number.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid cityId %q: %w", number, err)
	}

	id := int(value)
	return &id, nil
}
