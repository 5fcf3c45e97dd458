// Package prices provides the price search client and the formatter that
// renders its results as text for the model.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/price-chat/internal/domain/models"
)

const (
	// SearchPath is the price search endpoint path.
	SearchPath = "/buscar/resultado"

	// ItemTypeFilter restricts results to catalogue items.
	ItemTypeFilter = "Ítem"

	// SearchFailedMessage is carried by the error result returned on any failure.
	SearchFailedMessage = "Error al buscar precios"
)

// Query parameter names.
const (
	paramAPIKey = "ClaveAPI"
	paramTerm   = "Término"
	paramType   = "Tipo"
	paramCity   = "MunicipioID"
)

// Searcher looks up product prices.
type Searcher interface {
	// Search never fails: transport and decoding problems come back as an
	// error-status result.
	Search(ctx context.Context, term string, cityID *int) *models.PriceSearchResult
}

// ClientConfig holds the configuration for the price search client.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client implements Searcher against the price search web service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new price search client.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		// transport defaults only
		httpClient = &http.Client{}
	}

	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Client{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "prices").Logger(),
	}, nil
}

// Search queries the price service for term, optionally scoped to a city.
func (c *Client) Search(ctx context.Context, term string, cityID *int) *models.PriceSearchResult {
	result, err := c.search(ctx, term, cityID)
	if err != nil {
		c.logger.Warn().Err(err).Str("term", term).Msg("price search failed")
		return models.NewPriceSearchError(SearchFailedMessage)
	}
	return result
}

func (c *Client) search(ctx context.Context, term string, cityID *int) (*models.PriceSearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(term, cityID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var result models.PriceSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	return &result, nil
}

// SearchURL builds the request URL for a search.
func (c *Client) SearchURL(term string, cityID *int) string {
	params := url.Values{}
	params.Set(paramAPIKey, c.apiKey)
	params.Set(paramTerm, term)
	params.Set(paramType, ItemTypeFilter)
	if cityID != nil && *cityID != 0 {
		params.Set(paramCity, strconv.Itoa(*cityID))
	}

	return c.baseURL + SearchPath + "?" + params.Encode()
}
