package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SearchStatusOK is the status value the price service uses for success.
const SearchStatusOK = "Ok"

// PriceSearchResult is the response of the price search endpoint.
type PriceSearchResult struct {
	Status  string        `json:"Resultado"`
	Message string        `json:"Mensaje,omitempty"`
	Data    *PriceResults `json:"Datos,omitempty"`
}

// PriceResults wraps the list of matching items.
type PriceResults struct {
	Items []PricedItem `json:"Ítems,omitempty"`
}

// PricedItem is a product with the offers found for it.
type PricedItem struct {
	ProductName string       `json:"Producto"`
	Brand       string       `json:"Marca"`
	Size        string       `json:"Tamaño"`
	Unit        string       `json:"Unidad"`
	StoreOffers []StoreOffer `json:"ÍtemsTiendas,omitempty"`
}

// StoreOffer is the price of an item at one store.
// Date is passed through verbatim.
type StoreOffer struct {
	StoreName string  `json:"Tienda"`
	Price     float64 `json:"Precio"`
	Date      string  `json:"Fecha"`
}

// UnmarshalJSON accepts Precio as a number, a numeric string or null.
func (o *StoreOffer) UnmarshalJSON(data []byte) error {
	type plain StoreOffer
	aux := struct {
		*plain
		Price json.RawMessage `json:"Precio"`
	}{plain: (*plain)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	price, err := parsePrice(aux.Price)
	if err != nil {
		return fmt.Errorf("invalid Precio for %q: %w", o.StoreName, err)
	}
	o.Price = price
	return nil
}

func parsePrice(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, err
		}
		if text = strings.TrimSpace(text); text == "" {
			return 0, nil
		}
		return strconv.ParseFloat(text, 64)
	}

	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, err
	}
	return price, nil
}

// IsOK reports whether the service answered with a success status.
func (r *PriceSearchResult) IsOK() bool {
	return r != nil && r.Status == SearchStatusOK
}

// ItemList returns the items of the result, or nil when absent.
func (r *PriceSearchResult) ItemList() []PricedItem {
	if r == nil || r.Data == nil {
		return nil
	}
	return r.Data.Items
}

// NewPriceSearchError builds an error-status result carrying message.
func NewPriceSearchError(message string) *PriceSearchResult {
	return &PriceSearchResult{
		Status:  "Error",
		Message: message,
	}
}

// City identifiers understood by the price service.
const (
	CityBogota       = 1
	CityMedellin     = 2
	CityCali         = 3
	CityBarranquilla = 4
)
