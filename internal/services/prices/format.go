package prices

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/unifiedui/price-chat/internal/domain/models"
)

// Texts rendered by Format.
const (
	NoResultsText = "❌ No se encontraron resultados para tu búsqueda."
	NoPricesText  = "   ⚠️ No hay precios disponibles para este ítem en el municipio seleccionado.\n"
)

// Format renders a search result as the text block handed back to the model.
// It is pure: the same result always renders to the same text.
func Format(result *models.PriceSearchResult) string {
	items := result.ItemList()
	if !result.IsOK() || len(items) == 0 {
		return NoResultsText
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString("\n🔹 ")
		b.WriteString(item.ProductName)
		b.WriteString(" - ")
		b.WriteString(item.Brand)
		b.WriteString(" (")
		b.WriteString(item.Size)
		b.WriteString(" ")
		b.WriteString(item.Unit)
		b.WriteString(")\n")

		if len(item.StoreOffers) == 0 {
			b.WriteString(NoPricesText)
			continue
		}

		for _, offer := range item.StoreOffers {
			b.WriteString("   🛒 ")
			b.WriteString(offer.StoreName)
			b.WriteString(" ➜ $")
			b.WriteString(FormatPrice(offer.Price))
			b.WriteString(" COP [")
			b.WriteString(offer.Date)
			b.WriteString("]\n")
		}
	}

	return b.String()
}

// FormatPrice truncates a price to whole pesos and groups thousands with
// dots, as es-CO does: 12000.9 renders as "12.000". Magnitudes beyond int64
// are rendered in full.
func FormatPrice(price float64) string {
	whole := math.Trunc(price)
	if whole == 0 {
		// drops the sign of -0
		whole = 0
	}
	return strings.ReplaceAll(humanize.Commaf(whole), ",", ".")
}
