package catalog

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var rupiah = message.NewPrinter(language.Indonesian)

// FormatPrice renders a price in Indonesian Rupiah, e.g. "Rp 10.000".
func FormatPrice(v float64) string {
	return rupiah.Sprintf("Rp %v", number.Decimal(math.Round(v), number.MaxFractionDigits(0)))
}

// DiscountPercent returns the rounded discount against the original price,
// or 0 when there is none.
func DiscountPercent(it Item) int {
	if it.OriginalPrice == nil || *it.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((1 - it.Price / *it.OriginalPrice) * 100))
}
