package pricing

import (
	"fmt"
	"math"

	"happy-tails/internal/models"
)

// PriceDisplay is what a product page shows for a variant
type PriceDisplay struct {
	Current  string `json:"current"`
	Original string `json:"original,omitempty"` // struck through when on sale
	OnSale   bool   `json:"on_sale"`
}

// FormatMoney renders an amount with two decimals and a currency prefix
func FormatMoney(symbol string, amount float64) string {
	return fmt.Sprintf("%s%.2f", symbol, amount)
}

// DisplayPrice returns the sale and regular price pair for a variant
func DisplayPrice(v models.Variant, symbol string) PriceDisplay {
	if v.SalePrice != nil {
		return PriceDisplay{
			Current:  FormatMoney(symbol, *v.SalePrice),
			Original: FormatMoney(symbol, v.RegularPrice),
			OnSale:   true,
		}
	}
	return PriceDisplay{Current: FormatMoney(symbol, v.RegularPrice)}
}

// RoundAmount rounds to the nearest whole currency unit. Halves round up.
func RoundAmount(amount float64) float64 {
	return math.Floor(amount + 0.5)
}

// Surcharge returns round(amount * rate)
func Surcharge(amount, rate float64) float64 {
	return RoundAmount(amount * rate)
}
