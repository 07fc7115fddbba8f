package cart

import (
	"happy-tails/internal/models"
	"happy-tails/internal/pricing"
)

// DefaultSurchargeRate is the fixed charge added on top of the subtotal
const DefaultSurchargeRate = 0.04

// ComputeTotals returns subtotal, charge and total for the cart lines.
// charge is round(subtotal * rate) and total is subtotal + charge.
func ComputeTotals(items []models.CartItem, rate float64) models.CartTotals {
	var totals models.CartTotals
	for _, item := range items {
		totals.Subtotal += item.LineTotal()
		totals.ItemCount += item.Quantity
	}
	totals.Charge = pricing.Surcharge(totals.Subtotal, rate)
	totals.Total = totals.Subtotal + totals.Charge
	return totals
}
