// Package pricing resolves a shopper's size/color selection to a product
// variant and formats the price shown for it.
package pricing

import (
	"fmt"

	"happy-tails/internal/models"
)

// Unselected is the value a selector holds before the shopper picks anything
const Unselected = "default"

// MatchKind tells how a resolved variant relates to the shopper's selection
type MatchKind string

const (
	// MatchExact means the variant matches every selected dimension
	MatchExact MatchKind = "exact"
	// MatchFallback means the selection was not fully honored
	MatchFallback MatchKind = "fallback"
	// MatchNone means there was nothing to resolve against
	MatchNone MatchKind = "none"
)

// Resolution is the outcome of ResolveVariant. A non-nil Variant with
// Kind == MatchFallback is a guess, not a confirmation of the selection.
type Resolution struct {
	Kind    MatchKind       `json:"kind"`
	Variant *models.Variant `json:"variant,omitempty"`
}

// Dimensions reports which option dimensions exist across the variants
func Dimensions(variants []models.Variant) (hasSize, hasColor bool) {
	for _, v := range variants {
		if v.Size != nil {
			hasSize = true
		}
		if v.Color != nil {
			hasColor = true
		}
	}
	return hasSize, hasColor
}

func isSelected(value string) bool {
	return value != "" && value != Unselected
}

// ResolveVariant picks the variant for the given selection. Absent dimensions
// match anything. When no exact match exists it falls back to the first
// variant with the selected size, then to the first declared variant.
func ResolveVariant(variants []models.Variant, size, color string) Resolution {
	if len(variants) == 0 {
		return Resolution{Kind: MatchNone}
	}

	hasSize, hasColor := Dimensions(variants)
	sizeSelected := isSelected(size)
	colorSelected := isSelected(color)

	complete := (!hasSize || sizeSelected) && (!hasColor || colorSelected)
	if complete {
		for i := range variants {
			v := &variants[i]
			if hasSize && v.SizeValue() != size {
				continue
			}
			if hasColor && v.ColorValue() != color {
				continue
			}
			return Resolution{Kind: MatchExact, Variant: v}
		}
	}

	if hasSize && sizeSelected {
		for i := range variants {
			if variants[i].SizeValue() == size {
				return Resolution{Kind: MatchFallback, Variant: &variants[i]}
			}
		}
	}

	return Resolution{Kind: MatchFallback, Variant: &variants[0]}
}

// AvailableColors lists the colors the shopper can pick given the current
// size selection, in first-appearance order
func AvailableColors(variants []models.Variant, size string) []string {
	hasSize, _ := Dimensions(variants)
	if hasSize && !isSelected(size) {
		return []string{}
	}

	seen := make(map[string]bool)
	colors := []string{}
	for _, v := range variants {
		if v.Color == nil {
			continue
		}
		if hasSize && v.SizeValue() != size {
			continue
		}
		if !seen[*v.Color] {
			seen[*v.Color] = true
			colors = append(colors, *v.Color)
		}
	}
	return colors
}

// AvailableSizes lists the distinct sizes in first-appearance order
func AvailableSizes(variants []models.Variant) []string {
	seen := make(map[string]bool)
	sizes := []string{}
	for _, v := range variants {
		if v.Size == nil || seen[*v.Size] {
			continue
		}
		seen[*v.Size] = true
		sizes = append(sizes, *v.Size)
	}
	return sizes
}

// ValidateSelection checks that the selection can be added to the cart and
// returns the variant to add
func ValidateSelection(variants []models.Variant, size, color string, quantity int) (*models.Variant, error) {
	if len(variants) == 0 {
		return nil, models.ErrVariantNotFound
	}

	hasSize, hasColor := Dimensions(variants)
	if hasSize && !isSelected(size) {
		return nil, models.NewValidationError("size", "select size")
	}
	if hasColor && !isSelected(color) {
		return nil, models.NewValidationError("color", "select color")
	}

	if quantity < 1 {
		return nil, models.NewValidationError("quantity", "quantity must be at least 1")
	}

	res := ResolveVariant(variants, size, color)
	if res.Kind != MatchExact {
		return nil, models.NewValidationError("variant", fmt.Sprintf("%s / %s is not available", size, color))
	}

	if quantity > res.Variant.StockQuantity {
		return nil, models.NewValidationError("quantity", "insufficient stock")
	}

	return res.Variant, nil
}
