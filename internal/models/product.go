package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Product represents a pet product listed by a vendor
type Product struct {
	ID          int       `json:"id" db:"id"`
	VendorID    int       `json:"vendor_id" db:"vendor_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Brand       string    `json:"brand" db:"brand"`
	SKUPrefix   string    `json:"sku_prefix" db:"sku_prefix"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Variants    []Variant `json:"variants"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Variant is one purchasable (size, color) combination of a product.
// Size and Color are nil when the product has no such dimension.
type Variant struct {
	VariantID     string   `json:"variant_id" db:"variant_id"`
	Size          *string  `json:"size" db:"size"`
	Color         *string  `json:"color" db:"color"`
	RegularPrice  float64  `json:"regular_price" db:"regular_price"`
	SalePrice     *float64 `json:"sale_price" db:"sale_price"`
	StockQuantity int      `json:"stock_quantity" db:"stock_quantity"`
}

// ProductUpdateRequest is the admin PUT payload for a product.
// Nil fields are left untouched.
type ProductUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// EffectivePrice returns the price a buyer pays for the variant
func (v Variant) EffectivePrice() float64 {
	if v.SalePrice != nil {
		return *v.SalePrice
	}
	return v.RegularPrice
}

// OnSale reports whether the variant carries a sale price
func (v Variant) OnSale() bool {
	return v.SalePrice != nil
}

// SizeValue returns the size or an empty string when the dimension is absent
func (v Variant) SizeValue() string {
	if v.Size == nil {
		return ""
	}
	return *v.Size
}

// ColorValue returns the color or an empty string when the dimension is absent
func (v Variant) ColorValue() string {
	if v.Color == nil {
		return ""
	}
	return *v.Color
}

// Validate validates the variant data
func (v Variant) Validate() error {
	if strings.TrimSpace(v.VariantID) == "" {
		return errors.New("variant id is required")
	}

	if v.RegularPrice < 0 {
		return errors.New("regular price cannot be negative")
	}

	if v.SalePrice != nil {
		if *v.SalePrice < 0 {
			return errors.New("sale price cannot be negative")
		}
		if *v.SalePrice > v.RegularPrice {
			return errors.New("sale price cannot exceed regular price")
		}
	}

	if v.StockQuantity < 0 {
		return errors.New("stock quantity cannot be negative")
	}

	return nil
}

// Validate validates the product and its variant list
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}

	if len(p.Name) > 255 {
		return errors.New("product name must be less than 255 characters")
	}

	if len(p.Variants) == 0 {
		return errors.New("product must have at least one variant")
	}

	ids := make(map[string]bool, len(p.Variants))
	keys := make(map[string]bool, len(p.Variants))
	for _, v := range p.Variants {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("variant %q: %w", v.VariantID, err)
		}
		if ids[v.VariantID] {
			return fmt.Errorf("duplicate variant id %q", v.VariantID)
		}
		ids[v.VariantID] = true

		key := v.SizeValue() + "\x00" + v.ColorValue()
		if keys[key] {
			return fmt.Errorf("duplicate size/color combination for variant %q", v.VariantID)
		}
		keys[key] = true
	}

	return nil
}

// FindVariant returns the variant with the given id
func (p *Product) FindVariant(variantID string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// TotalStock sums stock across all variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.StockQuantity
	}
	return total
}

// StringPtr is a helper for optional string fields
func StringPtr(s string) *string {
	return &s
}

// FloatPtr is a helper for optional price fields
func FloatPtr(f float64) *float64 {
	return &f
}
