package services

import (
	"context"

	"happy-tails/internal/models"
	"happy-tails/internal/pricing"
)

// CatalogService serves product pages
type CatalogService struct {
	products       ProductRepository
	currencySymbol string
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductRepository, currencySymbol string) *CatalogService {
	return &CatalogService{products: products, currencySymbol: currencySymbol}
}

// OptionsView is what the product page renders for the current selection
type OptionsView struct {
	ProductID int                   `json:"product_id"`
	HasSize   bool                  `json:"has_size"`
	HasColor  bool                  `json:"has_color"`
	Sizes     []string              `json:"sizes"`
	Colors    []string              `json:"colors"`
	Match     pricing.Resolution    `json:"match"`
	Price     *pricing.PriceDisplay `json:"price,omitempty"`
	InStock   bool                  `json:"in_stock"`
	// Confirmed is true only for an exact match; a fallback variant is a preview
	Confirmed bool `json:"confirmed"`
}

// Product returns a product with its variants
func (s *CatalogService) Product(ctx context.Context, id int) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Options resolves the selection against the product's variants
func (s *CatalogService) Options(ctx context.Context, id int, size, color string) (*OptionsView, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildOptions(product, size, color, s.currencySymbol), nil
}

// BuildOptions computes the option view for a product and selection
func BuildOptions(product *models.Product, size, color, symbol string) *OptionsView {
	hasSize, hasColor := pricing.Dimensions(product.Variants)
	match := pricing.ResolveVariant(product.Variants, size, color)

	view := &OptionsView{
		ProductID: product.ID,
		HasSize:   hasSize,
		HasColor:  hasColor,
		Sizes:     pricing.AvailableSizes(product.Variants),
		Colors:    pricing.AvailableColors(product.Variants, size),
		Match:     match,
		Confirmed: match.Kind == pricing.MatchExact,
	}
	if match.Variant != nil {
		price := pricing.DisplayPrice(*match.Variant, symbol)
		view.Price = &price
		view.InStock = match.Variant.StockQuantity > 0
	}
	return view
}
