package services

import (
	"context"

	"happy-tails/internal/cart"
	"happy-tails/internal/models"
	"happy-tails/internal/pricing"
)

// CartService adds validated product selections to a visitor's cart
type CartService struct {
	products      ProductRepository
	store         *cart.Store
	surchargeRate float64
	// revalidate checks merged quantities against stock, not just the added amount
	revalidate bool
}

// CartConfig configures the cart service
type CartConfig struct {
	SurchargeRate          float64
	RevalidateStockOnMerge bool
}

// NewCartService creates a new cart service
func NewCartService(products ProductRepository, store *cart.Store, cfg CartConfig) *CartService {
	if cfg.SurchargeRate <= 0 {
		cfg.SurchargeRate = cart.DefaultSurchargeRate
	}
	return &CartService{
		products:      products,
		store:         store,
		surchargeRate: cfg.SurchargeRate,
		revalidate:    cfg.RevalidateStockOnMerge,
	}
}

// AddToCartRequest is the body of POST /api/cart/items
type AddToCartRequest struct {
	ProductID int    `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// Add validates the selection and stores a snapshot of the variant
func (s *CartService) Add(ctx context.Context, cartID string, req AddToCartRequest) (*models.CartView, error) {
	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	variant, err := pricing.ValidateSelection(product.Variants, req.Size, req.Color, req.Quantity)
	if err != nil {
		return nil, err
	}

	if s.revalidate {
		items, err := s.store.Items(ctx, cartID)
		if err != nil {
			return nil, err
		}
		key := models.CartItemKey{ProductID: product.ID, VariantID: variant.VariantID}
		for _, item := range items {
			if item.Key() == key && item.Quantity+req.Quantity > variant.StockQuantity {
				return nil, models.NewValidationError("quantity", "insufficient stock")
			}
		}
	}

	items, err := s.store.Add(ctx, cartID, models.CartItem{
		ProductID: product.ID,
		VariantID: variant.VariantID,
		Name:      product.Name,
		Price:     variant.EffectivePrice(),
		Size:      variant.SizeValue(),
		Color:     variant.ColorValue(),
		Quantity:  req.Quantity,
		ImageURL:  product.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	return s.view(items), nil
}

// UpdateQuantity sets a line's quantity from raw input, clamping to at least 1
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, key models.CartItemKey, raw string) (*models.CartView, error) {
	items, err := s.store.UpdateQuantity(ctx, cartID, key, raw)
	if err != nil {
		return nil, err
	}
	return s.view(items), nil
}

// Remove deletes a line by key
func (s *CartService) Remove(ctx context.Context, cartID string, key models.CartItemKey) (*models.CartView, error) {
	items, err := s.store.Remove(ctx, cartID, key)
	if err != nil {
		return nil, err
	}
	return s.view(items), nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, cartID string) (*models.CartView, error) {
	if err := s.store.Clear(ctx, cartID); err != nil {
		return nil, err
	}
	return s.view(nil), nil
}

// View returns the cart with its totals
func (s *CartService) View(ctx context.Context, cartID string) (*models.CartView, error) {
	items, err := s.store.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.view(items), nil
}

func (s *CartService) view(items []models.CartItem) *models.CartView {
	if items == nil {
		items = []models.CartItem{}
	}
	return &models.CartView{Items: items, Totals: cart.ComputeTotals(items, s.surchargeRate)}
}
