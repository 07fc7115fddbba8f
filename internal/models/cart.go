package models

// CartItem is a snapshot of a chosen product variant taken when it was added
// to the cart. Price is copied, not linked to the live variant.
type CartItem struct {
	ProductID int     `json:"product_id"`
	VariantID string  `json:"variant_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// CartItemKey identifies a cart line independently of its position
type CartItemKey struct {
	ProductID int    `json:"product_id"`
	VariantID string `json:"variant_id"`
}

// Key returns the merge key of the item
func (i CartItem) Key() CartItemKey {
	return CartItemKey{ProductID: i.ProductID, VariantID: i.VariantID}
}

// LineTotal returns price times quantity
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotals holds the computed money values of a cart
type CartTotals struct {
	Subtotal  float64 `json:"subtotal"`
	Charge    float64 `json:"charge"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// CartView is the API representation of a cart
type CartView struct {
	Items  []CartItem `json:"items"`
	Totals CartTotals `json:"totals"`
}
