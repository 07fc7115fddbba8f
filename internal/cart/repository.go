// Package cart keeps a visitor's shopping cart: an ordered list of line
// items keyed by (product_id, variant_id) that is read and written whole.
package cart

import (
	"context"
	"sync"

	"happy-tails/internal/models"
)

// Repository persists whole carts. Save always replaces the stored value.
type Repository interface {
	Load(ctx context.Context, cartID string) ([]models.CartItem, error)
	Save(ctx context.Context, cartID string, items []models.CartItem) error
	Clear(ctx context.Context, cartID string) error
}

// MemoryRepository keeps carts in process memory
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]models.CartItem
}

// NewMemoryRepository creates an empty in-memory cart repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]models.CartItem)}
}

// Load returns a copy of the stored cart. A missing cart is empty.
func (r *MemoryRepository) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneItems(r.carts[cartID]), nil
}

// Save replaces the stored cart
func (r *MemoryRepository) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cartID] = cloneItems(items)
	return nil
}

// Clear removes the cart
func (r *MemoryRepository) Clear(ctx context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, cartID)
	return nil
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
