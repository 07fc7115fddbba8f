package cart

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"happy-tails/internal/models"
)

// Store applies cart mutations on top of a Repository. Every mutation loads
// the whole cart, changes it and saves it back. Writers in this process are
// serialized per cart id; writers in other processes are last-writer-wins.
type Store struct {
	repo  Repository
	locks [lockStripes]sync.Mutex
}

// lockStripes bounds the lock table; carts hashing to the same stripe share a mutex
const lockStripes = 64

// NewStore creates a cart store
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) stripe(cartID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cartID))
	return &s.locks[h.Sum32()%lockStripes]
}

func (s *Store) lock(cartID string) func() {
	mu := s.stripe(cartID)
	mu.Lock()
	return mu.Unlock
}

// Items returns the cart lines in display order
func (s *Store) Items(ctx context.Context, cartID string) ([]models.CartItem, error) {
	return s.repo.Load(ctx, cartID)
}

// Add merges the item into the cart. A line with the same product and
// variant has its quantity increased, otherwise the item is appended.
func (s *Store) Add(ctx context.Context, cartID string, item models.CartItem) ([]models.CartItem, error) {
	if item.Quantity < 1 {
		return nil, models.NewValidationError("quantity", "quantity must be at least 1")
	}

	unlock := s.lock(cartID)
	defer unlock()

	items, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if items[i].Key() == item.Key() {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	if err := s.repo.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateQuantity sets the quantity of a line from raw user input. Input that
// is not an integer or is below 1 becomes 1.
func (s *Store) UpdateQuantity(ctx context.Context, cartID string, key models.CartItemKey, raw string) ([]models.CartItem, error) {
	quantity := ParseQuantity(raw)

	unlock := s.lock(cartID)
	defer unlock()

	items, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, key)
	if idx < 0 {
		return nil, &models.NotFoundError{Resource: "cart item", ID: formatKey(key)}
	}
	items[idx].Quantity = quantity

	if err := s.repo.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove deletes the line with the given key
func (s *Store) Remove(ctx context.Context, cartID string, key models.CartItemKey) ([]models.CartItem, error) {
	unlock := s.lock(cartID)
	defer unlock()

	items, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, key)
	if idx < 0 {
		return nil, &models.NotFoundError{Resource: "cart item", ID: formatKey(key)}
	}
	items = append(items[:idx], items[idx+1:]...)

	if err := s.repo.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context, cartID string) error {
	unlock := s.lock(cartID)
	defer unlock()
	return s.repo.Clear(ctx, cartID)
}

// ParseQuantity parses a quantity typed by the user, clamping to at least 1
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func indexOf(items []models.CartItem, key models.CartItemKey) int {
	for i := range items {
		if items[i].Key() == key {
			return i
		}
	}
	return -1
}

func formatKey(key models.CartItemKey) string {
	return fmt.Sprintf("%d/%s", key.ProductID, key.VariantID)
}
