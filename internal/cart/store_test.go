package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"happy-tails/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collarItem(variantID string, quantity int) models.CartItem {
	return models.CartItem{
		ProductID: 7,
		VariantID: variantID,
		Name:      "Reflective Collar",
		Price:     499,
		Size:      "M",
		Color:     "Red",
		Quantity:  quantity,
	}
}

// failingRepository fails the operations listed in shouldFail
type failingRepository struct {
	*MemoryRepository
	shouldFail map[string]bool
}

func (r *failingRepository) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	if r.shouldFail["Load"] {
		return nil, errors.New("load failed")
	}
	return r.MemoryRepository.Load(ctx, cartID)
}

func (r *failingRepository) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	if r.shouldFail["Save"] {
		return errors.New("save failed")
	}
	return r.MemoryRepository.Save(ctx, cartID, items)
}

func TestStore_AddMergesSameVariant(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryRepository())

	items, err := store.Add(ctx, "c1", collarItem("m-red", 2))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 998.0, items[0].LineTotal())

	items, err = store.Add(ctx, "c1", collarItem("m-red", 3))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestStore_AddAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryRepository())

	_, err := store.Add(ctx, "c1", collarItem("m-red", 1))
	require.NoError(t, err)
	_, err = store.Add(ctx, "c1", collarItem("l-blue", 1))
	require.NoError(t, err)

	other := collarItem("m-red", 1)
	other.ProductID = 8
	items, err := store.Add(ctx, "c1", other)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, models.CartItemKey{ProductID: 7, VariantID: "m-red"}, items[0].Key())
	assert.Equal(t, models.CartItemKey{ProductID: 7, VariantID: "l-blue"}, items[1].Key())
	assert.Equal(t, models.CartItemKey{ProductID: 8, VariantID: "m-red"}, items[2].Key())
}

func TestStore_AddRejectsNonPositiveQuantity(t *testing.T) {
	store := NewStore(NewMemoryRepository())
	_, err := store.Add(context.Background(), "c1", collarItem("m-red", 0))
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestStore_CartsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryRepository())

	_, err := store.Add(ctx, "c1", collarItem("m-red", 1))
	require.NoError(t, err)

	items, err := store.Items(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_UpdateQuantity(t *testing.T) {
	key := models.CartItemKey{ProductID: 7, VariantID: "m-red"}

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "valid number", raw: "4", want: 4},
		{name: "surrounding spaces", raw: " 6 ", want: 6},
		{name: "zero clamps to one", raw: "0", want: 1},
		{name: "negative clamps to one", raw: "-3", want: 1},
		{name: "not a number clamps to one", raw: "abc", want: 1},
		{name: "empty clamps to one", raw: "", want: 1},
		{name: "decimal clamps to one", raw: "2.5", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewStore(NewMemoryRepository())
			_, err := store.Add(ctx, "c1", collarItem("m-red", 2))
			require.NoError(t, err)

			items, err := store.UpdateQuantity(ctx, "c1", key, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, items[0].Quantity)
		})
	}
}

func TestStore_UpdateQuantityUnknownKey(t *testing.T) {
	store := NewStore(NewMemoryRepository())
	_, err := store.UpdateQuantity(context.Background(), "c1", models.CartItemKey{ProductID: 1, VariantID: "x"}, "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestStore_RemoveByKeyIsStable(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryRepository())
	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := store.Add(ctx, "c1", collarItem(id, 1))
		require.NoError(t, err)
	}

	_, err := store.Remove(ctx, "c1", models.CartItemKey{ProductID: 7, VariantID: "a"})
	require.NoError(t, err)
	// the key still addresses the same line after the first removal shifted positions
	items, err := store.Remove(ctx, "c1", models.CartItemKey{ProductID: 7, VariantID: "c"})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].VariantID)
	assert.Equal(t, "d", items[1].VariantID)

	_, err = store.Remove(ctx, "c1", models.CartItemKey{ProductID: 7, VariantID: "c"})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryRepository())
	_, err := store.Add(ctx, "c1", collarItem("m-red", 1))
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "c1"))

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_RepositoryErrors(t *testing.T) {
	ctx := context.Background()

	repo := &failingRepository{MemoryRepository: NewMemoryRepository(), shouldFail: map[string]bool{"Save": true}}
	store := NewStore(repo)
	_, err := store.Add(ctx, "c1", collarItem("m-red", 1))
	assert.EqualError(t, err, "save failed")

	repo.shouldFail = map[string]bool{"Load": true}
	_, err = store.Add(ctx, "c1", collarItem("m-red", 1))
	assert.EqualError(t, err, "load failed")
}

func TestStore_ConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryRepository())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Add(ctx, "c1", collarItem("m-red", 1))
		}()
	}
	wg.Wait()

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
}

func TestStore_LockTableIsBounded(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryRepository())

	seen := map[*sync.Mutex]bool{}
	for i := 0; i < 10000; i++ {
		id := fmt.Sprintf("cart-%d", i)
		mu := store.stripe(id)
		assert.Same(t, mu, store.stripe(id))
		seen[mu] = true
	}
	assert.LessOrEqual(t, len(seen), lockStripes)

	// carts sharing a stripe still make progress and stay isolated
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("cart-%d", i%100)
			_, _ = store.Add(ctx, id, collarItem("m-red", 1))
			if i%2 == 0 {
				_ = store.Clear(ctx, fmt.Sprintf("other-%d", i))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		items, err := store.Items(ctx, fmt.Sprintf("cart-%d", i))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name  string
		items []models.CartItem
		want  models.CartTotals
	}{
		{
			name: "empty cart",
			want: models.CartTotals{},
		},
		{
			name:  "subtotal 1000",
			items: []models.CartItem{{Price: 250, Quantity: 4}},
			want:  models.CartTotals{Subtotal: 1000, Charge: 40, Total: 1040, ItemCount: 4},
		},
		{
			name:  "several lines",
			items: []models.CartItem{{Price: 499, Quantity: 3}, {Price: 120.5, Quantity: 2}},
			want:  models.CartTotals{Subtotal: 1738, Charge: 70, Total: 1808, ItemCount: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, DefaultSurchargeRate)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Subtotal+got.Charge, got.Total)
		})
	}
}
