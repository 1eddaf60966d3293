package cart

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/storefront/internal/kvstore"
	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id, price int) model.Product {
	return model.Product{
		ID:         id,
		Name:       "Wireless Earbuds",
		Price:      price,
		ImageURL:   "/img/earbuds.jpg",
		CategoryID: "electronics",
	}
}

// failingStore rejects every operation, simulating an unavailable
// persisted store.
type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("store down") }
func (failingStore) Set(string, string) error         { return errors.New("store down") }
func (failingStore) Delete(string) error              { return errors.New("store down") }

// ============================================
// Add Tests
// ============================================

func TestContainer_Add_NewLine(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)

	err := c.Add(testProduct(1, 1000), 2)

	require.NoError(t, err)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestContainer_Add_MergesQuantities(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)
	p := testProduct(1, 1000)

	require.NoError(t, c.Add(p, 2))
	require.NoError(t, c.Add(p, 3))

	items := c.Items()
	require.Len(t, items, 1, "same product must merge into one line")
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, c.Count())
}

func TestContainer_Add_KeepsInsertionOrder(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)

	require.NoError(t, c.Add(testProduct(1, 1000), 1))
	require.NoError(t, c.Add(testProduct(2, 500), 1))
	require.NoError(t, c.Add(testProduct(1, 1000), 1))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Product.ID)
	assert.Equal(t, 2, items[1].Product.ID)
}

func TestContainer_Add_RejectsInvalidQuantity(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)

	tests := []struct {
		name     string
		quantity int
	}{
		{"zero", 0},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Add(testProduct(1, 1000), tt.quantity)
			assert.ErrorIs(t, err, ErrInvalidQuantity)
			assert.Empty(t, c.Items())
		})
	}
}

// ============================================
// UpdateQuantity / Remove Tests
// ============================================

func TestContainer_UpdateQuantity(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)
	require.NoError(t, c.Add(testProduct(1, 1000), 2))

	require.NoError(t, c.UpdateQuantity(1, 7))

	assert.Equal(t, 7, c.Items()[0].Quantity)
}

func TestContainer_UpdateQuantity_RejectsBelowOne(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)
	require.NoError(t, c.Add(testProduct(1, 1000), 2))

	err := c.UpdateQuantity(1, 0)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 2, c.Items()[0].Quantity, "rejected update must not change the line")
}

func TestContainer_UpdateQuantity_AbsentProductIsNoOp(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)

	err := c.UpdateQuantity(42, 3)

	require.NoError(t, err)
	assert.Empty(t, c.Items())
}

func TestContainer_Remove(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)
	require.NoError(t, c.Add(testProduct(1, 1000), 1))
	require.NoError(t, c.Add(testProduct(2, 500), 1))

	c.Remove(1)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Product.ID)
}

func TestContainer_Remove_AbsentProductIsNoOp(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)
	require.NoError(t, c.Add(testProduct(1, 1000), 1))

	c.Remove(99)

	assert.Len(t, c.Items(), 1)
}

// ============================================
// Totals
// ============================================

func TestContainer_CountAndTotal(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)
	require.NoError(t, c.Add(testProduct(1, 1000), 2))
	require.NoError(t, c.Add(testProduct(2, 250), 4))

	assert.Equal(t, 6, c.Count())
	assert.Equal(t, 3000, c.Total())
}

func TestContainer_Clear(t *testing.T) {
	c := NewContainer(kvstore.NewMemory(), nil)
	require.NoError(t, c.Add(testProduct(1, 1000), 2))

	c.Clear()

	assert.Empty(t, c.Items())
	assert.Equal(t, 0, c.Count())
}

// ============================================
// Persistence Tests
// ============================================

func TestContainer_RoundTrip(t *testing.T) {
	store := kvstore.NewMemory()

	first := NewContainer(store, nil)
	require.NoError(t, first.Add(testProduct(1, 1000), 2))
	require.NoError(t, first.Add(testProduct(2, 500), 1))

	// A fresh container over the same store sees the same cart.
	second := NewContainer(store, nil)
	items := second.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Product.ID)
}

func TestContainer_PersistedSnapshotIsJSON(t *testing.T) {
	store := kvstore.NewMemory()
	c := NewContainer(store, nil)
	require.NoError(t, c.Add(testProduct(1, 1000), 2))

	raw, found, err := store.Get(kvstore.KeyCart)
	require.NoError(t, err)
	require.True(t, found)

	var items []model.CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestContainer_StoreFailureKeepsInMemoryState(t *testing.T) {
	c := NewContainer(failingStore{}, nil)

	err := c.Add(testProduct(1, 1000), 2)

	require.NoError(t, err, "a failing store must not break the session")
	assert.Equal(t, 2, c.Count())
}

// ============================================
// Cross-Session Propagation Tests
// ============================================

func TestContainer_ChangePropagatesBetweenSessions(t *testing.T) {
	store := kvstore.NewMemory()
	notifier := notify.NewMemory()

	a := NewContainer(store, notifier)
	defer a.Close()
	b := NewContainer(store, notifier)
	defer b.Close()

	require.NoError(t, a.Add(testProduct(1, 1000), 2))

	require.Eventually(t, func() bool {
		return b.Count() == 2
	}, time.Second, 5*time.Millisecond, "session B should converge on session A's cart")
}

func TestContainer_DropsStaleChangeFromSamePublisher(t *testing.T) {
	store := kvstore.NewMemory()
	notifier := notify.NewMemory()

	c := NewContainer(store, notifier)
	defer c.Close()

	newer, err := json.Marshal([]model.CartItem{
		{Product: testProduct(1, 1000), Quantity: 1},
		{Product: testProduct(2, 500), Quantity: 1},
	})
	require.NoError(t, err)
	older, err := json.Marshal([]model.CartItem{
		{Product: testProduct(1, 1000), Quantity: 1},
	})
	require.NoError(t, err)

	// Rev 1 delivered after rev 2 is behind a state already applied and
	// must not roll the cart back.
	require.NoError(t, notifier.Publish(notify.Change{Key: kvstore.KeyCart, Value: string(newer), Rev: 2, Origin: "other-session"}))
	require.NoError(t, notifier.Publish(notify.Change{Key: kvstore.KeyCart, Value: string(older), Rev: 1, Origin: "other-session"}))

	require.Eventually(t, func() bool {
		return c.Count() == 2
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, c.Count(), "the stale rev-1 delivery must be dropped")
}

func TestContainer_DoesNotReactToOwnChanges(t *testing.T) {
	store := kvstore.NewMemory()
	notifier := notify.NewMemory()

	c := NewContainer(store, notifier)
	defer c.Close()

	require.NoError(t, c.Add(testProduct(1, 1000), 1))
	require.NoError(t, c.Add(testProduct(1, 1000), 1))

	// Give the dispatcher a moment; the count must remain the direct
	// result of the two adds, not be doubled by self-notification.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, c.Count())
}
