package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/primepost/internal/client/models"
	"github.com/dmitrijs2005/primepost/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSetStore struct {
	*storage.MemoryStore
	fail bool
}

func (f *failingSetStore) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.Join(storage.ErrStorage, errors.New("quota exceeded"))
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *failingSetStore) Delete(ctx context.Context, key string) error {
	if f.fail {
		return errors.Join(storage.ErrStorage, errors.New("quota exceeded"))
	}
	return f.MemoryStore.Delete(ctx, key)
}

func product(store, id string, price, stock, discount int64) models.Product {
	return models.Product{ID: id, StoreID: store, Name: id, Price: price, StockQty: stock, Discount: discount}
}

func newCart(t *testing.T) (*Store, *failingSetStore) {
	t.Helper()
	backing := &failingSetStore{MemoryStore: storage.NewMemoryStore()}
	c, err := Load(context.Background(), backing)
	require.NoError(t, err)
	return c, backing
}

func TestAddItem_MergesQuantity(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()
	p := product("s1", "p1", 1000, 10, 0)

	require.NoError(t, c.AddItem(ctx, "s1", p, 1))
	require.NoError(t, c.AddItem(ctx, "s1", p, 2))

	lines := c.StoreCart("s1")
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
}

func TestAddItem_Validation(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.ErrorIs(t, c.AddItem(ctx, "s1", product("s1", "p", 100, 5, 0), 0), ErrInvalidQuantity)
	require.ErrorIs(t, c.AddItem(ctx, "s1", product("s2", "p", 100, 5, 0), 1), ErrWrongStore)
	require.ErrorIs(t, c.AddItem(ctx, "s1", product("s1", "p", 100, 0, 0), 1), ErrOutOfStock)

	oos := product("s1", "p", 100, 5, 0)
	oos.OutOfStock = true
	require.ErrorIs(t, c.AddItem(ctx, "s1", oos, 1), ErrOutOfStock)

	require.ErrorIs(t, c.AddItem(ctx, "s1", product("s1", "p", 100, 2, 0), 3), ErrExceedsStock)

	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "p", 100, 2, 0), 2))
	require.ErrorIs(t, c.AddItem(ctx, "s1", product("s1", "p", 100, 2, 0), 1), ErrExceedsStock)
	assert.Equal(t, int64(2), c.StoreCart("s1")[0].Quantity)
}

func TestCart_PartitionAndTotals(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, "storeA", product("storeA", "burger", 1999, 10, 15), 2))
	before := c.StoreCart("storeA")
	totalBefore := c.StoreTotal("storeA")

	require.NoError(t, c.AddItem(ctx, "storeB", product("storeB", "soda", 250, 10, 0), 4))

	assert.Equal(t, before, c.StoreCart("storeA"))
	assert.Equal(t, totalBefore, c.StoreTotal("storeA"))

	// 1999 - 1999*15/100 = 1999 - 299 = 1700 per unit.
	assert.Equal(t, int64(3400), c.StoreTotal("storeA"))
	assert.Equal(t, int64(1000), c.StoreTotal("storeB"))
	assert.Equal(t, []string{"storeA", "storeB"}, c.StoreIDs())
	assert.Equal(t, int64(0), c.StoreTotal("storeC"))
	assert.Empty(t, c.StoreCart("storeC"))
}

func TestRemoveAndUpdate(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "a", 100, 5, 0), 1))
	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "b", 200, 5, 0), 1))

	require.NoError(t, c.UpdateQuantity(ctx, "s1", "b", 4))
	require.ErrorIs(t, c.UpdateQuantity(ctx, "s1", "b", 6), ErrExceedsStock)
	require.ErrorIs(t, c.UpdateQuantity(ctx, "s1", "b", 0), ErrInvalidQuantity)
	require.ErrorIs(t, c.UpdateQuantity(ctx, "s1", "zzz", 1), ErrItemNotFound)
	assert.Equal(t, int64(900), c.StoreTotal("s1"))

	require.NoError(t, c.RemoveItem(ctx, "s1", "a"))
	require.ErrorIs(t, c.RemoveItem(ctx, "s1", "a"), ErrItemNotFound)
	require.NoError(t, c.RemoveItem(ctx, "s1", "b"))
	assert.Empty(t, c.StoreIDs())
}

func TestOrderItems(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "a", 100, 5, 0), 2))
	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "b", 200, 5, 0), 1))

	assert.Equal(t, []models.OrderItem{{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 1}}, c.OrderItems("s1"))
}

func TestCart_PersistsAcrossLoads(t *testing.T) {
	c, backing := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "a", 100, 5, 10), 3))

	reloaded, err := Load(ctx, backing)
	require.NoError(t, err)
	assert.Equal(t, c.StoreCart("s1"), reloaded.StoreCart("s1"))
	assert.Equal(t, int64(270), reloaded.StoreTotal("s1"))
}

func TestLoad_CorruptDocumentStartsEmpty(t *testing.T) {
	backing := storage.NewMemoryStore()
	require.NoError(t, backing.Set(context.Background(), Key, []byte("{not json")))

	c, err := Load(context.Background(), backing)
	require.NoError(t, err)
	assert.Empty(t, c.StoreIDs())
}

func TestLoad_WebClientEnvelope(t *testing.T) {
	backing := storage.NewMemoryStore()
	doc := `{"state":{"items":{"s9":[{"product":{"id":"x","storeId":"s9","name":"Tea","price":300,"stockQty":4,"outOfStock":false},"quantity":2}]}},"version":0}`
	require.NoError(t, backing.Set(context.Background(), Key, []byte(doc)))

	c, err := Load(context.Background(), backing)
	require.NoError(t, err)
	assert.Equal(t, int64(600), c.StoreTotal("s9"))
}

func TestMutation_PersistFailureKeepsMemory(t *testing.T) {
	c, backing := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "a", 100, 5, 0), 1))

	backing.fail = true
	err := c.AddItem(ctx, "s1", product("s1", "a", 100, 5, 0), 1)
	require.ErrorIs(t, err, storage.ErrStorage)
	assert.Equal(t, int64(1), c.StoreCart("s1")[0].Quantity)

	require.ErrorIs(t, c.ClearCart(ctx, "s1"), storage.ErrStorage)
	assert.Len(t, c.StoreCart("s1"), 1)
}

func TestClearCart_OnlyThatStore(t *testing.T) {
	c, _ := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "a", 100, 5, 0), 1))
	require.NoError(t, c.AddItem(ctx, "s2", product("s2", "b", 100, 5, 0), 1))

	require.NoError(t, c.ClearCart(ctx, "s1"))
	require.NoError(t, c.ClearCart(ctx, "missing"))
	assert.Equal(t, []string{"s2"}, c.StoreIDs())
}

func TestClearAll_ClearsMemoryEvenWhenDeleteFails(t *testing.T) {
	c, backing := newCart(t)
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, "s1", product("s1", "a", 100, 5, 0), 1))
	backing.fail = true

	require.ErrorIs(t, c.ClearAll(ctx), storage.ErrStorage)
	assert.Empty(t, c.StoreIDs())
}

func TestMoney(t *testing.T) {
	assert.Equal(t, int64(1000), EffectivePrice(1000, 0))
	assert.Equal(t, int64(900), EffectivePrice(1000, 10))
	// 999*33/100 = 329 (floor), 999-329 = 670
	assert.Equal(t, int64(670), EffectivePrice(999, 33))
	assert.Equal(t, int64(0), EffectivePrice(1000, 100))

	assert.Equal(t, int64(1340), LineTotal(models.CartItem{Product: product("s", "p", 999, 9, 33), Quantity: 2}))

	assert.Equal(t, "$12.34", FormatPrice(1234))
	assert.Equal(t, "$0.05", FormatPrice(5))
	assert.Equal(t, "$0.00", FormatPrice(0))
}
