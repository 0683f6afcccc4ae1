package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *OrderStore {
	t.Helper()
	store, err := NewOrderStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testItems() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "pho-bo", Name: "Phở Bò", Category: "Món nước", Price: 45000, Available: true},
		{ID: "bun-cha", Name: "Bún Chả", Category: "Món nước", Price: 40000, Available: true},
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateOrder(context.Background(), "s1", testItems(), 85000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	order, err := store.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "s1", order.SessionID)
	assert.Equal(t, int64(85000), order.Total)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Phở Bò", order.Items[0].Name)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestGetOrderNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetOrder(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelOrderConditional(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateOrder(context.Background(), "s1", testItems(), 85000)
	require.NoError(t, err)

	changed, err := store.CancelOrder(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, changed)

	order, err := store.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)

	// A second cancel matches no pending row.
	changed, err = store.CancelOrder(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = store.CancelOrder(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestListOrdersForSessionNewestFirst(t *testing.T) {
	store := newTestStore(t)

	first, err := store.CreateOrder(context.Background(), "s1", testItems(), 85000)
	require.NoError(t, err)
	second, err := store.CreateOrder(context.Background(), "s1", testItems(), 85000)
	require.NoError(t, err)
	_, err = store.CreateOrder(context.Background(), "s2", testItems(), 85000)
	require.NoError(t, err)

	orders, err := store.ListOrdersForSession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second, orders[0].ID)
	assert.Equal(t, first, orders[1].ID)
}

func TestOrdersSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewOrderStore(dir)
	require.NoError(t, err)
	id, err := store.CreateOrder(context.Background(), "s1", testItems(), 85000)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewOrderStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	order, err := reopened.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(85000), order.Total)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}
