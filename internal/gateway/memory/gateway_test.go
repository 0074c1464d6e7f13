package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/fixtures"
	"github.com/Gunvolt24/orders_sync/internal/gateway/memory"
)

func total(orders []domain.OrderEntity) int {
	sum := 0
	for i := range orders {
		sum += orders[i].Quantity()
	}
	return sum
}

func TestGateway_GetOrders_PreservesOrderAndCopies(t *testing.T) {
	ctx := context.Background()
	gw := memory.New(fixtures.Orders())

	got, err := gw.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, domain.OrderEntityID("order-1"), got[0].ID)
	assert.Equal(t, domain.OrderEntityID("order-5"), got[4].ID)

	// изменение снимка не затрагивает источник
	got[0].ItemEntities[0].Quantity = 0
	again, err := gw.GetOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixtures.TotalQuantity, total(again))
}

func TestGateway_DeleteOrder(t *testing.T) {
	ctx := context.Background()
	gw := memory.New(fixtures.Orders())

	require.NoError(t, gw.DeleteOrder(ctx, "order-1"))

	got, err := gw.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, domain.OrderEntityID("order-2"), got[0].ID)
	assert.Equal(t, fixtures.TotalQuantity-fixtures.OrderQuantity, total(got))

	err = gw.DeleteOrder(ctx, "order-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGateway_DeleteItem(t *testing.T) {
	ctx := context.Background()
	src := fixtures.Orders()
	gw := memory.New(src)

	require.NoError(t, gw.DeleteItem(ctx, "order-2", "order-2-item-1"))

	got, err := gw.GetOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, src[1].ItemEntities[1:], got[1].ItemEntities)
	assert.Equal(t, src[0], got[0])
	assert.Equal(t, src[2:], got[2:])

	assert.ErrorIs(t, gw.DeleteItem(ctx, "order-2", "order-2-item-1"), domain.ErrNotFound)
	assert.ErrorIs(t, gw.DeleteItem(ctx, "order-9", "x"), domain.ErrNotFound)
}

func TestGateway_SetOrders(t *testing.T) {
	ctx := context.Background()
	gw := memory.New(nil)

	got, err := gw.GetOrders(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	seed := fixtures.Orders()[:2]
	gw.SetOrders(seed)
	seed[0].ID = "mutated"

	got, err = gw.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.OrderEntityID("order-1"), got[0].ID)
}

func TestGateway_DelayHonorsContext(t *testing.T) {
	gw := memory.New(fixtures.Orders(), memory.WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := gw.GetOrders(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// отменённый вызов не меняет коллекцию
	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	assert.ErrorIs(t, gw.DeleteOrder(canceled, "order-1"), context.Canceled)

	fast := memory.New(nil)
	fast.SetOrders(fixtures.Orders())
	require.NoError(t, fast.DeleteOrder(context.Background(), "order-1"))
}
