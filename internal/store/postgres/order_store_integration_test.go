//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/fixtures"
	pgstore "github.com/Gunvolt24/orders_sync/internal/store/postgres"
	"github.com/Gunvolt24/orders_sync/internal/testutil"
)

// newStore — свежий Postgres с миграциями и отдельный пул для прямых проверок SQL.
func newStore(t *testing.T) (*pgstore.OrderStore, *pgxpool.Pool) {
	t.Helper()

	store, pg := testutil.OrderStoreTC(t)
	pool, err := pg.NewPool(context.Background())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return store, pool
}

func TestStore_SaveAndList_TC(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	empty, err := store.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	seed := fixtures.Orders()
	for i := range seed {
		require.NoError(t, store.Save(ctx, &seed[i]))
	}

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, fixtures.Orders(), got, "порядок заказов и позиций сохраняется")
}

func TestStore_Save_UpsertKeepsPositionAndReplacesItems_TC(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first := testutil.MakeOrder(testutil.WithItems(3))
	second := testutil.MakeOrder()
	require.NoError(t, store.Save(ctx, &first))
	require.NoError(t, store.Save(ctx, &second))

	// повторный Save: новый владелец и одна позиция
	first.UserID = "user-updated"
	first.ItemEntities = []domain.ItemEntity{{ID: "only", ProductID: "p-777", Quantity: 7}}
	require.NoError(t, store.Save(ctx, &first))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, first.ID, got[0].ID)
	require.Equal(t, domain.UserID("user-updated"), got[0].UserID)
	require.Equal(t, first.ItemEntities, got[0].ItemEntities)
	require.Equal(t, second.ID, got[1].ID)
}

func TestStore_Delete_TC(t *testing.T) {
	t.Parallel()
	store, pool := newStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seed := fixtures.Orders()
	for i := range seed {
		require.NoError(t, store.Save(ctx, &seed[i]))
	}

	require.NoError(t, store.DeleteOrder(ctx, "order-1"))
	require.ErrorIs(t, store.DeleteOrder(ctx, "order-1"), domain.ErrNotFound)

	// позиции удалённого заказа ушли каскадом
	var left int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM order_items WHERE order_id = 'order-1'`).Scan(&left))
	require.Zero(t, left)

	require.NoError(t, store.DeleteItem(ctx, "order-2", "order-2-item-1"))
	require.ErrorIs(t, store.DeleteItem(ctx, "order-2", "order-2-item-1"), domain.ErrNotFound)
	require.ErrorIs(t, store.DeleteItem(ctx, "order-404", "order-2-item-2"), domain.ErrNotFound)

	got, err := store.List(ctx)
	require.NoError(t, err)
	total := 0
	for i := range got {
		total += got[i].Quantity()
	}
	require.Equal(t, fixtures.TotalQuantity-fixtures.OrderQuantity-fixtures.SecondOrderFirstItemQuantity, total)
}

func TestStore_Save_ValidationErrors_TC(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.Error(t, store.Save(ctx, nil))

	noID := testutil.MakeOrder(testutil.WithOrderID(""))
	require.Error(t, store.Save(ctx, &noID))

	noUser := testutil.MakeOrder(testutil.WithUser(""))
	require.Error(t, store.Save(ctx, &noUser))

	// отрицательное количество режет CHECK в схеме
	bad := testutil.MakeOrder()
	bad.ItemEntities[0].Quantity = -1
	require.Error(t, store.Save(ctx, &bad))
}
