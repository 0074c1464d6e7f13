package ports

import (
	"context"

	"github.com/Gunvolt24/orders_sync/internal/domain"
)

// OrderStore — серверное хранилище заказов, на котором работает REST API /orders.
type OrderStore interface {
	// List — все заказы в порядке добавления.
	List(ctx context.Context) ([]domain.OrderEntity, error)
	// Save — идемпотентный upsert заказа вместе с позициями.
	Save(ctx context.Context, order *domain.OrderEntity) error
	// DeleteOrder — удалить заказ; domain.ErrNotFound, если его нет.
	DeleteOrder(ctx context.Context, orderID domain.OrderEntityID) error
	// DeleteItem — удалить позицию; domain.ErrNotFound, если нет заказа или позиции.
	DeleteItem(ctx context.Context, orderID domain.OrderEntityID, itemID domain.ItemEntityID) error
}
