package ports

import (
	"context"

	"github.com/Gunvolt24/orders_sync/internal/domain"
)

// OrdersGateway — граница доступа к источнику заказов (in-memory или удалённый API).
// Удаление отсутствующего заказа/позиции возвращает domain.ErrNotFound в любой реализации.
type OrdersGateway interface {
	// GetOrders — полный текущий снимок коллекции.
	GetOrders(ctx context.Context) ([]domain.OrderEntity, error)
	// DeleteOrder — удалить заказ целиком.
	DeleteOrder(ctx context.Context, orderID domain.OrderEntityID) error
	// DeleteItem — удалить одну позицию из заказа.
	DeleteItem(ctx context.Context, orderID domain.OrderEntityID, itemID domain.ItemEntityID) error
}
