package ports

import (
	"context"

	"github.com/Gunvolt24/orders_sync/internal/domain"
)

// OrdersRepository — мутации кэшируемой коллекции заказов, которыми пользуются сценарии.
// Пустой resource означает активный источник.
type OrdersRepository interface {
	DeleteOrder(ctx context.Context, resource domain.Resource, orderID domain.OrderEntityID) error
	DeleteOrderItem(ctx context.Context, resource domain.Resource, orderID domain.OrderEntityID, itemID domain.ItemEntityID) error
}
