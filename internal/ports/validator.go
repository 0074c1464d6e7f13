package ports

import (
	"context"

	"github.com/Gunvolt24/orders_sync/internal/domain"
)

type OrderValidator interface {
	Validate(ctx context.Context, order *domain.OrderEntity) error
	ValidateCollection(ctx context.Context, orders []domain.OrderEntity) error
}
