package usecase

import (
	"context"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
)

type DeleteOrderItemInput struct {
	Resource domain.Resource
	OrderID  domain.OrderEntityID
	ItemID   domain.ItemEntityID
}

// DeleteOrderItemUseCase — намерение «удалить позицию заказа».
type DeleteOrderItemUseCase struct {
	repo ports.OrdersRepository
	log  ports.Logger
}

func NewDeleteOrderItemUseCase(repo ports.OrdersRepository, log ports.Logger) *DeleteOrderItemUseCase {
	return &DeleteOrderItemUseCase{repo: repo, log: log}
}

func (uc *DeleteOrderItemUseCase) Execute(ctx context.Context, in DeleteOrderItemInput) error {
	if in.OrderID == "" || in.ItemID == "" {
		return ErrEmptyID
	}
	if err := uc.repo.DeleteOrderItem(ctx, in.Resource, in.OrderID, in.ItemID); err != nil {
		uc.log.Warnf(ctx, "delete item failed order_id=%s item_id=%s err=%v", in.OrderID, in.ItemID, err)
		return err
	}
	uc.log.Infof(ctx, "item deleted order_id=%s item_id=%s", in.OrderID, in.ItemID)
	return nil
}
