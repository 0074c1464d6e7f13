package usecase

import (
	"context"
	"errors"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
)

// ErrEmptyID — не передан id заказа или позиции.
var ErrEmptyID = errors.New("empty id")

type DeleteOrderInput struct {
	// Resource пуст — активный источник.
	Resource domain.Resource
	OrderID  domain.OrderEntityID
}

// DeleteOrderUseCase — намерение «удалить заказ». Политику инвалидации решает репозиторий,
// ошибка возвращается вызывающему без изменений.
type DeleteOrderUseCase struct {
	repo ports.OrdersRepository
	log  ports.Logger
}

func NewDeleteOrderUseCase(repo ports.OrdersRepository, log ports.Logger) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{repo: repo, log: log}
}

func (uc *DeleteOrderUseCase) Execute(ctx context.Context, in DeleteOrderInput) error {
	if in.OrderID == "" {
		return ErrEmptyID
	}
	if err := uc.repo.DeleteOrder(ctx, in.Resource, in.OrderID); err != nil {
		uc.log.Warnf(ctx, "delete order failed order_id=%s err=%v", in.OrderID, err)
		return err
	}
	uc.log.Infof(ctx, "order deleted order_id=%s", in.OrderID)
	return nil
}
