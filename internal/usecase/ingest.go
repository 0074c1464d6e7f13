package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/validate"
)

// IngestService — приём снимков заказов из Kafka в серверное хранилище.
type IngestService struct {
	store     ports.OrderStore
	log       ports.Logger
	validator ports.OrderValidator
}

func NewIngestService(store ports.OrderStore, log ports.Logger, validator ports.OrderValidator) *IngestService {
	return &IngestService{store: store, log: log, validator: validator}
}

// SaveFromMessage — сохранить заказ из сообщения (raw JSON в формате API).
// Шаги:
//  1. строгий разбор JSON (DisallowUnknownFields, без хвостовых данных);
//  2. валидация; любая ошибка этих шагов оборачивает validate.ErrInvalidOrder;
//  3. upsert в хранилище; ошибка хранилища временная и не оборачивается.
func (s *IngestService) SaveFromMessage(ctx context.Context, raw []byte) error {
	order, err := validate.ValidateOrderFromJSON(ctx, s.validator, raw)
	if err != nil {
		if !errors.Is(err, validate.ErrInvalidOrder) {
			err = fmt.Errorf("%w: %w", validate.ErrInvalidOrder, err)
		}
		s.log.Warnf(ctx, "rejected order message: %v", err)
		return err
	}

	if err := s.store.Save(ctx, order); err != nil {
		s.log.Errorf(ctx, "store.Save failed order_id=%s err=%v", order.ID, err)
		return fmt.Errorf("failed to save order: %w", err)
	}

	s.log.Infof(ctx, "order saved id=%s items=%d", order.ID, len(order.ItemEntities))
	return nil
}
