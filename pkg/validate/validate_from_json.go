package validate

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

// ValidateOrderFromJSON — строгий разбор одного заказа в формате API и его валидация.
func ValidateOrderFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) (*domain.OrderEntity, error) {
	wire, err := ordersapi.DecodeOrder(raw)
	if err != nil {
		return nil, err
	}
	order, err := ordersapi.OrderToDomain(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}
	if err := validator.Validate(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ValidateOrdersFromJSON — разбор JSON-массива заказов: каждая запись проверяется отдельно,
// повтор id отбрасывает повтор. Возвращает валидные заказы и число отброшенных записей.
func ValidateOrdersFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) ([]domain.OrderEntity, int, error) {
	if !isJSONArray(raw) {
		return nil, 0, fmt.Errorf("%w: expected json array", ErrInvalidOrder)
	}
	sink := &sliceSink{}
	report, err := ValidateReader(ctx, validator, bytes.NewReader(raw), FormatJSON, sink)
	if err != nil {
		return nil, 0, err
	}
	if sink.orders == nil {
		sink.orders = []domain.OrderEntity{}
	}
	return sink.orders, report.Invalid, nil
}

// isJSONArray — первый значащий символ документа.
func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
