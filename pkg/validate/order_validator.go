package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

// OrderValidator — проверка инвариантов заказа и коллекции заказов.
type OrderValidator struct{}

// NewOrderValidator — конструктор OrderValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// Validate — проверяет корректность полей заказа.
func (v *OrderValidator) Validate(_ context.Context, order *domain.OrderEntity) error {
	if err := v.validateCore(order); err != nil {
		return err
	}
	return v.validateItems(order.ItemEntities)
}

// ValidateCollection — каждый заказ валиден, id заказов уникальны в коллекции.
func (v *OrderValidator) ValidateCollection(ctx context.Context, orders []domain.OrderEntity) error {
	seen := make(map[domain.OrderEntityID]int, len(orders))
	for i := range orders {
		if err := v.Validate(ctx, &orders[i]); err != nil {
			return fmt.Errorf("orders[%d]: %w", i, err)
		}
		if prev, ok := seen[orders[i].ID]; ok {
			return fmt.Errorf("%w: orders[%d].id %q повторяет orders[%d]", ErrInvalidOrder, i, orders[i].ID, prev)
		}
		seen[orders[i].ID] = i
	}
	return nil
}

// validateCore — валидация основных полей заказа.
func (v *OrderValidator) validateCore(order *domain.OrderEntity) error {
	if order == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidOrder)
	}
	if strings.TrimSpace(string(order.ID)) == "" {
		return fmt.Errorf("%w: id обязателен", ErrInvalidOrder)
	}
	if strings.TrimSpace(string(order.UserID)) == "" {
		return fmt.Errorf("%w: user_id обязателен", ErrInvalidOrder)
	}
	return nil
}

// Валидация товаров
func (v *OrderValidator) validateItems(items []domain.ItemEntity) error {
	seen := make(map[domain.ItemEntityID]struct{}, len(items))

	for i := range items {
		item := &items[i]

		if strings.TrimSpace(string(item.ID)) == "" {
			return fmt.Errorf("%w: items[%d].id обязателен", ErrInvalidOrder, i)
		}
		if strings.TrimSpace(string(item.ProductID)) == "" {
			return fmt.Errorf("%w: items[%d].product_id обязателен", ErrInvalidOrder, i)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: items[%d].quantity должен быть неотрицательным", ErrInvalidOrder, i)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: items[%d].id %q не уникален в заказе", ErrInvalidOrder, i, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
