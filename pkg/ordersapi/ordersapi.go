// Package ordersapi описывает JSON-контракт REST-ресурса /orders
// и преобразование между ним и доменными сущностями.
package ordersapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/orders_sync/internal/domain"
)

// FlexibleID — идентификатор, который API присылает строкой или целым числом.
type FlexibleID string

// UnmarshalJSON принимает "42" и 42; null, дроби, bool и объекты отклоняются.
func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("%w: пустой идентификатор", domain.ErrInvalidPayload)
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
		*id = FlexibleID(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
		if _, err := n.Int64(); err != nil {
			return fmt.Errorf("%w: идентификатор %s не целое число", domain.ErrInvalidPayload, n)
		}
		*id = FlexibleID(n.String())
		return nil
	default:
		return fmt.Errorf("%w: идентификатор должен быть строкой или числом, получено %s", domain.ErrInvalidPayload, b)
	}
}

// MarshalJSON всегда пишет строку.
func (id FlexibleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// Item — позиция заказа в формате API.
type Item struct {
	ID        FlexibleID `json:"id"`
	ProductID FlexibleID `json:"product_id"`
	Quantity  *int       `json:"quantity"`
}

// Order — заказ в формате API.
type Order struct {
	ID     FlexibleID `json:"id"`
	UserID FlexibleID `json:"user_id"`
	Items  []Item     `json:"items"`
}

// DecodeOrders — строгое чтение массива заказов: неизвестные поля и хвост после массива запрещены.
func DecodeOrders(r io.Reader) ([]Order, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var orders []Order
	if err := dec.Decode(&orders); err != nil {
		return nil, fmt.Errorf("%w: decode orders: %v", domain.ErrInvalidPayload, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", domain.ErrInvalidPayload)
	}
	if orders == nil {
		return nil, fmt.Errorf("%w: ожидался массив заказов", domain.ErrInvalidPayload)
	}
	return orders, nil
}

// DecodeOrder — строгое чтение одного заказа.
func DecodeOrder(raw []byte) (*Order, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var order Order
	if err := dec.Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", domain.ErrInvalidPayload, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", domain.ErrInvalidPayload)
	}
	return &order, nil
}

// ToDomain переводит весь ответ API в доменные сущности.
// Первая же некорректная запись делает ошибочным весь результат.
func ToDomain(orders []Order) ([]domain.OrderEntity, error) {
	out := make([]domain.OrderEntity, 0, len(orders))
	for i := range orders {
		order, err := OrderToDomain(&orders[i])
		if err != nil {
			return nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		out = append(out, order)
	}
	return out, nil
}

// OrderToDomain — преобразование одного заказа. Заказ без items получает пустой список.
func OrderToDomain(o *Order) (domain.OrderEntity, error) {
	if strings.TrimSpace(string(o.ID)) == "" {
		return domain.OrderEntity{}, fmt.Errorf("%w: id обязателен", domain.ErrInvalidPayload)
	}
	if strings.TrimSpace(string(o.UserID)) == "" {
		return domain.OrderEntity{}, fmt.Errorf("%w: user_id обязателен", domain.ErrInvalidPayload)
	}

	items := make([]domain.ItemEntity, 0, len(o.Items))
	for j, it := range o.Items {
		switch {
		case strings.TrimSpace(string(it.ID)) == "":
			return domain.OrderEntity{}, fmt.Errorf("%w: items[%d].id обязателен", domain.ErrInvalidPayload, j)
		case strings.TrimSpace(string(it.ProductID)) == "":
			return domain.OrderEntity{}, fmt.Errorf("%w: items[%d].product_id обязателен", domain.ErrInvalidPayload, j)
		case it.Quantity == nil:
			return domain.OrderEntity{}, fmt.Errorf("%w: items[%d].quantity обязателен", domain.ErrInvalidPayload, j)
		}
		items = append(items, domain.ItemEntity{
			ID:        domain.ItemEntityID(it.ID),
			ProductID: domain.ProductID(it.ProductID),
			Quantity:  *it.Quantity,
		})
	}

	return domain.OrderEntity{
		ID:           domain.OrderEntityID(o.ID),
		UserID:       domain.UserID(o.UserID),
		ItemEntities: items,
	}, nil
}

// FromDomain — обратное преобразование для отдачи клиентам API.
func FromDomain(orders []domain.OrderEntity) []Order {
	out := make([]Order, 0, len(orders))
	for i := range orders {
		out = append(out, OrderFromDomain(&orders[i]))
	}
	return out
}

// OrderFromDomain — обратное преобразование одного заказа.
func OrderFromDomain(o *domain.OrderEntity) Order {
	items := make([]Item, 0, len(o.ItemEntities))
	for _, it := range o.ItemEntities {
		q := it.Quantity
		items = append(items, Item{
			ID:        FlexibleID(it.ID),
			ProductID: FlexibleID(it.ProductID),
			Quantity:  &q,
		})
	}
	return Order{
		ID:     FlexibleID(o.ID),
		UserID: FlexibleID(o.UserID),
		Items:  items,
	}
}
