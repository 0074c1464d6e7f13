// Package fixtures — детерминированный набор заказов для локального источника и тестов.
package fixtures

import (
	"context"
	"fmt"
	"os"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

const (
	// TotalQuantity — сумма количеств по всем заказам набора.
	TotalQuantity = 1825
	// OrderQuantity — сумма количеств в каждом заказе набора.
	OrderQuantity = 365
	// SecondOrderFirstItemQuantity — количество в первой позиции второго заказа.
	SecondOrderFirstItemQuantity = 75
)

var seed = [][]int{
	{100, 120, 145},
	{SecondOrderFirstItemQuantity, 90, 200},
	{150, 215},
	{65, 100, 200},
	{5, 360},
}

// Orders — свежая копия набора: 5 заказов по OrderQuantity единиц.
func Orders() []domain.OrderEntity {
	out := make([]domain.OrderEntity, 0, len(seed))
	for i, quantities := range seed {
		orderID := domain.OrderEntityID(fmt.Sprintf("order-%d", i+1))
		items := make([]domain.ItemEntity, 0, len(quantities))
		for j, q := range quantities {
			items = append(items, domain.ItemEntity{
				ID:        domain.ItemEntityID(fmt.Sprintf("%s-item-%d", orderID, j+1)),
				ProductID: domain.ProductID(fmt.Sprintf("product-%d", (i*len(seed)+j)%7+1)),
				Quantity:  q,
			})
		}
		out = append(out, domain.OrderEntity{
			ID:           orderID,
			UserID:       domain.UserID(fmt.Sprintf("user-%d", i%2+1)),
			ItemEntities: items,
		})
	}
	return out
}

// LoadFile — читает JSON-массив заказов в формате API и проверяет коллекцию.
func LoadFile(ctx context.Context, path string, validator ports.OrderValidator) ([]domain.OrderEntity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	wire, err := ordersapi.DecodeOrders(file)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	orders, err := ordersapi.ToDomain(wire)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	if err := validator.ValidateCollection(ctx, orders); err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return orders, nil
}
