//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeOrder — валидный заказ с уникальным id и одной позицией.
func MakeOrder(opts ...func(*domain.OrderEntity)) domain.OrderEntity {
	id := domain.OrderEntityID("ord-" + UniqSuffix())

	o := domain.OrderEntity{
		ID:     id,
		UserID: domain.UserID("user-" + UniqSuffix()),
		ItemEntities: []domain.ItemEntity{
			{ID: domain.ItemEntityID(string(id) + "-item-1"), ProductID: "product-1", Quantity: 1},
		},
	}

	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithOrderID(id string) func(*domain.OrderEntity) {
	return func(o *domain.OrderEntity) { o.ID = domain.OrderEntityID(id) }
}

func WithUser(user string) func(*domain.OrderEntity) {
	return func(o *domain.OrderEntity) { o.UserID = domain.UserID(user) }
}

// WithItems — n позиций с количествами 10, 20, ...
func WithItems(n int) func(*domain.OrderEntity) {
	return func(o *domain.OrderEntity) {
		o.ItemEntities = make([]domain.ItemEntity, 0, n)
		for i := 0; i < n; i++ {
			o.ItemEntities = append(o.ItemEntities, domain.ItemEntity{
				ID:        domain.ItemEntityID(fmt.Sprintf("%s-item-%d", o.ID, i+1)),
				ProductID: domain.ProductID("product-" + UniqSuffix()),
				Quantity:  10 * (i + 1),
			})
		}
	}
}

// WireJSON — заказ в формате сообщения/REST API.
func WireJSON(o domain.OrderEntity) []byte {
	b, err := json.Marshal(ordersapi.OrderFromDomain(&o))
	if err != nil {
		panic(err)
	}
	return b
}
