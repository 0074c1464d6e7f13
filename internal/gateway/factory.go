// Package gateway выбирает реализацию источника заказов по ресурсу.
package gateway

import (
	"fmt"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
)

// Factory — фиксированное соответствие Resource → OrdersGateway.
type Factory struct {
	gateways map[domain.Resource]ports.OrdersGateway
}

// NewFactory копирует карту: последующие изменения исходной карты фабрику не затрагивают.
func NewFactory(gateways map[domain.Resource]ports.OrdersGateway) *Factory {
	f := &Factory{gateways: make(map[domain.Resource]ports.OrdersGateway, len(gateways))}
	for r, gw := range gateways {
		if gw != nil {
			f.gateways[r] = gw
		}
	}
	return f
}

// Gateway возвращает источник для ресурса или ErrUnknownResource.
func (f *Factory) Gateway(resource domain.Resource) (ports.OrdersGateway, error) {
	gw, ok := f.gateways[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownResource, resource)
	}
	return gw, nil
}

// Resources — зарегистрированные ресурсы в порядке domain.Resources().
func (f *Factory) Resources() []domain.Resource {
	out := make([]domain.Resource, 0, len(f.gateways))
	for _, r := range domain.Resources() {
		if _, ok := f.gateways[r]; ok {
			out = append(out, r)
		}
	}
	return out
}
