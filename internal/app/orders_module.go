package app

import (
	"context"
	"sync"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/internal/presentation"
)

// ordersCache — управление кэшем заказов со стороны жизненного цикла модуля.
type ordersCache interface {
	CancelAllQueries()
	CancelResource(resource domain.Resource)
	EvictResource(resource domain.Resource)
}

type resourceSubscriber interface {
	Subscribe(listener presentation.ResourceListener) func()
}

// OrdersModule связывает выбор источника с кэшем заказов: при смене источника
// операции прежнего отменяются, а его данные вытесняются.
type OrdersModule struct {
	cache     ordersCache
	resources resourceSubscriber
	log       ports.Logger

	mu          sync.Mutex
	unsubscribe func()
}

func NewOrdersModule(cache ordersCache, resources resourceSubscriber, log ports.Logger) *OrdersModule {
	return &OrdersModule{cache: cache, resources: resources, log: log}
}

// Mount подписывает модуль на смену источника. Повторный вызов ничего не делает.
func (m *OrdersModule) Mount(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unsubscribe != nil {
		return
	}
	m.unsubscribe = m.resources.Subscribe(func(prev, next domain.Resource) {
		m.cache.CancelResource(prev)
		m.cache.EvictResource(prev)
		m.log.Infof(ctx, "orders module: resource %s -> %s, previous cache evicted", prev, next)
	})
	m.log.Debugf(ctx, "orders module mounted")
}

// Unmount отменяет все операции с заказами и снимает подписку.
func (m *OrdersModule) Unmount(ctx context.Context) {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe == nil {
		return
	}
	unsubscribe()
	m.cache.CancelAllQueries()
	m.log.Debugf(ctx, "orders module unmounted")
}
