// Package memory — локальный источник заказов: упорядоченная коллекция в памяти процесса.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
)

var _ ports.OrdersGateway = (*Gateway)(nil)

// Gateway — in-memory реализация OrdersGateway.
// Коллекция изменяется только собственными методами; наружу уходят копии.
type Gateway struct {
	mu     sync.RWMutex
	orders []domain.OrderEntity
	delay  time.Duration
}

// Option — настройка Gateway.
type Option func(*Gateway)

// WithDelay — искусственная задержка каждого вызова (имитация сети).
func WithDelay(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.delay = d
		}
	}
}

// New — источник с начальной коллекцией (копируется).
func New(orders []domain.OrderEntity, opts ...Option) *Gateway {
	g := &Gateway{orders: domain.CloneOrders(orders)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetOrders заменяет коллекцию целиком.
func (g *Gateway) SetOrders(orders []domain.OrderEntity) {
	cloned := domain.CloneOrders(orders)

	g.mu.Lock()
	g.orders = cloned
	g.mu.Unlock()
}

// GetOrders — снимок коллекции в исходном порядке. Ошибка возможна только при отмене ctx.
func (g *Gateway) GetOrders(ctx context.Context) ([]domain.OrderEntity, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	return domain.CloneOrders(g.orders), nil
}

// DeleteOrder удаляет заказ; отсутствующий id — ErrNotFound.
func (g *Gateway) DeleteOrder(ctx context.Context, orderID domain.OrderEntityID) error {
	if err := g.wait(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(orderID)
	if idx < 0 {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	g.orders = append(g.orders[:idx:idx], g.orders[idx+1:]...)
	return nil
}

// DeleteItem удаляет позицию из заказа; остальные позиции и заказы не меняются.
func (g *Gateway) DeleteItem(ctx context.Context, orderID domain.OrderEntityID, itemID domain.ItemEntityID) error {
	if err := g.wait(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(orderID)
	if idx < 0 {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}

	order := g.orders[idx]
	for j, item := range order.ItemEntities {
		if item.ID != itemID {
			continue
		}
		items := make([]domain.ItemEntity, 0, len(order.ItemEntities)-1)
		items = append(items, order.ItemEntities[:j]...)
		items = append(items, order.ItemEntities[j+1:]...)
		order.ItemEntities = items
		g.orders[idx] = order
		return nil
	}
	return fmt.Errorf("%w: item %s in order %s", domain.ErrNotFound, itemID, orderID)
}

// indexOf — вызывается под мьютексом.
func (g *Gateway) indexOf(orderID domain.OrderEntityID) int {
	for i := range g.orders {
		if g.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

func (g *Gateway) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
