// Package orders — репозиторий коллекции заказов поверх кэша запросов:
// подписка на коллекцию, удаление заказа и позиции с инвалидацией, отмена запросов.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/orders_sync/internal/cache/query"
	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/gateway"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/ctxmeta"
	"github.com/Gunvolt24/orders_sync/pkg/telemetry"
)

// Feature — имя фичи в ключе кэша.
const Feature = "orders"

const (
	OpDeleteOrder = "delete_order"
	OpDeleteItem  = "delete_item"
)

// ResourceSource — откуда брать активный источник, если он не указан явно.
type ResourceSource interface {
	Resource() domain.Resource
}

// Listener получает снимки по возрастанию версии.
type Listener func(*Snapshot)

type Repository struct {
	client   *query.Client
	gateways *gateway.Factory
	source   ResourceSource
	log      ports.Logger

	mu   sync.Mutex
	last map[domain.Resource]*Snapshot
}

func New(client *query.Client, gateways *gateway.Factory, source ResourceSource, log ports.Logger) *Repository {
	return &Repository{
		client:   client,
		gateways: gateways,
		source:   source,
		log:      log,
		last:     make(map[domain.Resource]*Snapshot),
	}
}

// Key — ключ кэша коллекции для источника.
func Key(resource domain.Resource) query.Key {
	return query.Key{Feature: Feature, Resource: string(resource)}
}

// WatchOrders подписывает listener на коллекцию источника; пустой resource — активный.
// Первая подписка запускает загрузку. Текущий снимок доступен сразу через Snapshot().
func (r *Repository) WatchOrders(resource domain.Resource, listener Listener) (*OrdersSubscription, error) {
	resource, gw, err := r.resolve(resource)
	if err != nil {
		return nil, err
	}

	sub := &OrdersSubscription{resource: resource}
	initial, unsubscribe := r.client.Subscribe(Key(resource), r.fetcher(resource, gw), func(st query.State) {
		snap := r.snapshot(resource, st)
		if sub.set(snap) && listener != nil {
			listener(snap)
		}
	})
	sub.set(r.snapshot(resource, initial))
	sub.unsubscribe = unsubscribe
	return sub, nil
}

// GetOrders — разовое чтение: из кэша или с ожиданием загрузки.
func (r *Repository) GetOrders(ctx context.Context, resource domain.Resource) ([]domain.OrderEntity, error) {
	resource, gw, err := r.resolve(resource)
	if err != nil {
		return nil, &domain.FetchError{Resource: resource, Err: err}
	}

	ctx = ctxmeta.WithResource(ctx, resource.String())
	ctx, span := telemetry.Tracer().Start(ctx, "orders.GetOrders",
		trace.WithAttributes(attribute.String("orders.resource", resource.String())))
	defer span.End()

	data, err := r.client.Fetch(ctx, Key(resource), r.fetcher(resource, gw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get orders failed")
		return nil, fetchError(resource, err)
	}
	orders, _ := data.([]domain.OrderEntity)
	return domain.CloneOrders(orders), nil
}

// DeleteOrder удаляет заказ и перезагружает коллекцию источника. При ошибке кэш не меняется.
func (r *Repository) DeleteOrder(ctx context.Context, resource domain.Resource, orderID domain.OrderEntityID) error {
	resource, gw, err := r.resolve(resource)
	if err != nil {
		return &domain.MutationError{Op: OpDeleteOrder, Resource: resource, Err: err}
	}
	return r.mutate(ctx, resource, OpDeleteOrder, func(ctx context.Context) error {
		return gw.DeleteOrder(ctx, orderID)
	}, attribute.String("orders.order_id", string(orderID)))
}

// DeleteOrderItem удаляет позицию заказа и перезагружает коллекцию источника.
func (r *Repository) DeleteOrderItem(ctx context.Context, resource domain.Resource, orderID domain.OrderEntityID, itemID domain.ItemEntityID) error {
	resource, gw, err := r.resolve(resource)
	if err != nil {
		return &domain.MutationError{Op: OpDeleteItem, Resource: resource, Err: err}
	}
	return r.mutate(ctx, resource, OpDeleteItem, func(ctx context.Context) error {
		return gw.DeleteItem(ctx, orderID, itemID)
	}, attribute.String("orders.order_id", string(orderID)), attribute.String("orders.item_id", string(itemID)))
}

// CancelAllQueries отменяет загрузки и мутации заказов всех источников.
// Отменённые операции не пишут в кэш и не уведомляют подписчиков.
func (r *Repository) CancelAllQueries() {
	r.client.Cancel(query.ByFeature(Feature))
}

// CancelResource отменяет операции одного источника.
func (r *Repository) CancelResource(resource domain.Resource) {
	r.client.Cancel(query.ByKey(Key(resource)))
}

// EvictResource отменяет операции источника и удаляет его запись из кэша.
func (r *Repository) EvictResource(resource domain.Resource) {
	r.client.Remove(query.ByKey(Key(resource)))

	r.mu.Lock()
	delete(r.last, resource)
	r.mu.Unlock()
}

// Invalidate помечает коллекцию источника устаревшей. Если на неё есть подписчики,
// ждёт перезагрузки (или отмены ctx).
func (r *Repository) Invalidate(ctx context.Context, resource domain.Resource) error {
	resource, _, err := r.resolve(resource)
	if err != nil {
		return err
	}
	return r.client.Invalidate(ctx, Key(resource))
}

// Snapshot — текущий снимок источника; пустой resource — активный.
func (r *Repository) Snapshot(resource domain.Resource) *Snapshot {
	resource = r.orActive(resource)
	st, _ := r.client.State(Key(resource))
	return r.snapshot(resource, st)
}

// IsProcessing — идёт загрузка или мутация коллекции источника.
func (r *Repository) IsProcessing(resource domain.Resource) bool {
	st, _ := r.client.State(Key(r.orActive(resource)))
	return st.Processing()
}

func (r *Repository) mutate(ctx context.Context, resource domain.Resource, op string, call query.MutateFunc, attrs ...attribute.KeyValue) error {
	ctx = ctxmeta.WithOperation(ctxmeta.WithResource(ctx, resource.String()), op)
	attrs = append(attrs, attribute.String("orders.resource", resource.String()))
	ctx, span := telemetry.Tracer().Start(ctx, "orders."+op, trace.WithAttributes(attrs...))
	defer span.End()

	err := r.client.Mutate(ctx, Key(resource), op, call)
	if err == nil {
		r.log.Infof(ctx, "orders: %s done", op)
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	if errors.Is(err, query.ErrCanceled) {
		err = fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	}
	r.log.Warnf(ctx, "orders: %s failed: %v", op, err)
	return &domain.MutationError{Op: op, Resource: resource, Err: err}
}

// fetcher — загрузка коллекции из источника. Выполняется кэшем в своей горутине.
func (r *Repository) fetcher(resource domain.Resource, gw ports.OrdersGateway) query.FetchFunc {
	return func(ctx context.Context) (any, error) {
		ctx = ctxmeta.WithResource(ctx, resource.String())
		orders, err := gw.GetOrders(ctx)
		if err != nil {
			return nil, &domain.FetchError{Resource: resource, Err: err}
		}
		r.log.Debugf(ctx, "orders: fetched %d orders", len(orders))
		return orders, nil
	}
}

func (r *Repository) resolve(resource domain.Resource) (domain.Resource, ports.OrdersGateway, error) {
	resource = r.orActive(resource)
	gw, err := r.gateways.Gateway(resource)
	if err != nil {
		return resource, nil, err
	}
	return resource, gw, nil
}

func (r *Repository) orActive(resource domain.Resource) domain.Resource {
	if resource != "" {
		return resource
	}
	if r.source != nil {
		return r.source.Resource()
	}
	return domain.ResourceLocal
}

// snapshot возвращает один указатель на версию: селекторы мемоизируются по нему.
func (r *Repository) snapshot(resource domain.Resource, st query.State) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.last[resource]; ok {
		if prev.Version == st.Version {
			return prev
		}
		if prev.Version > st.Version {
			return newSnapshot(resource, st)
		}
	}
	snap := newSnapshot(resource, st)
	r.last[resource] = snap
	return snap
}

func fetchError(resource domain.Resource, err error) error {
	if errors.Is(err, query.ErrCanceled) {
		err = fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	}
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &domain.FetchError{Resource: resource, Err: err}
}
