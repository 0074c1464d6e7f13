package gateway

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/metrics"
	"github.com/Gunvolt24/orders_sync/pkg/telemetry"
)

var _ ports.OrdersGateway = (*Instrumented)(nil)

// Instrumented — обёртка над источником: спан, метрики и лог ошибки на каждый вызов.
type Instrumented struct {
	resource domain.Resource
	next     ports.OrdersGateway
	log      ports.Logger
}

func Instrument(resource domain.Resource, next ports.OrdersGateway, log ports.Logger) *Instrumented {
	return &Instrumented{resource: resource, next: next, log: log}
}

func (g *Instrumented) GetOrders(ctx context.Context) ([]domain.OrderEntity, error) {
	var orders []domain.OrderEntity
	err := g.observe(ctx, "get_orders", func(ctx context.Context) error {
		var err error
		orders, err = g.next.GetOrders(ctx)
		return err
	})
	return orders, err
}

func (g *Instrumented) DeleteOrder(ctx context.Context, orderID domain.OrderEntityID) error {
	return g.observe(ctx, "delete_order", func(ctx context.Context) error {
		return g.next.DeleteOrder(ctx, orderID)
	}, attribute.String("orders.order_id", string(orderID)))
}

func (g *Instrumented) DeleteItem(ctx context.Context, orderID domain.OrderEntityID, itemID domain.ItemEntityID) error {
	return g.observe(ctx, "delete_item", func(ctx context.Context) error {
		return g.next.DeleteItem(ctx, orderID, itemID)
	}, attribute.String("orders.order_id", string(orderID)), attribute.String("orders.item_id", string(itemID)))
}

func (g *Instrumented) observe(ctx context.Context, op string, call func(context.Context) error, attrs ...attribute.KeyValue) error {
	attrs = append(attrs, attribute.String("orders.resource", g.resource.String()))
	ctx, span := telemetry.Tracer().Start(ctx, "gateway."+op, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := call(ctx)
	metrics.GatewayLatency.WithLabelValues(g.resource.String(), op).Observe(time.Since(start).Seconds())

	result := Result(err)
	metrics.GatewayRequests.WithLabelValues(g.resource.String(), op, result).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		if result == "error" {
			g.log.Errorf(ctx, "gateway %s resource=%s: %v", op, g.resource, err)
		}
	}
	return err
}

// Result — метка исхода вызова для метрик: ok|not_found|canceled|error.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrCanceled):
		return "canceled"
	default:
		return "error"
	}
}
