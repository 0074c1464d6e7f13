// Package remote — источник заказов поверх REST-ресурса /orders.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

var _ ports.OrdersGateway = (*Gateway)(nil)

// maxBodyBytes — предел размера ответа GET /orders.
const maxBodyBytes = 10 << 20

// Gateway — HTTP-реализация OrdersGateway.
type Gateway struct {
	baseURL   string
	client    ports.HTTPClient
	validator ports.OrderValidator
}

// New — baseURL без завершающего слэша, например http://host:8081/api.
func New(baseURL string, client ports.HTTPClient, validator ports.OrderValidator) *Gateway {
	return &Gateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		validator: validator,
	}
}

// NewHTTPClient — клиент по умолчанию: таймаут и otelhttp-транспорт (пропагация trace-контекста).
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// GetOrders — GET {base}/orders. Некорректный ответ отклоняется целиком.
func (g *Gateway) GetOrders(ctx context.Context) ([]domain.OrderEntity, error) {
	resp, err := g.do(ctx, http.MethodGet, "/orders")
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	if err := checkStatus(resp, "get orders"); err != nil {
		return nil, err
	}

	wire, err := ordersapi.DecodeOrders(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: get orders: %w", domain.ErrGateway, err)
	}
	orders, err := ordersapi.ToDomain(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: get orders: %w", domain.ErrGateway, err)
	}
	if err := g.validator.ValidateCollection(ctx, orders); err != nil {
		return nil, fmt.Errorf("%w: %w: get orders: %w", domain.ErrGateway, domain.ErrInvalidPayload, err)
	}
	return orders, nil
}

// DeleteOrder — DELETE {base}/orders/{orderId}.
func (g *Gateway) DeleteOrder(ctx context.Context, orderID domain.OrderEntityID) error {
	resp, err := g.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(string(orderID)))
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	return checkStatus(resp, "delete order "+string(orderID))
}

// DeleteItem — DELETE {base}/orders/{orderId}/items/{itemId}.
func (g *Gateway) DeleteItem(ctx context.Context, orderID domain.OrderEntityID, itemID domain.ItemEntityID) error {
	path := "/orders/" + url.PathEscape(string(orderID)) + "/items/" + url.PathEscape(string(itemID))
	resp, err := g.do(ctx, http.MethodDelete, path)
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	return checkStatus(resp, fmt.Sprintf("delete item %s of order %s", itemID, orderID))
}

func (g *Gateway) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrGateway, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// отмена ctx остаётся различимой через errors.Is(err, context.Canceled)
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrGateway, method, path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, what string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	default:
		return fmt.Errorf("%w: %s: unexpected status %d", domain.ErrGateway, what, resp.StatusCode)
	}
}

// drain дочитывает тело, чтобы соединение вернулось в пул.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
	_ = body.Close()
}
