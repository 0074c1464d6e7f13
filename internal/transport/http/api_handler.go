package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/httpx"
	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

// APIHandler — REST-ресурс /api/orders поверх серверного хранилища.
// Его же читает remote-источник ядра.
type APIHandler struct {
	store   ports.OrderStore
	log     ports.Logger
	timeout time.Duration
}

func NewAPIHandler(store ports.OrderStore, log ports.Logger, timeout time.Duration) *APIHandler {
	return &APIHandler{store: store, log: log, timeout: timeout}
}

func (h *APIHandler) listOrders(c *gin.Context) {
	ctx, cancel := withTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	orders, err := h.store.List(ctx)
	if err != nil {
		h.log.Errorf(ctx, "list orders failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ordersapi.FromDomain(orders))
}

func (h *APIHandler) deleteOrder(c *gin.Context) {
	orderID, ok := httpx.RequiredParam(c, "orderId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty order id"})
		return
	}

	ctx, cancel := withTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	err := h.store.DeleteOrder(ctx, domain.OrderEntityID(orderID))
	h.respondDelete(ctx, c, err, "order not found")
}

func (h *APIHandler) deleteItem(c *gin.Context) {
	orderID, ok := httpx.RequiredParam(c, "orderId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty order id"})
		return
	}
	itemID, ok := httpx.RequiredParam(c, "itemId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty item id"})
		return
	}

	ctx, cancel := withTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	err := h.store.DeleteItem(ctx, domain.OrderEntityID(orderID), domain.ItemEntityID(itemID))
	h.respondDelete(ctx, c, err, "item not found")
}

func (h *APIHandler) respondDelete(ctx context.Context, c *gin.Context, err error, notFound string) {
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	default:
		h.log.Errorf(ctx, "delete failed path=%s err=%v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// withTimeout — таймаут обработчика; d <= 0 — без ограничения.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
