package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/internal/repository/orders"
	"github.com/Gunvolt24/orders_sync/internal/selectors"
	"github.com/Gunvolt24/orders_sync/internal/usecase"
	"github.com/Gunvolt24/orders_sync/pkg/httpx"
	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

// activeResource — значение :resource, означающее текущий выбранный источник.
const activeResource = "active"

// OrdersReader — то, что view-слою нужно от репозитория заказов.
type OrdersReader interface {
	GetOrders(ctx context.Context, resource domain.Resource) ([]domain.OrderEntity, error)
	Snapshot(resource domain.Resource) *orders.Snapshot
	IsProcessing(resource domain.Resource) bool
}

// ViewUseCases — сценарии, которые вызывают view-эндпоинты.
type ViewUseCases struct {
	DeleteOrder     *usecase.DeleteOrderUseCase
	DeleteOrderItem *usecase.DeleteOrderItemUseCase
	SwitchResource  *usecase.SwitchResourceUseCase
}

// ViewHandler — эндпоинты /view: производные данные ядра через селекторы.
type ViewHandler struct {
	orders    OrdersReader
	selectors *selectors.Set
	resources ports.ResourceSelector
	uc        ViewUseCases
	log       ports.Logger
	timeout   time.Duration
}

func NewViewHandler(
	reader OrdersReader,
	set *selectors.Set,
	resources ports.ResourceSelector,
	uc ViewUseCases,
	log ports.Logger,
	timeout time.Duration,
) *ViewHandler {
	return &ViewHandler{
		orders:    reader,
		selectors: set,
		resources: resources,
		uc:        uc,
		log:       log,
		timeout:   timeout,
	}
}

// OrdersView — сводка коллекции источника.
type OrdersView struct {
	Resource      domain.Resource        `json:"resource"`
	IDs           []domain.OrderEntityID `json:"ids"`
	TotalQuantity int                    `json:"total_quantity"`
	Processing    bool                   `json:"processing"`
	Status        string                 `json:"status"`
	Error         string                 `json:"error,omitempty"`
	Version       uint64                 `json:"version"`
}

// OrderView — заказ и признак «последний в коллекции».
type OrderView struct {
	Order  ordersapi.Order `json:"order"`
	IsLast bool            `json:"is_last"`
}

type switchRequest struct {
	Resource string `json:"resource" binding:"required"`
}

type switchResponse struct {
	Previous domain.Resource `json:"previous"`
	Current  domain.Resource `json:"current"`
	Changed  bool            `json:"changed"`
}

func (h *ViewHandler) getOrders(c *gin.Context) {
	resource, ok := h.resource(c)
	if !ok {
		return
	}
	snap, ok := h.load(c, resource)
	if !ok {
		return
	}

	view := OrdersView{
		Resource:      snap.Resource,
		IDs:           h.selectors.OrderIDs.Select(snap),
		TotalQuantity: h.selectors.TotalItemsQuantity.Select(snap),
		Processing:    h.selectors.IsOrdersProcessing.Select(snap),
		Status:        snap.Status.String(),
		Version:       snap.Version,
	}
	if snap.Err != nil {
		view.Error = snap.Err.Error()
	}
	c.JSON(http.StatusOK, view)
}

func (h *ViewHandler) getOrder(c *gin.Context) {
	resource, ok := h.resource(c)
	if !ok {
		return
	}
	orderID, ok := httpx.RequiredParam(c, "orderId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty order id"})
		return
	}
	snap, ok := h.load(c, resource)
	if !ok {
		return
	}

	id := domain.OrderEntityID(orderID)
	order := h.selectors.OrderByID(id).Select(snap)
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, OrderView{
		Order:  ordersapi.OrderFromDomain(order),
		IsLast: h.selectors.IsLastOrderID(id).Select(snap),
	})
}

func (h *ViewHandler) deleteOrder(c *gin.Context) {
	resource, ok := h.resource(c)
	if !ok || !h.idle(c, resource) {
		return
	}
	orderID, _ := httpx.RequiredParam(c, "orderId")

	ctx, cancel := withTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	err := h.uc.DeleteOrder.Execute(ctx, usecase.DeleteOrderInput{
		Resource: resource,
		OrderID:  domain.OrderEntityID(orderID),
	})
	h.respondMutation(c, err)
}

func (h *ViewHandler) deleteOrderItem(c *gin.Context) {
	resource, ok := h.resource(c)
	if !ok || !h.idle(c, resource) {
		return
	}
	orderID, _ := httpx.RequiredParam(c, "orderId")
	itemID, _ := httpx.RequiredParam(c, "itemId")

	ctx, cancel := withTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	err := h.uc.DeleteOrderItem.Execute(ctx, usecase.DeleteOrderItemInput{
		Resource: resource,
		OrderID:  domain.OrderEntityID(orderID),
		ItemID:   domain.ItemEntityID(itemID),
	})
	h.respondMutation(c, err)
}

func (h *ViewHandler) getResource(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"resource": h.resources.Resource()})
}

func (h *ViewHandler) switchResource(c *gin.Context) {
	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := h.uc.SwitchResource.Execute(c.Request.Context(), usecase.SwitchResourceInput{Resource: req.Resource})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownResource) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, switchResponse{Previous: out.Previous, Current: out.Current, Changed: out.Changed})
}

// resource — источник из пути; "active" превращается в пустой (текущий выбранный).
func (h *ViewHandler) resource(c *gin.Context) (domain.Resource, bool) {
	if strings.EqualFold(strings.TrimSpace(c.Param("resource")), activeResource) {
		return h.resources.Resource(), true
	}
	resource, err := httpx.ResourceParam(c, "resource")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return resource, true
}

// load — загрузка через кэш и текущий снимок. Ошибка источника не прерывает ответ:
// снимок уже несёт статус error и пустую коллекцию.
func (h *ViewHandler) load(c *gin.Context, resource domain.Resource) (*orders.Snapshot, bool) {
	ctx, cancel := withTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if _, err := h.orders.GetOrders(ctx, resource); err != nil {
		if errors.Is(err, domain.ErrUnknownResource) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		h.log.Warnf(ctx, "orders fetch failed resource=%s err=%v", resource, err)
	}
	return h.orders.Snapshot(resource), true
}

// idle — разрушающие операции запрещены, пока идёт загрузка или другая мутация.
func (h *ViewHandler) idle(c *gin.Context, resource domain.Resource) bool {
	if h.orders.IsProcessing(resource) {
		c.JSON(http.StatusConflict, gin.H{"error": "orders are being processed"})
		return false
	}
	return true
}

func (h *ViewHandler) respondMutation(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, usecase.ErrEmptyID), errors.Is(err, domain.ErrUnknownResource):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCanceled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGateway), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
