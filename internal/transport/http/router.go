// Package rest — HTTP-транспорт: REST-ресурс /api/orders и view-эндпоинты ядра.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/httpx"
)

// NewRouter собирает gin-роутер. view может быть nil: тогда поднимается только REST API.
// otelServiceName пуст — без otelgin.
func NewRouter(api *APIHandler, view *ViewHandler, log ports.Logger, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestLogger(log))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	apiGroup.GET("/orders", api.listOrders)
	apiGroup.DELETE("/orders/:orderId", api.deleteOrder)
	apiGroup.DELETE("/orders/:orderId/items/:itemId", api.deleteItem)

	if view != nil {
		v := r.Group("/view")
		v.GET("/resource", view.getResource)
		v.PUT("/resource", view.switchResource)
		v.GET("/:resource/orders", view.getOrders)
		v.GET("/:resource/orders/:orderId", view.getOrder)
		v.DELETE("/:resource/orders/:orderId", view.deleteOrder)
		v.DELETE("/:resource/orders/:orderId/items/:itemId", view.deleteOrderItem)
	}

	return r
}
