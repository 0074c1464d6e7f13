package httpx

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orders_sync/internal/ports"
)

// RequestLogger — строка лога на запрос. request_id, resource и trace
// логгер берёт из контекста сам. Уровень зависит от статуса: 5xx — error, 4xx — warn.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		switch path {
		case "/metrics", "/ping":
			return
		case "":
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		status := c.Writer.Status()
		logf := log.Infof
		switch {
		case status >= http.StatusInternalServerError:
			logf = log.Errorf
		case status >= http.StatusBadRequest:
			logf = log.Warnf
		}

		logf(ctx, "http %s %s status=%d ip=%s duration=%s size=%d errors=%d",
			c.Request.Method, path, status, c.ClientIP(), time.Since(start), c.Writer.Size(), len(c.Errors))
	}
}
