package httpx

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/orders_sync/pkg/ctxmeta"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxRequestIDLen = 128
)

// RequestIDMiddleware берёт X-Request-ID клиента или генерирует UUID.
// Пустой, слишком длинный или с управляющими символами id заменяется новым.
// id попадает в контекст, в ответный заголовок и в атрибуты активного спана.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := ctxmeta.WithRequestID(c.Request.Context(), requestID)
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("http.request_id", requestID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
