package httpx

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/pkg/ctxmeta"
)

// RequiredParam — непустой path-параметр без пробелов по краям.
func RequiredParam(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Param(name))
	return v, v != ""
}

// ResourceParam — разбор :resource; при успехе имя источника кладётся в контекст запроса для логов.
func ResourceParam(c *gin.Context, name string) (domain.Resource, error) {
	res, err := domain.ParseResource(c.Param(name))
	if err != nil {
		return "", err
	}
	c.Request = c.Request.WithContext(ctxmeta.WithResource(c.Request.Context(), res.String()))
	return res, nil
}
