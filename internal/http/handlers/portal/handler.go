package portal

import (
	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 商户端接口处理器
type Handler struct {
	*provider.Container
}

// New 创建商户端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}
