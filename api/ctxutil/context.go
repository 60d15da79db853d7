package ctxutil

import (
	"context"

	"todo/api/response"
	"todo/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID 将 gin 上下文中的请求 ID 带入标准 context，供应用层和仓储层日志使用。
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}
