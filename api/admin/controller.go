/*
Package admin - 存储管理接口

仅在 admin.enabled 时注册:

	POST /admin/reset   清空任务与计数器，并解除降级模式
	POST /admin/reload  重新读取快照（感知外部对快照文件的覆盖）
*/
package admin

import (
	"net/http"

	"todo/api/ctxutil"
	"todo/api/response"
	todoapp "todo/application/todo"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	todoService *todoapp.ApplicationService
}

func NewController(todoService *todoapp.ApplicationService) *Controller {
	return &Controller{todoService: todoService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	adminGroup := router.Group("/admin")
	{
		adminGroup.POST("/reset", c.Reset)
		adminGroup.POST("/reload", c.Reload)
	}
}

// Reset POST /admin/reset
func (c *Controller) Reset(ctx *gin.Context) {
	if err := c.todoService.Reset(ctxutil.WithRequestID(ctx)); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleMessage(ctx, http.StatusOK, "Store reset")
}

// Reload POST /admin/reload
func (c *Controller) Reload(ctx *gin.Context) {
	status, err := c.todoService.Reload(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleOK(ctx, status)
}
