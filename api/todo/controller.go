/*
Package todo - 任务 API 控制器

路由挂载在根路径，与现有客户端契约保持一致:

	GET    /todos       列出全部任务
	POST   /todos       创建任务 {"task": "..."}
	PUT    /todos/:id   替换任务文本
	DELETE /todos/:id   删除任务

错误处理原则:
1. 路径 id 无法解析为正整数时视为资源不存在，返回 404
2. 请求体缺少 task 或 task 不是字符串: response.HandleError 直接返回 400，不触达存储
3. 业务错误: response.HandleAppError 按错误码映射状态码
*/
package todo

import (
	"net/http"
	"strconv"

	"todo/api/ctxutil"
	"todo/api/response"
	todoapp "todo/application/todo"

	"github.com/gin-gonic/gin"
)

// Controller 任务控制器
type Controller struct {
	todoService *todoapp.ApplicationService
}

// NewController 创建任务控制器
func NewController(todoService *todoapp.ApplicationService) *Controller {
	return &Controller{
		todoService: todoService,
	}
}

// RegisterRoutes 注册任务路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	todoGroup := router.Group("/todos")
	{
		todoGroup.GET("", c.ListTasks)
		todoGroup.POST("", c.CreateTask)
		todoGroup.PUT("/:id", c.UpdateTask)
		todoGroup.DELETE("/:id", c.DeleteTask)
	}
}

// ListTasks 列出任务
// GET /todos
func (c *Controller) ListTasks(ctx *gin.Context) {
	tasks, err := c.todoService.ListTasks(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleOK(ctx, tasks)
}

// CreateTask 创建任务
// POST /todos
func (c *Controller) CreateTask(ctx *gin.Context) {
	var req todoapp.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "task is required and must be a string", http.StatusBadRequest)
		return
	}

	task, err := c.todoService.CreateTask(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, task)
}

// UpdateTask 替换任务文本
// PUT /todos/:id
func (c *Controller) UpdateTask(ctx *gin.Context) {
	id, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	var req todoapp.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "task is required and must be a string", http.StatusBadRequest)
		return
	}
	req.ID = id

	task, err := c.todoService.UpdateTask(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleOK(ctx, task)
}

// DeleteTask 删除任务
// DELETE /todos/:id
func (c *Controller) DeleteTask(ctx *gin.Context) {
	id, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	result, err := c.todoService.DeleteTask(ctxutil.WithRequestID(ctx), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleOK(ctx, result)
}

// parseTaskID 解析路径 id，失败时已写入 404 响应。
// 只接受规范十进制形式，"+1"、"01" 不匹配任务 1。
func parseTaskID(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err == nil && (id < 1 || strconv.FormatInt(id, 10) != raw) {
		err = strconv.ErrSyntax
	}
	if err != nil {
		response.HandleError(ctx, err, "task not found: "+raw, http.StatusNotFound)
		return 0, false
	}
	return id, true
}
