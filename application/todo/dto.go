package todo

// CreateTaskRequest 表示创建任务的入参。Task 为指针以区分"缺失"与"空字符串"。
type CreateTaskRequest struct {
	Task *string `json:"task" binding:"required"`
}

// UpdateTaskRequest 表示更新任务文本的入参。ID 来自路径参数。
type UpdateTaskRequest struct {
	ID   int64   `json:"-"`
	Task *string `json:"task" binding:"required"`
}

// TaskResponse 表示任务返回模型，字段名 task 与现有客户端保持一致。
type TaskResponse struct {
	ID   int64  `json:"id"`
	Task string `json:"task"`
}

// DeleteTaskResponse 表示删除确认。
type DeleteTaskResponse struct {
	Message string `json:"message"`
}

// StatusResponse 表示存储状态，用于健康检查与管理接口。
type StatusResponse struct {
	Healthy        bool   `json:"healthy"`
	TaskCount      int    `json:"task_count"`
	LastID         int64  `json:"last_id"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}
