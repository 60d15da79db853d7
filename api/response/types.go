package response

// RequestIDKey 是 gin context 中保存请求 ID 的键。
const RequestIDKey = "request_id"

// Response 是统一错误响应结构。成功响应直接返回业务数据，与现有客户端契约保持一致。
type Response struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// MessageResponse 是仅包含提示消息的成功响应，如 {"message": "Task deleted"}。
type MessageResponse struct {
	Message string `json:"message"`
}
