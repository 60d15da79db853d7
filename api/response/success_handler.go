package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleOK 返回 200 及原始业务数据
func HandleOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// HandleCreated 返回 201 及新建资源
func HandleCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// HandleMessage 返回 {"message": ...}
func HandleMessage(c *gin.Context, status int, message string) {
	c.JSON(status, &MessageResponse{Message: message})
}
