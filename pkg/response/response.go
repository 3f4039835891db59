package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 是统一的API返回结构体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Ack 按原始的管理端约定返回裸的 JSON true。
// 属性开关、回收站、发布等操作端点沿用该应答格式，前端据此刷新列表。
func Ack(c *gin.Context) {
	c.JSON(http.StatusOK, true)
}
