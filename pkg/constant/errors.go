package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrForbidden 表示无权访问，可以由 Handler 转换为 403
	ErrForbidden = errors.New("操作禁止")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrUnauthorized 表示未授权，可以由 Handler 转换为 401
	ErrUnauthorized = errors.New("未经授权的访问")
)
