package response

import (
	"time"

	"stellar-federation/internal/pkg/xerrors"
)

// EmptyData 表示成功响应中没有数据
type EmptyData struct{}

// ResponseResult 管理接口的通用响应结构
type ResponseResult[T any] struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      *T     `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
	TraceID   string `json:"trace_id,omitempty"`
}

// Success 创建一个成功的响应
func Success[T any](data *T) *ResponseResult[T] {
	return &ResponseResult[T]{
		Code:      xerrors.CodeSuccess.ToInt(),
		Message:   xerrors.CodeSuccess.Message(),
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

// Failure 根据 AppError 创建失败响应
func Failure(appErr *xerrors.AppError) *ResponseResult[EmptyData] {
	return &ResponseResult[EmptyData]{
		Code:      appErr.Code.ToInt(),
		Message:   appErr.Message,
		Timestamp: time.Now().Unix(),
	}
}
