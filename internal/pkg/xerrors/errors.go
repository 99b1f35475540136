// File: internal/pkg/xerrors/errors.go
package xerrors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// ErrorLevel 错误级别
type ErrorLevel int

const (
	LevelInfo ErrorLevel = iota
	LevelWarn
	LevelError
	LevelCritical
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorContext 错误上下文信息
type ErrorContext struct {
	TraceID   string                 `json:"trace_id,omitempty"`
	UserID    string                 `json:"user_id,omitempty"`
	Service   string                 `json:"service,omitempty"`
	Operation string                 `json:"operation,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AppError 领域错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`

	Level    ErrorLevel `json:"level,omitempty"`
	Category string     `json:"category,omitempty"`

	Context   *ErrorContext `json:"context,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitempty"`

	// 调试信息
	Stack string `json:"stack,omitempty"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`

	Retryable bool `json:"retryable,omitempty"`
}

// Error 实现标准 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 返回该错误对应的 HTTP 状态码
func (e *AppError) HTTPStatus() int {
	return GetHTTPStatus(e.Code)
}

// LogValue 实现 slog.LogValuer 接口
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("message", e.Message),
		slog.String("level", e.Level.String()),
		slog.String("category", e.Category),
		slog.Bool("retryable", e.Retryable),
	}

	if e.Context != nil {
		if e.Context.TraceID != "" {
			attrs = append(attrs, slog.String("trace_id", e.Context.TraceID))
		}
		if e.Context.UserID != "" {
			attrs = append(attrs, slog.String("user_id", e.Context.UserID))
		}
		if e.Context.Service != "" {
			attrs = append(attrs, slog.String("service", e.Context.Service))
		}
		if e.Context.Operation != "" {
			attrs = append(attrs, slog.String("operation", e.Context.Operation))
		}
		for k, v := range e.Context.Metadata {
			attrs = append(attrs, slog.Any(k, v))
		}
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("underlying_error", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// WithTraceID 添加 TraceID
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.ensureContext().TraceID = traceID
	return e
}

// WithUser 添加用户信息
func (e *AppError) WithUser(userID string) *AppError {
	e.ensureContext().UserID = userID
	return e
}

// WithService 添加服务和操作信息
func (e *AppError) WithService(service, operation string) *AppError {
	ctx := e.ensureContext()
	ctx.Service = service
	ctx.Operation = operation
	return e
}

// WithMetadata 添加自定义元数据
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	ctx := e.ensureContext()
	if ctx.Metadata == nil {
		ctx.Metadata = make(map[string]interface{})
	}
	ctx.Metadata[key] = value
	return e
}

func (e *AppError) ensureContext() *ErrorContext {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	return e.Context
}

// IsRetryable 判断是否为可重试错误
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// IsCritical 判断是否为严重错误
func (e *AppError) IsCritical() bool {
	return e.Level == LevelCritical
}

// New 创建新的AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Level:     getLevelByCode(code),
		Category:  getCategoryByCode(code),
		Timestamp: time.Now(),
		Retryable: isRetryableByCode(code),
	}
}

// NewWithError 创建包含原始错误的 AppError，并记录调用位置
func NewWithError(code ErrorCode, message string, err error) *AppError {
	appErr := New(code, message)
	appErr.Err = err

	if pc, file, line, ok := runtime.Caller(1); ok {
		appErr.File = file
		appErr.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			appErr.Stack = fn.Name()
		}
	}

	return appErr
}

// FromCode 根据错误码创建 AppError，消息取默认文案
func FromCode(code ErrorCode) *AppError {
	msg, ok := codeMessages[code]
	if !ok {
		msg = codeMessages[CodeInternalError]
	}
	return New(code, msg)
}

// Wrap 包装标准错误为 AppError，已是 AppError 时原样返回
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewWithError(code, message, err)
}

// As 从错误链中取出 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode 判断错误链中是否包含指定错误码
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// 快捷构造函数

func NewValidationError(field, message string) *AppError {
	return New(CodeInvalidParams, message).WithMetadata("field", field)
}

func NewAuthError(message string) *AppError {
	return New(CodeAuthenticationFailed, message)
}

func NewPermissionError(resource, action string) *AppError {
	return FromCode(CodePermissionDenied).
		WithMetadata("resource", resource).
		WithMetadata("action", action)
}

func NewNotFoundError(resource, identifier string) *AppError {
	return New(CodeResourceNotFound, fmt.Sprintf("%s不存在", resource)).
		WithMetadata("resource", resource).
		WithMetadata("identifier", identifier)
}

func NewUserNotFoundError(userID string) *AppError {
	return FromCode(CodeUserNotFound).WithMetadata("user_id", userID)
}

func NewDirectoryError(backend, operation string, err error) *AppError {
	return NewWithError(CodeDirectoryError, codeMessages[CodeDirectoryError], err).
		WithService(backend, operation)
}

func NewAccountStoreError(backend, operation string, err error) *AppError {
	return NewWithError(CodeAccountStoreError, codeMessages[CodeAccountStoreError], err).
		WithService(backend, operation)
}

func NewDatabaseError(operation, table string, err error) *AppError {
	return NewWithError(CodeDatabaseError, codeMessages[CodeDatabaseError], err).
		WithMetadata("operation", operation).
		WithMetadata("table", table)
}

func NewCacheError(operation, key string, err error) *AppError {
	return NewWithError(CodeCacheError, codeMessages[CodeCacheError], err).
		WithMetadata("operation", operation).
		WithMetadata("key", key)
}

// NewKratosError 创建 Kratos 调用错误
func NewKratosError(operation string, err error) *AppError {
	return NewWithError(CodeKratosError, codeMessages[CodeKratosError], err).
		WithService("kratos", operation)
}

// NewKratosAPIError 根据 Kratos 返回的 HTTP 状态码创建错误
func NewKratosAPIError(operation string, statusCode int) *AppError {
	switch statusCode {
	case 401:
		return NewAuthError("会话无效或已过期").WithService("kratos", operation)
	case 403:
		return FromCode(CodePermissionDenied).WithService("kratos", operation)
	case 404:
		return FromCode(CodeUserNotFound).WithService("kratos", operation)
	default:
		return FromCode(CodeKratosError).
			WithService("kratos", operation).
			WithMetadata("status_code", statusCode)
	}
}

// NewKetoError 创建 Keto 调用错误
func NewKetoError(operation string, err error) *AppError {
	return NewWithError(CodeKetoError, codeMessages[CodeKetoError], err).
		WithService("keto", operation)
}
