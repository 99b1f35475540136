// File: internal/pkg/ctxkey/ctxkey.go
package ctxkey

import "context"

// ContextKey 统一的 context key 类型
type ContextKey string

const (
	// TraceID 请求追踪 ID
	TraceID ContextKey = "trace_id"

	// RequestID 单次请求 ID，由 uuid 生成
	RequestID ContextKey = "request_id"

	// HTTPMethod HTTP 请求方法
	HTTPMethod ContextKey = "http_method"

	// UserID 调用方身份 ID（会话认证后设置）
	UserID ContextKey = "user_id"

	// SessionID Kratos 会话 ID
	SessionID ContextKey = "session_id"

	// CurrentUser 当前调用方（存储在 Echo Context 中）
	CurrentUser ContextKey = "current_user"

	// FederationQuery 正在解析的联邦地址，便于日志关联
	FederationQuery ContextKey = "federation_query"
)

// WithValue 在 context 中设置指定 key 的值
func WithValue(ctx context.Context, key ContextKey, value interface{}) context.Context {
	return context.WithValue(ctx, key, value)
}

// GetString 从 context 中获取字符串类型的值
func GetString(ctx context.Context, key ContextKey) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(key).(string); ok {
		return value
	}
	return ""
}
