// File: internal/pkg/trace/trace.go
package trace

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"stellar-federation/internal/pkg/ctxkey"
)

// WithTraceID 在 context 中设置 trace ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return ctxkey.WithValue(ctx, ctxkey.TraceID, traceID)
}

// GetTraceID 从 context 中获取 trace ID
func GetTraceID(ctx context.Context) string {
	return ctxkey.GetString(ctx, ctxkey.TraceID)
}

// WithRequestID 在 context 中设置请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return ctxkey.WithValue(ctx, ctxkey.RequestID, requestID)
}

// GetRequestID 从 context 中获取请求 ID
func GetRequestID(ctx context.Context) string {
	return ctxkey.GetString(ctx, ctxkey.RequestID)
}

// GenerateTraceID 生成新的 trace ID
// 格式: 32 个字符的十六进制字符串 (与 W3C trace-id 相同长度)
func GenerateTraceID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// ExtractFromHeader 从 HTTP 头部提取 trace ID
// 优先级：X-Trace-Id > X-Request-Id > traceparent (W3C)，都没有时生成新的
func ExtractFromHeader(headers http.Header) string {
	if traceID := strings.TrimSpace(headers.Get("X-Trace-Id")); traceID != "" {
		return traceID
	}

	if requestID := strings.TrimSpace(headers.Get("X-Request-Id")); requestID != "" {
		return requestID
	}

	if traceID := parseTraceparent(headers.Get("Traceparent")); traceID != "" {
		return traceID
	}

	return GenerateTraceID()
}

// parseTraceparent 解析 W3C traceparent 头部
// 格式: "00-<trace-id>-<parent-id>-<flags>"
func parseTraceparent(traceparent string) string {
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 || len(parts[1]) != 32 {
		return ""
	}
	if strings.Trim(parts[1], "0") == "" {
		return ""
	}
	return parts[1]
}
